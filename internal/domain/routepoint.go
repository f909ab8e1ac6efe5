package domain

import "time"

// RoutePoint is one GPS sample captured during an active walk.
// Points are append-only and ordered by capture time.
type RoutePoint struct {
	ID         string
	BookingID  string
	Lat        float64
	Lng        float64
	CapturedAt time.Time
}
