package domain

import "time"

// Client represents a pet owner in the system.
type Client struct {
	ID        string
	Name      string
	Phone     string
	RUT       string
	CreatedAt time.Time
}
