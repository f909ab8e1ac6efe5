package repository

import (
	"context"

	"petwalk/internal/domain"
)

// RoutePointRepository defines the persistence operations for GPS
// samples captured during a walk.
type RoutePointRepository interface {
	// Append persists a new route point.
	Append(ctx context.Context, point *domain.RoutePoint) error

	// ListByBooking retrieves a booking's route points ordered by
	// capture time.
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.RoutePoint, error)
}
