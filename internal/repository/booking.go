package repository

import (
	"context"
	"time"

	"petwalk/internal/domain"
)

// CompletionUpdate carries the fields written when a booking completes.
type CompletionUpdate struct {
	DistanceKm    float64
	WalkedMinutes int
	PriceCLP      int64
	PenaltyCLP    int64
	Notes         string
	CompletedAt   time.Time
}

// BookingRepository defines the persistence operations for bookings.
//
// The guarded mutations (Assign, MarkInProgress, Complete, Cancel) are
// conditional updates: each applies a single UPDATE restricted by the
// expected current status, and reports whether a row matched. Callers
// treat a false return as a lost race or an invalid transition; state is
// never read-then-written across statements.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByClient retrieves a client's bookings, newest first.
	ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error)

	// ListByWalker retrieves a walker's bookings, newest first.
	ListByWalker(ctx context.Context, walkerID string) ([]*domain.Booking, error)

	// ListAssignedStartingBefore retrieves ASSIGNED bookings scheduled
	// to start before the cutoff. Used by the reminder loop.
	ListAssignedStartingBefore(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error)

	// Assign sets the walker and moves REQUESTED -> ASSIGNED.
	Assign(ctx context.Context, id, walkerID string) (bool, error)

	// MarkInProgress moves ASSIGNED -> IN_PROGRESS for the given walker.
	MarkInProgress(ctx context.Context, id, walkerID string) (bool, error)

	// Complete moves IN_PROGRESS -> COMPLETED and records the walk
	// totals and final price.
	Complete(ctx context.Context, id string, upd CompletionUpdate) (bool, error)

	// Cancel moves REQUESTED/ASSIGNED -> CANCELLED and records the
	// cancelling party and reason.
	Cancel(ctx context.Context, id string, by domain.CancelParty, reason string, at time.Time) (bool, error)

	// CountInProgressByWalker returns the walker's active load.
	CountInProgressByWalker(ctx context.Context, walkerID string) (int, error)
}
