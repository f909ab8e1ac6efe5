package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for walker location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, walkerID string, lat, lng float64) error
	Locations(ctx context.Context, walkerIDs []string) (map[string]WalkerCoordinate, error)
	RemoveLocation(ctx context.Context, walkerID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
)
