package repository

import (
	"context"

	"petwalk/internal/domain"
)

// WalkerRepository defines the persistence operations for walkers.
type WalkerRepository interface {
	// Create persists a new walker profile.
	Create(ctx context.Context, walker *domain.Walker) error

	// GetByID retrieves a walker by ID.
	GetByID(ctx context.Context, id string) (*domain.Walker, error)

	// GetByRUT retrieves a walker by canonical RUT.
	GetByRUT(ctx context.Context, rut string) (*domain.Walker, error)

	// ListApproved retrieves all walkers with APPROVED status.
	ListApproved(ctx context.Context) ([]*domain.Walker, error)

	// UpdateStatus changes a walker's approval status.
	UpdateStatus(ctx context.Context, id string, status domain.WalkerStatus) error
}
