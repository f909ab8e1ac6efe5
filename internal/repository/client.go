package repository

import (
	"context"

	"petwalk/internal/domain"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	// Create persists a new client.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID.
	GetByID(ctx context.Context, id string) (*domain.Client, error)
}

// PetRepository defines the persistence operations for pets.
type PetRepository interface {
	// Create persists a new pet.
	Create(ctx context.Context, pet *domain.Pet) error

	// GetByID retrieves a pet by ID.
	GetByID(ctx context.Context, id string) (*domain.Pet, error)

	// ListByOwner retrieves a client's pets.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error)
}
