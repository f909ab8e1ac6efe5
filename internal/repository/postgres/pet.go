package postgres

import (
	"context"
	"database/sql"
	"errors"

	"petwalk/internal/domain"
	"petwalk/internal/repository"
)

// PetRepository is a PostgreSQL implementation of repository.PetRepository.
type PetRepository struct {
	q Querier
}

// NewPetRepository creates a new PostgreSQL pet repository.
func NewPetRepository(db *sql.DB) *PetRepository {
	return &PetRepository{q: db}
}

// Create persists a new pet.
func (r *PetRepository) Create(ctx context.Context, pet *domain.Pet) error {
	query := `
		INSERT INTO pets (id, owner_id, name, species, breed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		pet.ID,
		pet.OwnerID,
		pet.Name,
		pet.Species,
		nullString(pet.Breed),
		pet.CreatedAt,
	)

	return err
}

// GetByID retrieves a pet by ID.
func (r *PetRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	query := `SELECT id, owner_id, name, species, breed, created_at FROM pets WHERE id = $1`

	pet, err := scanPet(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return pet, nil
}

// ListByOwner retrieves a client's pets.
func (r *PetRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	query := `SELECT id, owner_id, name, species, breed, created_at FROM pets WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []*domain.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

func scanPet(row rowScanner) (*domain.Pet, error) {
	var pet domain.Pet
	var breed sql.NullString

	err := row.Scan(&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &breed, &pet.CreatedAt)
	if err != nil {
		return nil, err
	}
	if breed.Valid {
		pet.Breed = breed.String
	}
	return &pet, nil
}
