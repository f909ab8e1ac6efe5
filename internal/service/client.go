package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"petwalk/internal/domain"
	"petwalk/internal/identity"
	"petwalk/internal/repository"
)

// ClientService handles client and pet registration.
type ClientService struct {
	clientRepo repository.ClientRepository
	petRepo    repository.PetRepository
}

// NewClientService creates a new ClientService.
func NewClientService(clientRepo repository.ClientRepository, petRepo repository.PetRepository) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		petRepo:    petRepo,
	}
}

// RegisterClientRequest contains the parameters for registering a client.
type RegisterClientRequest struct {
	Name  string
	Phone string
	RUT   string
}

// RegisterClient creates a new client with a canonically formatted RUT.
func (s *ClientService) RegisterClient(ctx context.Context, req RegisterClientRequest) (*domain.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	if !validChileanPhone(req.Phone) {
		return nil, ErrInvalidPhone
	}
	if !identity.ValidateRUT(req.RUT) {
		return nil, ErrInvalidRUT
	}

	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		RUT:       identity.FormatRUT(req.RUT),
		CreatedAt: time.Now(),
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// RegisterPetRequest contains the parameters for registering a pet.
type RegisterPetRequest struct {
	OwnerID string
	Name    string
	Species domain.PetSpecies
	Breed   string
}

// RegisterPet creates a pet for an existing client.
func (s *ClientService) RegisterPet(ctx context.Context, req RegisterPetRequest) (*domain.Pet, error) {
	if req.OwnerID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	if req.Species != domain.PetSpeciesDog && req.Species != domain.PetSpeciesCat {
		return nil, ErrInvalidPetID
	}

	// Owner must exist.
	if _, err := s.clientRepo.GetByID(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	pet := &domain.Pet{
		ID:        uuid.New().String(),
		OwnerID:   req.OwnerID,
		Name:      strings.TrimSpace(req.Name),
		Species:   req.Species,
		Breed:     req.Breed,
		CreatedAt: time.Now(),
	}

	if err := s.petRepo.Create(ctx, pet); err != nil {
		return nil, err
	}

	return pet, nil
}

// ListPets retrieves a client's pets.
func (s *ClientService) ListPets(ctx context.Context, ownerID string) ([]*domain.Pet, error) {
	if ownerID == "" {
		return nil, ErrInvalidClientID
	}
	return s.petRepo.ListByOwner(ctx, ownerID)
}
