package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"petwalk/internal/domain"
	"petwalk/internal/geo"
	"petwalk/internal/identity"
	internalRedis "petwalk/internal/redis"
	"petwalk/internal/repository"
)

// WalkerService handles walker registration, approval and location updates.
type WalkerService struct {
	walkerRepo    repository.WalkerRepository
	locationStore internalRedis.LocationStoreInterface
	cacheStore    *internalRedis.CacheStore
}

// NewWalkerService creates a new WalkerService. cacheStore may be nil.
func NewWalkerService(
	walkerRepo repository.WalkerRepository,
	locationStore internalRedis.LocationStoreInterface,
	cacheStore *internalRedis.CacheStore,
) *WalkerService {
	return &WalkerService{
		walkerRepo:    walkerRepo,
		locationStore: locationStore,
		cacheStore:    cacheStore,
	}
}

// RegisterWalkerRequest contains the parameters for registering a walker.
type RegisterWalkerRequest struct {
	Name  string
	Phone string
	RUT   string
}

// RegisterWalker creates a walker profile in PENDING state. The RUT is
// validated and stored in canonical form.
func (s *WalkerService) RegisterWalker(ctx context.Context, req RegisterWalkerRequest) (*domain.Walker, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}
	if !validChileanPhone(req.Phone) {
		return nil, ErrInvalidPhone
	}
	if !identity.ValidateRUT(req.RUT) {
		return nil, ErrInvalidRUT
	}

	rut := identity.FormatRUT(req.RUT)
	if _, err := s.walkerRepo.GetByRUT(ctx, rut); err == nil {
		return nil, ErrRUTTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	walker := &domain.Walker{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		RUT:       rut,
		Status:    domain.WalkerStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.walkerRepo.Create(ctx, walker); err != nil {
		return nil, err
	}

	return walker, nil
}

// GetWalker retrieves a walker, consulting the cache first.
func (s *WalkerService) GetWalker(ctx context.Context, walkerID string) (*domain.Walker, error) {
	if walkerID == "" {
		return nil, ErrInvalidWalkerID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetWalker(ctx, walkerID)
		if err == nil && cached != nil {
			return &domain.Walker{
				ID:     cached.ID,
				Name:   cached.Name,
				Phone:  cached.Phone,
				RUT:    cached.RUT,
				Status: domain.WalkerStatus(cached.Status),
				Rating: cached.Rating,
			}, nil
		}
	}

	walker, err := s.walkerRepo.GetByID(ctx, walkerID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetWalker(ctx, &internalRedis.CachedWalker{
			ID:     walker.ID,
			Name:   walker.Name,
			Phone:  walker.Phone,
			RUT:    walker.RUT,
			Status: string(walker.Status),
			Rating: walker.Rating,
		})
	}

	return walker, nil
}

// SetWalkerStatus changes a walker's approval status (admin action).
func (s *WalkerService) SetWalkerStatus(ctx context.Context, walkerID string, status domain.WalkerStatus) error {
	if walkerID == "" {
		return ErrInvalidWalkerID
	}

	switch status {
	case domain.WalkerStatusPending, domain.WalkerStatusApproved, domain.WalkerStatusSuspended:
	default:
		return ErrInvalidTransition
	}

	if err := s.walkerRepo.UpdateStatus(ctx, walkerID, status); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateWalker(ctx, walkerID)
	}

	return nil
}

// UpdateLocation records a walker's last-known position.
func (s *WalkerService) UpdateLocation(ctx context.Context, walkerID string, lat, lng float64) error {
	if walkerID == "" {
		return ErrInvalidWalkerID
	}
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return ErrInvalidLocation
	}

	return s.locationStore.UpdateLocation(ctx, walkerID, lat, lng)
}

// validChileanPhone accepts mobile numbers in the +56 9 XXXX XXXX form,
// with separators ignored.
func validChileanPhone(phone string) bool {
	var digits []byte
	plus := false
	for i := 0; i < len(phone); i++ {
		switch c := phone[i]; {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == '+' && i == 0:
			plus = true
		case c == ' ' || c == '-':
		default:
			return false
		}
	}
	s := string(digits)
	if plus || strings.HasPrefix(s, "56") {
		return len(s) == 11 && strings.HasPrefix(s, "569")
	}
	return len(s) == 9 && s[0] == '9'
}
