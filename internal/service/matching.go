package service

import (
	"context"
	"sort"
	"time"

	"petwalk/internal/geo"
	"petwalk/internal/observability"
	internalRedis "petwalk/internal/redis"
	"petwalk/internal/repository"
)

const (
	// ImmediateRadiusKm caps walker distance for walks starting soon.
	ImmediateRadiusKm = 3.0

	// ImmediateWindow is how far ahead a booking may be scheduled and
	// still count as immediate.
	ImmediateWindow = time.Hour
)

// WithinImmediateRadius reports whether a walker at the given distance
// may serve an immediate booking. The 3 km boundary is inclusive: a
// walker exactly at the radius still qualifies.
func WithinImmediateRadius(distanceKm float64) bool {
	return distanceKm <= ImmediateRadiusKm
}

// MatchingServiceInterface defines the matching service contract.
// This interface allows for testing with mock implementations.
type MatchingServiceInterface interface {
	Match(ctx context.Context, req MatchRequest) ([]WalkerCandidate, error)
}

// Ensure MatchingService implements MatchingServiceInterface.
var _ MatchingServiceInterface = (*MatchingService)(nil)

// MatchingService ranks approved walkers by straight-line distance from
// the client.
type MatchingService struct {
	walkerRepo    repository.WalkerRepository
	bookingRepo   repository.BookingRepository
	locationStore internalRedis.LocationStoreInterface
	now           func() time.Time
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	walkerRepo repository.WalkerRepository,
	bookingRepo repository.BookingRepository,
	locationStore internalRedis.LocationStoreInterface,
) *MatchingService {
	return &MatchingService{
		walkerRepo:    walkerRepo,
		bookingRepo:   bookingRepo,
		locationStore: locationStore,
		now:           time.Now,
	}
}

// MatchRequest contains the parameters for a matching query.
type MatchRequest struct {
	Lat         float64
	Lng         float64
	ScheduledAt time.Time
}

// WalkerCandidate is a walker annotated with distance and load for one
// matching query. Candidates are never persisted.
type WalkerCandidate struct {
	WalkerID    string
	Name        string
	Rating      float64
	DistanceKm  float64
	ActiveLoad  int
	HasLocation bool
}

// Match returns approved walkers ranked by ascending distance from the
// client. For immediate bookings (scheduled within one hour) only
// walkers within 3 km are returned and walkers with no known position
// are excluded; for scheduled bookings unlocated walkers are appended
// after all ranked candidates. An empty result is a valid outcome, not
// an error.
func (s *MatchingService) Match(ctx context.Context, req MatchRequest) ([]WalkerCandidate, error) {
	if !geo.ValidLatitude(req.Lat) || !geo.ValidLongitude(req.Lng) {
		return nil, ErrInvalidLocation
	}

	start := time.Now()
	defer func() {
		observability.MatchLatency.Observe(time.Since(start).Seconds())
	}()

	immediate := req.ScheduledAt.Before(s.now().Add(ImmediateWindow))

	walkers, err := s.walkerRepo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	if len(walkers) == 0 {
		return []WalkerCandidate{}, nil
	}

	walkerIDs := make([]string, len(walkers))
	for i, w := range walkers {
		walkerIDs[i] = w.ID
	}

	coords, err := s.locationStore.Locations(ctx, walkerIDs)
	if err != nil {
		return nil, err
	}

	ranked := make([]WalkerCandidate, 0, len(walkers))
	var unlocated []WalkerCandidate

	for _, walker := range walkers {
		load, err := s.bookingRepo.CountInProgressByWalker(ctx, walker.ID)
		if err != nil {
			return nil, err
		}

		coord, ok := coords[walker.ID]
		if !ok {
			// No recorded position: ineligible for immediate walks,
			// listed unranked for scheduled ones.
			if !immediate {
				unlocated = append(unlocated, WalkerCandidate{
					WalkerID:   walker.ID,
					Name:       walker.Name,
					Rating:     walker.Rating,
					ActiveLoad: load,
				})
			}
			continue
		}

		distance := geo.HaversineKm(req.Lat, req.Lng, coord.Lat, coord.Lng)
		if immediate && !WithinImmediateRadius(distance) {
			continue
		}

		ranked = append(ranked, WalkerCandidate{
			WalkerID:    walker.ID,
			Name:        walker.Name,
			Rating:      walker.Rating,
			DistanceKm:  distance,
			ActiveLoad:  load,
			HasLocation: true,
		})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].DistanceKm < ranked[j].DistanceKm })

	observability.WalkersRanked.Observe(float64(len(ranked)))
	return append(ranked, unlocated...), nil
}
