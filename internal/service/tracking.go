package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"petwalk/internal/domain"
	"petwalk/internal/geo"
	"petwalk/internal/repository"
)

// RoutePublisher forwards GPS samples to a downstream pipeline.
type RoutePublisher interface {
	PublishRoutePoint(point *domain.RoutePoint) error
}

// TrackingService records the GPS trail of active walks.
type TrackingService struct {
	bookingRepo repository.BookingRepository
	routeRepo   repository.RoutePointRepository
	publisher   RoutePublisher
}

// NewTrackingService creates a new TrackingService. publisher may be nil.
func NewTrackingService(
	bookingRepo repository.BookingRepository,
	routeRepo repository.RoutePointRepository,
	publisher RoutePublisher,
) *TrackingService {
	return &TrackingService{
		bookingRepo: bookingRepo,
		routeRepo:   routeRepo,
		publisher:   publisher,
	}
}

// AppendRoutePointRequest contains the parameters for recording a GPS sample.
type AppendRoutePointRequest struct {
	BookingID  string
	WalkerID   string
	Lat        float64
	Lng        float64
	CapturedAt time.Time
}

// AppendRoutePoint records one GPS sample for a walk in progress.
// Samples are append-only; nothing is ever rewritten.
func (s *TrackingService) AppendRoutePoint(ctx context.Context, req AppendRoutePointRequest) (*domain.RoutePoint, error) {
	if req.WalkerID == "" {
		return nil, ErrUnauthorized
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if !geo.ValidLatitude(req.Lat) || !geo.ValidLongitude(req.Lng) {
		return nil, ErrInvalidLocation
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.WalkerID != req.WalkerID {
		return nil, ErrUnauthorized
	}
	if booking.Status != domain.BookingStatusInProgress {
		return nil, ErrBookingNotActive
	}

	capturedAt := req.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	point := &domain.RoutePoint{
		ID:         uuid.New().String(),
		BookingID:  req.BookingID,
		Lat:        req.Lat,
		Lng:        req.Lng,
		CapturedAt: capturedAt,
	}

	if err := s.routeRepo.Append(ctx, point); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		// Best effort; analytics lag must not fail the walk.
		_ = s.publisher.PublishRoutePoint(point)
	}

	return point, nil
}

// GetRoute retrieves a booking's GPS trail ordered by capture time.
func (s *TrackingService) GetRoute(ctx context.Context, bookingID string) ([]*domain.RoutePoint, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.routeRepo.ListByBooking(ctx, bookingID)
}
