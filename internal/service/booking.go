package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"

	"petwalk/internal/domain"
	"petwalk/internal/geo"
	"petwalk/internal/observability"
	internalRedis "petwalk/internal/redis"
	"petwalk/internal/repository"
)

const acceptLockTTL = 10 * time.Second

// EventPublisher receives booking lifecycle events for realtime fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
}

// BookingService enforces the booking lifecycle: requested -> assigned
// -> in_progress -> completed, with cancellation reachable from the
// first two states and early termination folding into completion.
type BookingService struct {
	bookingRepo         repository.BookingRepository
	petRepo             repository.PetRepository
	walkerRepo          repository.WalkerRepository
	routeRepo           repository.RoutePointRepository
	lockStore           internalRedis.LockStoreInterface
	notificationService *NotificationService
	events              EventPublisher
}

// NewBookingService creates a new BookingService. lockStore,
// notificationService and events may be nil.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	petRepo repository.PetRepository,
	walkerRepo repository.WalkerRepository,
	routeRepo repository.RoutePointRepository,
	lockStore internalRedis.LockStoreInterface,
	notificationService *NotificationService,
	events EventPublisher,
) *BookingService {
	return &BookingService{
		bookingRepo:         bookingRepo,
		petRepo:             petRepo,
		walkerRepo:          walkerRepo,
		routeRepo:           routeRepo,
		lockStore:           lockStore,
		notificationService: notificationService,
		events:              events,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	ClientID        string
	PetID           string
	ScheduledAt     time.Time
	DurationMinutes int
	PriceCLP        int64
}

// CreateBooking creates a booking in REQUESTED state with a freshly
// generated 4-digit start code and no walker.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ClientID == "" {
		return nil, ErrUnauthorized
	}
	if req.PetID == "" {
		return nil, ErrInvalidPetID
	}
	if req.PriceCLP <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if req.ScheduledAt.IsZero() {
		return nil, ErrInvalidSchedule
	}

	pet, err := s.petRepo.GetByID(ctx, req.PetID)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != req.ClientID {
		return nil, ErrUnauthorized
	}

	code, err := generateStartCode()
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		PetID:           req.PetID,
		Status:          domain.BookingStatusRequested,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		PriceCLP:        req.PriceCLP,
		StartCode:       code,
		CreatedAt:       time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	observability.BookingsCreated.Inc()
	s.publish(ctx, domain.EventBookingRequested, booking)

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// AcceptBookingRequest contains the parameters for a walker accepting a booking.
type AcceptBookingRequest struct {
	BookingID string
	WalkerID  string
}

// AcceptBooking assigns a walker to a REQUESTED booking. The transition
// is a conditional update; a concurrent accept loses the race and gets
// ErrInvalidTransition.
func (s *BookingService) AcceptBooking(ctx context.Context, req AcceptBookingRequest) (*domain.Booking, error) {
	if req.WalkerID == "" {
		return nil, ErrUnauthorized
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	walker, err := s.walkerRepo.GetByID(ctx, req.WalkerID)
	if err != nil {
		return nil, err
	}
	if walker.Status != domain.WalkerStatusApproved {
		return nil, ErrWalkerNotApproved
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireBookingLock(ctx, req.BookingID, acceptLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrInvalidTransition
		}
		defer func() { _ = s.lockStore.ReleaseBookingLock(ctx, req.BookingID) }()
	}

	ok, err := s.bookingRepo.Assign(ctx, req.BookingID, req.WalkerID)
	if err != nil {
		return nil, err
	}

	booking, getErr := s.bookingRepo.GetByID(ctx, req.BookingID)
	if getErr != nil {
		return nil, getErr
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	observability.BookingTransitions.WithLabelValues("accept").Inc()
	s.publish(ctx, domain.EventBookingAssigned, booking)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyWalkerAssigned(ctx, booking, walker)
	}

	return booking, nil
}

// StartWalkRequest contains the parameters for the start-code handshake.
type StartWalkRequest struct {
	BookingID string
	WalkerID  string
	StartCode string
}

// StartWalk verifies the client's start code and moves the booking to
// IN_PROGRESS. A code mismatch leaves the booking in ASSIGNED state.
func (s *BookingService) StartWalk(ctx context.Context, req StartWalkRequest) (*domain.Booking, error) {
	if req.WalkerID == "" {
		return nil, ErrUnauthorized
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusAssigned {
		return nil, ErrInvalidTransition
	}
	if booking.WalkerID != req.WalkerID {
		return nil, ErrUnauthorized
	}
	if booking.StartCode != req.StartCode {
		return nil, ErrCodeMismatch
	}

	ok, err := s.bookingRepo.MarkInProgress(ctx, req.BookingID, req.WalkerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	booking.Status = domain.BookingStatusInProgress
	observability.BookingTransitions.WithLabelValues("start").Inc()
	s.publish(ctx, domain.EventWalkStarted, booking)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyWalkStarted(ctx, booking)
	}

	return booking, nil
}

// CompleteWalkRequest contains the parameters for completing a walk.
type CompleteWalkRequest struct {
	BookingID string
	WalkerID  string
	Notes     string
}

// CompleteWalk ends an IN_PROGRESS walk. Distance and duration are
// derived from the GPS trail; with fewer than two route points both are
// recorded as zero.
func (s *BookingService) CompleteWalk(ctx context.Context, req CompleteWalkRequest) (*domain.Booking, error) {
	if req.WalkerID == "" {
		return nil, ErrUnauthorized
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingStatusInProgress {
		return nil, ErrInvalidTransition
	}
	if booking.WalkerID != req.WalkerID {
		return nil, ErrUnauthorized
	}

	distanceKm, minutes, err := s.routeTotals(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	upd := repository.CompletionUpdate{
		DistanceKm:    distanceKm,
		WalkedMinutes: minutes,
		PriceCLP:      booking.PriceCLP,
		PenaltyCLP:    0,
		Notes:         joinNotes(booking.Notes, req.Notes),
		CompletedAt:   time.Now(),
	}

	ok, err := s.bookingRepo.Complete(ctx, req.BookingID, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	booking.Status = domain.BookingStatusCompleted
	booking.DistanceKm = distanceKm
	booking.WalkedMinutes = minutes
	booking.Notes = upd.Notes
	booking.CompletedAt = upd.CompletedAt

	observability.BookingTransitions.WithLabelValues("complete").Inc()
	observability.WalkDistanceKm.Observe(distanceKm)
	s.publish(ctx, domain.EventWalkCompleted, booking)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyWalkCompleted(ctx, booking)
	}

	return booking, nil
}

// TerminateEarlyRequest contains the parameters for a client ending a
// walk that is already underway.
type TerminateEarlyRequest struct {
	BookingID string
	ClientID  string
	Reason    string
}

// TerminateEarly ends an IN_PROGRESS walk at the client's request. The
// booking completes (never cancels) and a fixed penalty is added to the
// price.
func (s *BookingService) TerminateEarly(ctx context.Context, req TerminateEarlyRequest) (*domain.Booking, error) {
	if req.ClientID == "" {
		return nil, ErrUnauthorized
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.ClientID != req.ClientID {
		return nil, ErrUnauthorized
	}
	if booking.Status != domain.BookingStatusInProgress {
		return nil, ErrInvalidTransition
	}

	distanceKm, minutes, err := s.routeTotals(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	note := "terminated early by client"
	if req.Reason != "" {
		note = fmt.Sprintf("terminated early by client: %s", req.Reason)
	}

	upd := repository.CompletionUpdate{
		DistanceKm:    distanceKm,
		WalkedMinutes: minutes,
		PriceCLP:      booking.PriceCLP + domain.EarlyTerminationPenaltyCLP,
		PenaltyCLP:    domain.EarlyTerminationPenaltyCLP,
		Notes:         joinNotes(booking.Notes, note),
		CompletedAt:   time.Now(),
	}

	ok, err := s.bookingRepo.Complete(ctx, req.BookingID, upd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	booking.Status = domain.BookingStatusCompleted
	booking.PriceCLP = upd.PriceCLP
	booking.PenaltyCLP = upd.PenaltyCLP
	booking.DistanceKm = distanceKm
	booking.WalkedMinutes = minutes
	booking.Notes = upd.Notes
	booking.CompletedAt = upd.CompletedAt

	observability.BookingTransitions.WithLabelValues("terminate_early").Inc()
	s.publish(ctx, domain.EventWalkCompleted, booking)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyWalkCompleted(ctx, booking)
	}

	return booking, nil
}

// CancelBookingRequest contains the parameters for cancelling a booking.
type CancelBookingRequest struct {
	BookingID string
	ClientID  string
	Reason    string
}

// CancelBooking cancels a REQUESTED or ASSIGNED booking. Cancellation
// is blocked while the assigned walker has walks in progress elsewhere.
func (s *BookingService) CancelBooking(ctx context.Context, req CancelBookingRequest) (*domain.Booking, error) {
	if req.ClientID == "" {
		return nil, ErrUnauthorized
	}
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != req.ClientID {
		return nil, ErrUnauthorized
	}

	activeLoad := 0
	if booking.WalkerID != "" {
		activeLoad, err = s.bookingRepo.CountInProgressByWalker(ctx, booking.WalkerID)
		if err != nil {
			return nil, err
		}
	}

	if !domain.CanCancel(booking.Status, activeLoad) {
		if activeLoad > 0 {
			return nil, ErrCancellationBlocked
		}
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	ok, err := s.bookingRepo.Cancel(ctx, req.BookingID, domain.CancelledByClient, req.Reason, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The guard refused: either the status moved, or the walker went
		// mid-walk elsewhere after our load check. Re-read to report which.
		current, err := s.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			return nil, err
		}
		if current.WalkerID != "" {
			load, err := s.bookingRepo.CountInProgressByWalker(ctx, current.WalkerID)
			if err != nil {
				return nil, err
			}
			if load > 0 {
				return nil, ErrCancellationBlocked
			}
		}
		return nil, ErrInvalidTransition
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledBy = domain.CancelledByClient
	booking.CancelReason = req.Reason
	booking.CancelledAt = now

	observability.BookingTransitions.WithLabelValues("cancel").Inc()
	s.publish(ctx, domain.EventBookingCancelled, booking)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCancelled(ctx, booking)
	}

	return booking, nil
}

// ListClientBookings retrieves a client's bookings.
func (s *BookingService) ListClientBookings(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	if clientID == "" {
		return nil, ErrInvalidClientID
	}
	return s.bookingRepo.ListByClient(ctx, clientID)
}

// ListWalkerBookings retrieves a walker's bookings.
func (s *BookingService) ListWalkerBookings(ctx context.Context, walkerID string) ([]*domain.Booking, error) {
	if walkerID == "" {
		return nil, ErrInvalidWalkerID
	}
	return s.bookingRepo.ListByWalker(ctx, walkerID)
}

// routeTotals sums consecutive great-circle distances over the GPS
// trail and measures elapsed minutes first sample to last. Fewer than
// two samples yields zeros; completion with no GPS data silently
// records a zero-length walk.
func (s *BookingService) routeTotals(ctx context.Context, bookingID string) (float64, int, error) {
	points, err := s.routeRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return 0, 0, err
	}
	if len(points) < 2 {
		return 0, 0, nil
	}

	var distanceKm float64
	for i := 1; i < len(points); i++ {
		distanceKm += geo.HaversineKm(
			points[i-1].Lat, points[i-1].Lng,
			points[i].Lat, points[i].Lng,
		)
	}

	elapsed := points[len(points)-1].CapturedAt.Sub(points[0].CapturedAt)
	minutes := int(math.Round(elapsed.Minutes()))

	return distanceKm, minutes, nil
}

func (s *BookingService) publish(ctx context.Context, eventType domain.BookingEventType, booking *domain.Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, domain.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		ClientID:  booking.ClientID,
		WalkerID:  booking.WalkerID,
		Status:    booking.Status,
		At:        time.Now(),
	})
}

func joinNotes(existing, added string) string {
	switch {
	case added == "":
		return existing
	case existing == "":
		return added
	default:
		return existing + "\n" + added
	}
}

// generateStartCode produces a 4-digit zero-padded verification code.
func generateStartCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
