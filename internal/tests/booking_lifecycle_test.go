package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"petwalk/internal/domain"
	"petwalk/internal/repository"
	"petwalk/internal/service"
)

// ──────────────────────────────────────────────
// BOOKING LIFECYCLE
// ──────────────────────────────────────────────

func newBookingService(bookingRepo repository.BookingRepository, petRepo *MockPetRepository, walkerRepo *MockWalkerRepository, routeRepo *MockRoutePointRepository) *service.BookingService {
	return service.NewBookingService(bookingRepo, petRepo, walkerRepo, routeRepo, NewMockLockStore(), nil, nil)
}

func seedApprovedWalker(walkerRepo *MockWalkerRepository, id string) {
	walkerRepo.AddWalker(&domain.Walker{
		ID:     id,
		Name:   "Valentina Rojas",
		Status: domain.WalkerStatusApproved,
		Rating: 4.8,
	})
}

func TestCreateBooking_StartsRequestedWithStartCode(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	petRepo := NewMockPetRepository()
	petRepo.AddPet(&domain.Pet{ID: "pet-1", OwnerID: "client-1", Name: "Cachupín", Species: domain.PetSpeciesDog})

	svc := newBookingService(bookingRepo, petRepo, NewMockWalkerRepository(), NewMockRoutePointRepository())

	booking, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		ClientID:        "client-1",
		PetID:           "pet-1",
		ScheduledAt:     time.Now().Add(2 * time.Hour),
		DurationMinutes: 60,
		PriceCLP:        12000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusRequested {
		t.Errorf("expected status %s, got %s", domain.BookingStatusRequested, booking.Status)
	}
	if booking.WalkerID != "" {
		t.Errorf("expected no walker on a fresh booking, got %q", booking.WalkerID)
	}
	if len(booking.StartCode) != 4 {
		t.Errorf("expected 4-digit start code, got %q", booking.StartCode)
	}
	for _, r := range booking.StartCode {
		if r < '0' || r > '9' {
			t.Errorf("start code contains non-digit: %q", booking.StartCode)
		}
	}
	if bookingRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", bookingRepo.CreateCallCount)
	}
}

func TestCreateBooking_RejectsPetOwnedBySomeoneElse(t *testing.T) {
	t.Parallel()

	petRepo := NewMockPetRepository()
	petRepo.AddPet(&domain.Pet{ID: "pet-1", OwnerID: "client-2", Name: "Misifus", Species: domain.PetSpeciesCat})

	svc := newBookingService(NewMockBookingRepository(), petRepo, NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.CreateBooking(context.Background(), service.CreateBookingRequest{
		ClientID:        "client-1",
		PetID:           "pet-1",
		ScheduledAt:     time.Now().Add(time.Hour),
		DurationMinutes: 30,
		PriceCLP:        8000,
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAcceptBooking_AssignsWalker(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	walkerRepo := NewMockWalkerRepository()
	seedApprovedWalker(walkerRepo, "walker-1")
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		Status:   domain.BookingStatusRequested,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), walkerRepo, NewMockRoutePointRepository())

	booking, err := svc.AcceptBooking(context.Background(), service.AcceptBookingRequest{
		BookingID: "booking-1",
		WalkerID:  "walker-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusAssigned {
		t.Errorf("expected status %s, got %s", domain.BookingStatusAssigned, booking.Status)
	}
	if booking.WalkerID != "walker-1" {
		t.Errorf("expected walker-1 assigned, got %q", booking.WalkerID)
	}
}

func TestAcceptBooking_SecondWalkerLosesRace(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	walkerRepo := NewMockWalkerRepository()
	seedApprovedWalker(walkerRepo, "walker-1")
	seedApprovedWalker(walkerRepo, "walker-2")
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		Status:   domain.BookingStatusRequested,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), walkerRepo, NewMockRoutePointRepository())

	if _, err := svc.AcceptBooking(context.Background(), service.AcceptBookingRequest{BookingID: "booking-1", WalkerID: "walker-1"}); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	_, err := svc.AcceptBooking(context.Background(), service.AcceptBookingRequest{BookingID: "booking-1", WalkerID: "walker-2"})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for second accept, got %v", err)
	}

	// First walker keeps the booking.
	stored := bookingRepo.GetBooking("booking-1")
	if stored.WalkerID != "walker-1" {
		t.Errorf("expected walker-1 to keep the booking, got %q", stored.WalkerID)
	}
}

func TestAcceptBooking_RequiresApprovedWalker(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	walkerRepo := NewMockWalkerRepository()
	walkerRepo.AddWalker(&domain.Walker{ID: "walker-1", Status: domain.WalkerStatusPending})
	bookingRepo.AddBooking(&domain.Booking{ID: "booking-1", Status: domain.BookingStatusRequested})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), walkerRepo, NewMockRoutePointRepository())

	_, err := svc.AcceptBooking(context.Background(), service.AcceptBookingRequest{BookingID: "booking-1", WalkerID: "walker-1"})
	if !errors.Is(err, service.ErrWalkerNotApproved) {
		t.Errorf("expected ErrWalkerNotApproved, got %v", err)
	}
}

func TestStartWalk_WrongCodeKeepsBookingAssigned(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		ClientID:  "client-1",
		WalkerID:  "walker-1",
		Status:    domain.BookingStatusAssigned,
		StartCode: "4821",
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.StartWalk(context.Background(), service.StartWalkRequest{
		BookingID: "booking-1",
		WalkerID:  "walker-1",
		StartCode: "0000",
	})
	if !errors.Is(err, service.ErrCodeMismatch) {
		t.Errorf("expected ErrCodeMismatch, got %v", err)
	}

	stored := bookingRepo.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusAssigned {
		t.Errorf("expected booking to stay %s, got %s", domain.BookingStatusAssigned, stored.Status)
	}
}

func TestStartWalk_CorrectCodeMovesToInProgress(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		ClientID:  "client-1",
		WalkerID:  "walker-1",
		Status:    domain.BookingStatusAssigned,
		StartCode: "4821",
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	booking, err := svc.StartWalk(context.Background(), service.StartWalkRequest{
		BookingID: "booking-1",
		WalkerID:  "walker-1",
		StartCode: "4821",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusInProgress {
		t.Errorf("expected status %s, got %s", domain.BookingStatusInProgress, booking.Status)
	}
}

func TestStartWalk_OnlyAssignedWalkerMayStart(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:        "booking-1",
		WalkerID:  "walker-1",
		Status:    domain.BookingStatusAssigned,
		StartCode: "4821",
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.StartWalk(context.Background(), service.StartWalkRequest{
		BookingID: "booking-1",
		WalkerID:  "walker-2",
		StartCode: "4821",
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCompleteWalk_RecordsRouteTotals(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	routeRepo := NewMockRoutePointRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
		PriceCLP: 12000,
	})

	start := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	// Two samples one degree of latitude apart: ~111.2 km, 30 minutes.
	routeRepo.AddPoint(&domain.RoutePoint{ID: "p1", BookingID: "booking-1", Lat: 0, Lng: 0, CapturedAt: start})
	routeRepo.AddPoint(&domain.RoutePoint{ID: "p2", BookingID: "booking-1", Lat: 1, Lng: 0, CapturedAt: start.Add(30 * time.Minute)})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), routeRepo)

	booking, err := svc.CompleteWalk(context.Background(), service.CompleteWalkRequest{
		BookingID: "booking-1",
		WalkerID:  "walker-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusCompleted {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCompleted, booking.Status)
	}
	if booking.DistanceKm < 111.0 || booking.DistanceKm > 111.4 {
		t.Errorf("expected ~111.2 km, got %f", booking.DistanceKm)
	}
	if booking.WalkedMinutes != 30 {
		t.Errorf("expected 30 walked minutes, got %d", booking.WalkedMinutes)
	}
	if booking.PenaltyCLP != 0 {
		t.Errorf("expected no penalty on normal completion, got %d", booking.PenaltyCLP)
	}
	if booking.PriceCLP != 12000 {
		t.Errorf("expected price unchanged, got %d", booking.PriceCLP)
	}
}

func TestCompleteWalk_FewerThanTwoPointsRecordsZeros(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	routeRepo := NewMockRoutePointRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
	})
	routeRepo.AddPoint(&domain.RoutePoint{ID: "p1", BookingID: "booking-1", Lat: -33.44, Lng: -70.65, CapturedAt: time.Now()})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), routeRepo)

	booking, err := svc.CompleteWalk(context.Background(), service.CompleteWalkRequest{
		BookingID: "booking-1",
		WalkerID:  "walker-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.DistanceKm != 0 {
		t.Errorf("expected zero distance with one sample, got %f", booking.DistanceKm)
	}
	if booking.WalkedMinutes != 0 {
		t.Errorf("expected zero minutes with one sample, got %d", booking.WalkedMinutes)
	}
	if booking.Status != domain.BookingStatusCompleted {
		t.Errorf("expected completion despite missing GPS data, got %s", booking.Status)
	}
}

func TestTerminateEarly_CompletesWithPenalty(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
		PriceCLP: 10000,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	booking, err := svc.TerminateEarly(context.Background(), service.TerminateEarlyRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
		Reason:    "dog got anxious",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusCompleted {
		t.Errorf("expected early termination to complete the booking, got %s", booking.Status)
	}
	if booking.PenaltyCLP != domain.EarlyTerminationPenaltyCLP {
		t.Errorf("expected penalty %d, got %d", domain.EarlyTerminationPenaltyCLP, booking.PenaltyCLP)
	}
	if booking.PriceCLP != 13000 {
		t.Errorf("expected price 13000 after penalty, got %d", booking.PriceCLP)
	}

	stored := bookingRepo.GetBooking("booking-1")
	if stored.Status == domain.BookingStatusCancelled {
		t.Error("early termination must never record a cancellation")
	}
}

func TestTerminateEarly_OnlyOwningClient(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.TerminateEarly(context.Background(), service.TerminateEarlyRequest{
		BookingID: "booking-1",
		ClientID:  "client-2",
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTerminateEarly_RejectedBeforeWalkStarts(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusAssigned,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.TerminateEarly(context.Background(), service.TerminateEarlyRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
	})
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}
