package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"petwalk/internal/domain"
	"petwalk/internal/service"
)

// ──────────────────────────────────────────────
// CANCELLATION GATE
// ──────────────────────────────────────────────

func TestCancelBooking_RequestedBookingCancels(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		Status:   domain.BookingStatusRequested,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	booking, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
		Reason:    "plans changed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, booking.Status)
	}
	if booking.CancelledBy != domain.CancelledByClient {
		t.Errorf("expected CancelledBy %s, got %s", domain.CancelledByClient, booking.CancelledBy)
	}
	if booking.CancelReason != "plans changed" {
		t.Errorf("expected reason recorded, got %q", booking.CancelReason)
	}
}

func TestCancelBooking_AssignedWithIdleWalkerCancels(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusAssigned,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	booking, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusCancelled {
		t.Errorf("expected cancellation, got %s", booking.Status)
	}
}

func TestCancelBooking_BlockedWhileWalkerMidWalkElsewhere(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusAssigned,
	})
	// Same walker is mid-walk on another booking.
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-2",
		ClientID: "client-2",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
	})
	if !errors.Is(err, service.ErrCancellationBlocked) {
		t.Errorf("expected ErrCancellationBlocked, got %v", err)
	}

	stored := bookingRepo.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusAssigned {
		t.Errorf("expected booking untouched, got %s", stored.Status)
	}
}

func TestCancelBooking_InProgressNeverCancels(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
	})
	if !errors.Is(err, service.ErrCancellationBlocked) {
		t.Errorf("expected ErrCancellationBlocked for in-progress walk, got %v", err)
	}
}

func TestCancelBooking_TerminalStatesRejected(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.BookingStatus{
		domain.BookingStatusCompleted,
		domain.BookingStatusCancelled,
	} {
		bookingRepo := NewMockBookingRepository()
		bookingRepo.AddBooking(&domain.Booking{
			ID:       "booking-1",
			ClientID: "client-1",
			Status:   status,
		})

		svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

		_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
			BookingID: "booking-1",
			ClientID:  "client-1",
		})
		if !errors.Is(err, service.ErrInvalidTransition) {
			t.Errorf("status %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

// staleLoadBookingRepo reports a zero walker load on the first count and
// the real load afterwards, modeling a walker whose other walk starts
// between the eligibility check and the cancel statement.
type staleLoadBookingRepo struct {
	*MockBookingRepository
	counts int32
}

func (r *staleLoadBookingRepo) CountInProgressByWalker(ctx context.Context, walkerID string) (int, error) {
	if atomic.AddInt32(&r.counts, 1) == 1 {
		return 0, nil
	}
	return r.MockBookingRepository.CountInProgressByWalker(ctx, walkerID)
}

func TestCancelBooking_LoadGateHoldsAgainstConcurrentWalkStart(t *testing.T) {
	t.Parallel()

	inner := NewMockBookingRepository()
	inner.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusAssigned,
	})
	// The walk that goes IN_PROGRESS inside the check window.
	inner.AddBooking(&domain.Booking{
		ID:       "booking-2",
		ClientID: "client-2",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
	})
	bookingRepo := &staleLoadBookingRepo{MockBookingRepository: inner}

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID: "booking-1",
		ClientID:  "client-1",
	})
	if !errors.Is(err, service.ErrCancellationBlocked) {
		t.Errorf("expected ErrCancellationBlocked despite stale load read, got %v", err)
	}

	stored := inner.GetBooking("booking-1")
	if stored.Status != domain.BookingStatusAssigned {
		t.Errorf("expected booking-1 to survive the cancel attempt, got %s", stored.Status)
	}
}

func TestCancel_RepositoryGuardRefusesWhileWalkerMidWalk(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusAssigned,
	})
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-2",
		ClientID: "client-2",
		WalkerID: "walker-1",
		Status:   domain.BookingStatusInProgress,
	})

	ok, err := bookingRepo.Cancel(context.Background(), "booking-1", domain.CancelledByClient, "", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected the cancel guard to match no row while the walker is mid-walk")
	}
}

func TestCancelBooking_OnlyOwningClient(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	bookingRepo.AddBooking(&domain.Booking{
		ID:       "booking-1",
		ClientID: "client-1",
		Status:   domain.BookingStatusRequested,
	})

	svc := newBookingService(bookingRepo, NewMockPetRepository(), NewMockWalkerRepository(), NewMockRoutePointRepository())

	_, err := svc.CancelBooking(context.Background(), service.CancelBookingRequest{
		BookingID: "booking-1",
		ClientID:  "client-2",
	})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
