package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"petwalk/internal/domain"
	"petwalk/internal/repository"
)

const (
	reminderPollInterval = 30 * time.Second
	reminderLeadTime     = 15 * time.Minute
)

// ReminderWorker polls for assigned bookings about to start and sends
// a "starting soon" notification at most once per booking.
type ReminderWorker struct {
	bookingRepo         repository.BookingRepository
	notificationService *NotificationService
	events              EventPublisher
	logger              *slog.Logger

	mu       sync.Mutex
	reminded map[string]struct{}
}

// NewReminderWorker creates a new ReminderWorker. notificationService
// and events may be nil.
func NewReminderWorker(
	bookingRepo repository.BookingRepository,
	notificationService *NotificationService,
	events EventPublisher,
	logger *slog.Logger,
) *ReminderWorker {
	return &ReminderWorker{
		bookingRepo:         bookingRepo,
		notificationService: notificationService,
		events:              events,
		logger:              logger,
		reminded:            make(map[string]struct{}),
	}
}

// Run polls until ctx is cancelled.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one reminder pass: every assigned booking starting within
// the lead time gets a single reminder, then drops out of the dedup
// set once it leaves the listing.
func (w *ReminderWorker) Tick(ctx context.Context) {
	cutoff := time.Now().Add(reminderLeadTime)
	bookings, err := w.bookingRepo.ListAssignedStartingBefore(ctx, cutoff)
	if err != nil {
		w.logger.ErrorContext(ctx, "reminder poll failed", "error", err)
		return
	}

	listed := make(map[string]struct{}, len(bookings))
	for _, booking := range bookings {
		listed[booking.ID] = struct{}{}

		if w.alreadyReminded(booking.ID) {
			continue
		}

		minutes := int(time.Until(booking.ScheduledAt).Minutes())
		if minutes < 0 {
			minutes = 0
		}

		if w.notificationService != nil {
			if err := w.notificationService.NotifyWalkStartingSoon(ctx, booking, minutes); err != nil {
				w.logger.ErrorContext(ctx, "reminder notification failed",
					"booking_id", booking.ID, "error", err)
				continue
			}
		}
		if w.events != nil {
			w.events.Publish(ctx, domain.BookingEvent{
				Type:      domain.EventWalkStartingSoon,
				BookingID: booking.ID,
				ClientID:  booking.ClientID,
				WalkerID:  booking.WalkerID,
				Status:    booking.Status,
				At:        time.Now(),
			})
		}
		w.markReminded(booking.ID)
	}

	w.prune(listed)
}

func (w *ReminderWorker) alreadyReminded(bookingID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.reminded[bookingID]
	return ok
}

func (w *ReminderWorker) markReminded(bookingID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reminded[bookingID] = struct{}{}
}

// prune drops dedup entries for bookings no longer in the listing,
// so the set tracks only walks still pending their start.
func (w *ReminderWorker) prune(listed map[string]struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id := range w.reminded {
		if _, ok := listed[id]; !ok {
			delete(w.reminded, id)
		}
	}
}
