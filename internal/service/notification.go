package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"petwalk/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationWalkerAssigned   NotificationType = "WALKER_ASSIGNED"
	NotificationWalkStarted      NotificationType = "WALK_STARTED"
	NotificationWalkCompleted    NotificationType = "WALK_COMPLETED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationWalkStartingSoon NotificationType = "WALK_STARTING_SOON"
)

// Notification represents a notification to be delivered to one party.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. Delivery here is
// structured logging; push/SMS providers hang off the same call sites.
type NotificationService struct {
	logger *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(logger *slog.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// NotifyWalkerAssigned tells the client a walker accepted their booking.
func (s *NotificationService) NotifyWalkerAssigned(ctx context.Context, booking *domain.Booking, walker *domain.Walker) error {
	return s.send(ctx, Notification{
		Type:        NotificationWalkerAssigned,
		RecipientID: booking.ClientID,
		Title:       "Walker assigned",
		Message:     fmt.Sprintf("%s will walk your pet. Share the start code when they arrive.", walker.Name),
		Data: map[string]any{
			"booking_id": booking.ID,
			"walker_id":  walker.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyWalkStarted tells the client the walk is underway.
func (s *NotificationService) NotifyWalkStarted(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationWalkStarted,
		RecipientID: booking.ClientID,
		Title:       "Walk started",
		Message:     "Your pet's walk is underway.",
		Data: map[string]any{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyWalkCompleted tells the client the walk is over, with totals.
func (s *NotificationService) NotifyWalkCompleted(ctx context.Context, booking *domain.Booking) error {
	message := fmt.Sprintf("Walk completed: %.2f km in %d min.", booking.DistanceKm, booking.WalkedMinutes)
	if booking.PenaltyCLP > 0 {
		message = fmt.Sprintf("Walk ended early. A $%d CLP penalty was added.", booking.PenaltyCLP)
	}
	return s.send(ctx, Notification{
		Type:        NotificationWalkCompleted,
		RecipientID: booking.ClientID,
		Title:       "Walk completed",
		Message:     message,
		Data: map[string]any{
			"booking_id":  booking.ID,
			"distance_km": booking.DistanceKm,
			"minutes":     booking.WalkedMinutes,
			"price_clp":   booking.PriceCLP,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled tells the affected walker about a cancellation.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	if booking.WalkerID == "" {
		return nil // nobody to notify
	}
	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: booking.WalkerID,
		Title:       "Booking cancelled",
		Message:     "The client cancelled the booking.",
		Data: map[string]any{
			"booking_id": booking.ID,
			"reason":     booking.CancelReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyWalkStartingSoon reminds both parties shortly before the
// scheduled start.
func (s *NotificationService) NotifyWalkStartingSoon(ctx context.Context, booking *domain.Booking, minutes int) error {
	notification := Notification{
		Type:        NotificationWalkStartingSoon,
		RecipientID: booking.ClientID,
		Title:       "Walk starting soon",
		Message:     fmt.Sprintf("Your pet's walk starts in about %d minutes.", minutes),
		Data: map[string]any{
			"booking_id":   booking.ID,
			"scheduled_at": booking.ScheduledAt,
		},
		CreatedAt: time.Now(),
	}
	if err := s.send(ctx, notification); err != nil {
		return err
	}

	notification.RecipientID = booking.WalkerID
	notification.Message = fmt.Sprintf("Your next walk starts in about %d minutes.", minutes)
	return s.send(ctx, notification)
}

func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	s.logger.InfoContext(ctx, "notification",
		"type", notification.Type,
		"recipient", notification.RecipientID,
		"title", notification.Title,
		"message", notification.Message,
	)
	return nil
}
