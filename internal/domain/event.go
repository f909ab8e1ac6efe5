package domain

import "time"

// BookingEventType identifies a booking lifecycle event.
type BookingEventType string

const (
	EventBookingRequested BookingEventType = "BOOKING_REQUESTED"
	EventBookingAssigned  BookingEventType = "BOOKING_ASSIGNED"
	EventWalkStarted      BookingEventType = "WALK_STARTED"
	EventWalkCompleted    BookingEventType = "WALK_COMPLETED"
	EventBookingCancelled BookingEventType = "BOOKING_CANCELLED"
	EventWalkStartingSoon BookingEventType = "WALK_STARTING_SOON"
)

// BookingEvent is published on every booking transition. Delivery is
// at-least-once; consumers must tolerate duplicates.
type BookingEvent struct {
	Type      BookingEventType `json:"type"`
	BookingID string           `json:"booking_id"`
	ClientID  string           `json:"client_id"`
	WalkerID  string           `json:"walker_id,omitempty"`
	Status    BookingStatus    `json:"status"`
	At        time.Time        `json:"at"`
}
