package domain

import "time"

// BookingStatus represents the current status of a walk booking.
type BookingStatus string

const (
	BookingStatusRequested  BookingStatus = "REQUESTED"
	BookingStatusAssigned   BookingStatus = "ASSIGNED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// CancelParty identifies who cancelled a booking.
type CancelParty string

const (
	CancelledByClient CancelParty = "CLIENT"
	CancelledByWalker CancelParty = "WALKER"
)

// EarlyTerminationPenaltyCLP is added to the price when a client ends a
// walk that is already in progress. The booking still completes; it is
// never recorded as cancelled.
const EarlyTerminationPenaltyCLP int64 = 3000

// Booking represents one walk engagement between a client and a walker.
// A booking with no walker is always in REQUESTED state.
type Booking struct {
	ID       string
	ClientID string
	WalkerID string // empty until a walker accepts
	PetID    string

	Status          BookingStatus
	ScheduledAt     time.Time
	DurationMinutes int

	PriceCLP   int64
	PenaltyCLP int64 // non-zero only after early termination

	// StartCode is the 4-digit code the client shows the walker to
	// authorize the start of the walk.
	StartCode string

	// Recorded on completion from the GPS trail; both zero when fewer
	// than two route points were captured.
	DistanceKm    float64
	WalkedMinutes int

	CancelledBy  CancelParty
	CancelReason string
	Notes        string

	CreatedAt   time.Time
	CancelledAt time.Time
	CompletedAt time.Time
}

// bookingTransitions maps each lifecycle action to the statuses it may
// be applied from.
var bookingTransitions = map[string][]BookingStatus{
	"accept":          {BookingStatusRequested},
	"start":           {BookingStatusAssigned},
	"complete":        {BookingStatusInProgress},
	"terminate_early": {BookingStatusInProgress},
	"cancel":          {BookingStatusRequested, BookingStatusAssigned},
}

// ValidTransition reports whether action may be applied to a booking in
// the given status.
func ValidTransition(action string, from BookingStatus) bool {
	allowed, ok := bookingTransitions[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// CanCancel reports whether a client may cancel a booking. Cancellation
// is blocked once the walk is underway, and while the assigned walker is
// mid-walk on another booking, so walkers are never orphaned elsewhere.
func CanCancel(status BookingStatus, walkerActiveLoad int) bool {
	if walkerActiveLoad != 0 {
		return false
	}
	return status == BookingStatusRequested || status == BookingStatusAssigned
}
