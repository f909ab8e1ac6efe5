package service

import "errors"

var (
	// ErrUnauthorized is returned when no authenticated actor is present
	// or the actor does not own the resource it is acting on.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition is returned when a state-machine guard fails,
	// including applying the same transition twice.
	ErrInvalidTransition = errors.New("invalid booking transition")

	// ErrCodeMismatch is returned when the submitted start code does not
	// match the booking's start code.
	ErrCodeMismatch = errors.New("start code mismatch")

	// ErrCancellationBlocked is returned when the assigned walker is
	// mid-walk on another booking.
	ErrCancellationBlocked = errors.New("walker has walks in progress")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidClientID is returned when client ID is empty.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidWalkerID is returned when walker ID is empty.
	ErrInvalidWalkerID = errors.New("invalid walker id")

	// ErrInvalidPetID is returned when pet ID is empty.
	ErrInvalidPetID = errors.New("invalid pet id")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidPrice is returned when the booking price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidDuration is returned when the walk duration is not positive.
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrInvalidSchedule is returned when the scheduled start is missing.
	ErrInvalidSchedule = errors.New("invalid scheduled time")

	// ErrInvalidRUT is returned when a national ID fails validation.
	ErrInvalidRUT = errors.New("invalid rut")

	// ErrInvalidPhone is returned when a phone number is malformed.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidName is returned when a display name is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrWalkerNotApproved is returned when a non-approved walker tries
	// to take bookings.
	ErrWalkerNotApproved = errors.New("walker not approved")

	// ErrBookingNotActive is returned when route points are submitted
	// for a booking that is not in progress.
	ErrBookingNotActive = errors.New("booking not in progress")

	// ErrRUTTaken is returned when a walker registers with a RUT that
	// already has a profile.
	ErrRUTTaken = errors.New("rut already registered")
)
