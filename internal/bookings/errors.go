package bookings

import "errors"

var (
	// ErrSlotUnavailable is returned when the requested window overlaps an
	// active booking. Callers should offer alternatives, not retry.
	ErrSlotUnavailable = errors.New("requested slot is unavailable")

	// ErrBookingNotFound is returned when no booking matches, or the booking
	// is not in a state the operation expects.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidWindow is returned for zero-length or inverted windows.
	ErrInvalidWindow = errors.New("booking window must end after it starts")

	// ErrPastStartTime is returned when the requested start is in the past.
	ErrPastStartTime = errors.New("booking start time is in the past")

	// ErrTerminalStatus is returned for transitions out of a terminal status.
	ErrTerminalStatus = errors.New("booking is in a terminal status")

	// ErrInvalidStatus is returned for an unknown target status.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrClientRequired is returned when no client could be resolved.
	ErrClientRequired = errors.New("client reference or phone is required")

	// errCodeCollision signals a unique-constraint hit on booking number or
	// confirmation code; creation regenerates and retries.
	errCodeCollision = errors.New("generated code already exists")
)
