package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Slot errors
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotOutOfHorizon = errors.New("slot outside booking horizon")
	ErrSlotInPast       = errors.New("slot date is in the past")

	// Hold errors
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrHoldExpired      = errors.New("hold expired")
	ErrNoActiveHolds    = errors.New("no active holds for session")

	// Session errors
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrSessionTerminal    = errors.New("checkout session already finished")
	ErrInvalidTransition  = errors.New("invalid session state transition")
	ErrIntentAlreadyBound = errors.New("session already has a payment intent")

	// Payment errors
	ErrPaymentNotSettled        = errors.New("payment not settled")
	ErrPaymentFailed            = errors.New("payment failed or canceled")
	ErrPaymentIntentNotFound    = errors.New("payment intent not found")
	ErrPaymentStatusUnavailable = errors.New("payment status temporarily unavailable")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")

	// Validation errors
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrEmptySelection   = errors.New("empty slot selection")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
