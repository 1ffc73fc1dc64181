package booking

import (
	"errors"
	"time"

	"slot-booking/internal/domain/slot"

	"github.com/google/uuid"
)

var (
	ErrMissingPaymentIntent = errors.New("booking requires a payment intent reference")
	ErrMissingCustomerRef   = errors.New("booking requires a customer reference")
	ErrNoSlots              = errors.New("booking requires at least one slot")
)

// Booking is the permanent record of a settled checkout. At most one booking
// exists per payment intent; once created it is immutable (a cancellation, if
// ever added, would be a separate compensating record).
type Booking struct {
	id              uuid.UUID
	paymentIntentID string
	slotKeys        []slot.Key
	customerRef     string
	amountCents     int64
	createdAt       time.Time
}

func New(paymentIntentID, customerRef string, slotKeys []slot.Key, amountCents int64, now time.Time) (*Booking, error) {
	if paymentIntentID == "" {
		return nil, ErrMissingPaymentIntent
	}
	if customerRef == "" {
		return nil, ErrMissingCustomerRef
	}
	if len(slotKeys) == 0 {
		return nil, ErrNoSlots
	}
	return &Booking{
		id:              uuid.New(),
		paymentIntentID: paymentIntentID,
		slotKeys:        slotKeys,
		customerRef:     customerRef,
		amountCents:     amountCents,
		createdAt:       now,
	}, nil
}

func (b *Booking) ID() uuid.UUID {
	return b.id
}

func (b *Booking) PaymentIntentID() string {
	return b.paymentIntentID
}

func (b *Booking) CustomerRef() string {
	return b.customerRef
}

func (b *Booking) AmountCents() int64 {
	return b.amountCents
}

func (b *Booking) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Booking) SlotKeys() []slot.Key {
	keys := make([]slot.Key, len(b.slotKeys))
	copy(keys, b.slotKeys)
	return keys
}
