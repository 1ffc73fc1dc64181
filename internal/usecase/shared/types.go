package shared

import (
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/domain/slot"

	"github.com/google/uuid"
)

// Write-side snapshots keep command code off the read-model types.

type PaymentIntentRecord struct {
	ID          string
	SessionID   uuid.UUID
	AmountCents int64
	// SlotIDs is the exact slot set the amount was priced over. A commit
	// must cover all of them or be refused.
	SlotIDs      []uuid.UUID
	Status       checkout.PaymentStatus
	ClientSecret string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type BookingSnapshot struct {
	ID              uuid.UUID
	PaymentIntentID string
	CustomerRef     string
	AmountCents     int64
	SlotKeys        []slot.Key
	CreatedAt       time.Time
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int
}
