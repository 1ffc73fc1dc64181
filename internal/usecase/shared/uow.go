package shared

import (
	"context"
	"time"

	bookingdomain "slot-booking/internal/domain/booking"
	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with bounded retry on
	// serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Slots() SlotRepository
	Holds() HoldRepository
	Sessions() SessionRepository
	PaymentIntents() PaymentIntentRepository
	Bookings() BookingRepository
	Notifications() NotificationRepository
}

// SlotRepository is the write-side capacity store. Lock methods take row
// locks (FOR UPDATE) in deterministic key order; they are the serialization
// point that makes check-then-insert hold placement safe.
type SlotRepository interface {
	LockByKeys(ctx context.Context, keys []slot.Key) ([]*slot.Slot, error)
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*slot.Slot, error)
	IncrementCommitted(ctx context.Context, ids []uuid.UUID) error
	Upsert(ctx context.Context, key slot.Key, totalCapacity int, priceCents int64) (uuid.UUID, error)
}

type HoldRepository interface {
	ActiveCountBySlot(ctx context.Context, slotIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error)
	CreateBatch(ctx context.Context, holds []checkout.Hold) error
	ActiveBySession(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]checkout.Hold, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *checkout.Session) error
	LockByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error)
	Save(ctx context.Context, s *checkout.Session) error
	// AbandonStale moves selecting/awaiting-payment sessions whose every
	// hold has expired into the abandoned terminal state.
	AbandonStale(ctx context.Context, now time.Time) (int64, error)
}

type PaymentIntentRepository interface {
	Create(ctx context.Context, rec PaymentIntentRecord) error
	FindByID(ctx context.Context, id string) (*PaymentIntentRecord, error)
	UpdateStatus(ctx context.Context, id string, status checkout.PaymentStatus, now time.Time) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *bookingdomain.Booking, slotIDs []uuid.UUID) error
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*BookingSnapshot, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimDue claims pending jobs that are due, plus processing jobs whose
	// claim predates staleBefore (left behind by a worker that died mid-run).
	ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]NotificationJob, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time) error
	MarkDead(ctx context.Context, id uuid.UUID) error
}
