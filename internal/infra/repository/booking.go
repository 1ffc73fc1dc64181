package repository

import (
	"context"
	"time"

	bookingdomain "slot-booking/internal/domain/booking"
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

// Create inserts the booking and its slot links. The unique index on
// payment_intent_id is the idempotency barrier: a concurrent duplicate commit
// surfaces here as DUPLICATE_KEY and the caller replays the stored booking.
func (r *BookingRepository) Create(ctx context.Context, b *bookingdomain.Booking, slotIDs []uuid.UUID) error {
	const insertBooking = `
		INSERT INTO bookings (id, payment_intent_id, customer_ref, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, insertBooking,
		b.ID(), b.PaymentIntentID(), b.CustomerRef(), b.AmountCents(), b.CreatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("booking already exists for payment intent", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}

	const insertSlots = `
		INSERT INTO booking_slots (booking_id, slot_id)
		SELECT $1, unnest($2::uuid[])`

	if _, err := r.db.Exec(ctx, insertSlots, b.ID(), slotIDs); err != nil {
		return infra.WrapRepoErr("failed to link booking slots", err)
	}
	return nil
}

func (r *BookingRepository) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*shared.BookingSnapshot, error) {
	const q = `
		SELECT id, payment_intent_id, customer_ref, amount_cents, created_at
		FROM bookings
		WHERE payment_intent_id = $1`

	var snap shared.BookingSnapshot
	err := r.db.QueryRow(ctx, q, paymentIntentID).
		Scan(&snap.ID, &snap.PaymentIntentID, &snap.CustomerRef, &snap.AmountCents, &snap.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("booking does not exist", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking", err)
	}

	keys, err := r.slotKeysFor(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	snap.SlotKeys = keys
	return &snap, nil
}

func (r *BookingRepository) slotKeysFor(ctx context.Context, bookingID uuid.UUID) ([]slot.Key, error) {
	const q = `
		SELECT s.slot_date, s.time_label
		FROM booking_slots bs
		JOIN slots s ON s.id = bs.slot_id
		WHERE bs.booking_id = $1
		ORDER BY s.slot_date, s.time_label`

	rows, err := r.db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query booking slots", err)
	}
	defer rows.Close()

	var keys []slot.Key
	for rows.Next() {
		var slotDate time.Time
		var timeLabel string
		if err := rows.Scan(&slotDate, &timeLabel); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking slot row", err)
		}
		key, err := slot.NewKey(slotDate, timeLabel)
		if err != nil {
			return nil, infra.WrapRepoErr("stored slot key is invalid", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking slot rows", err)
	}
	return keys, nil
}
