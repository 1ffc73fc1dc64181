package readstore

import (
	"context"
	"time"

	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingSlotView struct {
	Date      time.Time `json:"date"`
	TimeLabel string    `json:"timeLabel"`
}

type BookingView struct {
	ID              uuid.UUID         `json:"id"`
	PaymentIntentID string            `json:"paymentIntentId"`
	CustomerRef     string            `json:"customerRef"`
	AmountCents     int64             `json:"amountCents"`
	Slots           []BookingSlotView `json:"slots"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type BookingReadStore struct{}

func NewBookingReadStore() *BookingReadStore {
	return &BookingReadStore{}
}

func (s *BookingReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*BookingView, error) {
	const q = `
		SELECT id, payment_intent_id, customer_ref, amount_cents, created_at
		FROM bookings
		WHERE id = $1`

	var v BookingView
	err := dbtx.QueryRow(ctx, q, id).
		Scan(&v.ID, &v.PaymentIntentID, &v.CustomerRef, &v.AmountCents, &v.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("booking does not exist", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking", err)
	}

	const slotsQ = `
		SELECT s.slot_date, s.time_label
		FROM booking_slots bs
		JOIN slots s ON s.id = bs.slot_id
		WHERE bs.booking_id = $1
		ORDER BY s.slot_date, s.time_label`

	rows, err := dbtx.Query(ctx, slotsQ, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query booking slots", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sv BookingSlotView
		if err := rows.Scan(&sv.Date, &sv.TimeLabel); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking slot row", err)
		}
		v.Slots = append(v.Slots, sv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking slot rows", err)
	}
	return &v, nil
}
