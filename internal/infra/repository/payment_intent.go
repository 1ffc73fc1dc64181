package repository

import (
	"context"
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"
	"slot-booking/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

type PaymentIntentRepository struct {
	db db.DBTX
}

func NewPaymentIntentRepository(dbtx db.DBTX) *PaymentIntentRepository {
	return &PaymentIntentRepository{db: dbtx}
}

func (r *PaymentIntentRepository) Create(ctx context.Context, rec shared.PaymentIntentRecord) error {
	const q = `
		INSERT INTO payment_intents (id, session_id, amount_cents, slot_ids, status, client_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, q,
		rec.ID, rec.SessionID, rec.AmountCents, rec.SlotIDs, string(rec.Status), rec.ClientSecret, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment intent already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment intent record", err)
	}
	return nil
}

func (r *PaymentIntentRepository) FindByID(ctx context.Context, id string) (*shared.PaymentIntentRecord, error) {
	const q = `
		SELECT id, session_id, amount_cents, slot_ids, status, client_secret, created_at, updated_at
		FROM payment_intents
		WHERE id = $1`

	var rec shared.PaymentIntentRecord
	var rawStatus string
	err := r.db.QueryRow(ctx, q, id).
		Scan(&rec.ID, &rec.SessionID, &rec.AmountCents, &rec.SlotIDs, &rawStatus, &rec.ClientSecret, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("payment intent does not exist", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load payment intent", err)
	}
	rec.Status = checkout.PaymentStatus(rawStatus)
	return &rec, nil
}

func (r *PaymentIntentRepository) UpdateStatus(ctx context.Context, id string, status checkout.PaymentStatus, now time.Time) error {
	const q = `
		UPDATE payment_intents
		SET status = $2, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, id, string(status), now)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment intent status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment intent does not exist", nil, infra.KindNotFound)
	}
	return nil
}
