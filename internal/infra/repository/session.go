package repository

import (
	"context"
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"

	"github.com/jackc/pgx/v5"

	"github.com/google/uuid"
)

type SessionRepository struct {
	db db.DBTX
}

func NewSessionRepository(dbtx db.DBTX) *SessionRepository {
	return &SessionRepository{db: dbtx}
}

func (r *SessionRepository) Create(ctx context.Context, s *checkout.Session) error {
	const q = `
		INSERT INTO checkout_sessions (id, state, amount_cents, payment_intent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, q,
		s.ID(), string(s.State()), s.AmountCents(), s.PaymentIntentID(), s.CreatedAt(), s.UpdatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("session already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create session", err)
	}
	return nil
}

// LockByID loads the session under a row lock so state transitions serialize
// per session.
func (r *SessionRepository) LockByID(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	const q = `
		SELECT id, state, amount_cents, payment_intent_id, created_at, updated_at
		FROM checkout_sessions
		WHERE id = $1
		FOR UPDATE`

	var (
		sessionID       uuid.UUID
		rawState        string
		amountCents     *int64
		paymentIntentID *string
		createdAt       time.Time
		updatedAt       time.Time
	)
	err := r.db.QueryRow(ctx, q, id).
		Scan(&sessionID, &rawState, &amountCents, &paymentIntentID, &createdAt, &updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("session does not exist", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load session", err)
	}

	state, err := checkout.ParseState(rawState)
	if err != nil {
		return nil, infra.WrapRepoErr("stored session state is invalid", err)
	}
	return checkout.Restore(sessionID, state, amountCents, paymentIntentID, createdAt, updatedAt), nil
}

func (r *SessionRepository) Save(ctx context.Context, s *checkout.Session) error {
	const q = `
		UPDATE checkout_sessions
		SET state = $2, amount_cents = $3, payment_intent_id = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q,
		s.ID(), string(s.State()), s.AmountCents(), s.PaymentIntentID(), s.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to save session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session does not exist", nil, infra.KindNotFound)
	}
	return nil
}

// AbandonStale expires abandoned checkouts: any non-terminal session whose
// newest hold has already lapsed. Sessions without holds are left alone; they
// never reserved capacity.
func (r *SessionRepository) AbandonStale(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE checkout_sessions
		SET state = 'abandoned', updated_at = $1
		WHERE state IN ('selecting', 'awaiting_payment')
		  AND id IN (
			SELECT session_id FROM holds
			GROUP BY session_id
			HAVING max(expires_at) <= $1
		  )`

	tag, err := r.db.Exec(ctx, q, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to abandon stale sessions", err)
	}
	return tag.RowsAffected(), nil
}
