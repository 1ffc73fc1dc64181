package readstore

import (
	"context"
	"time"

	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SessionView struct {
	ID              uuid.UUID  `json:"id"`
	State           string     `json:"state"`
	AmountCents     *int64     `json:"amountCents,omitempty"`
	PaymentIntentID *string    `json:"paymentIntentId,omitempty"`
	HeldSlots       []HeldSlot `json:"heldSlots"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type HeldSlot struct {
	Date      time.Time `json:"date"`
	TimeLabel string    `json:"timeLabel"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionReadStore struct{}

func NewSessionReadStore() *SessionReadStore {
	return &SessionReadStore{}
}

// FindByID returns the session with its still-active holds. Expired holds are
// omitted so clients see the same picture the commit path will enforce.
func (s *SessionReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) (*SessionView, error) {
	const q = `
		SELECT id, state, amount_cents, payment_intent_id, created_at, updated_at
		FROM checkout_sessions
		WHERE id = $1`

	var v SessionView
	err := dbtx.QueryRow(ctx, q, id).
		Scan(&v.ID, &v.State, &v.AmountCents, &v.PaymentIntentID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, infra.WrapRepoErr("session does not exist", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load session", err)
	}

	const holdsQ = `
		SELECT s.slot_date, s.time_label, h.expires_at
		FROM holds h
		JOIN slots s ON s.id = h.slot_id
		WHERE h.session_id = $1 AND h.expires_at > $2
		ORDER BY s.slot_date, s.time_label`

	rows, err := dbtx.Query(ctx, holdsQ, id, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query session holds", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h HeldSlot
		if err := rows.Scan(&h.Date, &h.TimeLabel, &h.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan held slot row", err)
		}
		v.HeldSlots = append(v.HeldSlots, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate held slot rows", err)
	}
	return &v, nil
}
