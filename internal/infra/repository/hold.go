package repository

import (
	"context"
	"time"

	"slot-booking/internal/domain/checkout"
	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"

	"github.com/google/uuid"
)

type HoldRepository struct {
	db db.DBTX
}

func NewHoldRepository(dbtx db.DBTX) *HoldRepository {
	return &HoldRepository{db: dbtx}
}

// ActiveCountBySlot counts holds with expires_at strictly in the future.
// Expired rows are simply invisible here, which is what makes lazy eviction
// and the periodic sweep produce identical availability numbers.
func (r *HoldRepository) ActiveCountBySlot(ctx context.Context, slotIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error) {
	const q = `
		SELECT slot_id, count(*)
		FROM holds
		WHERE slot_id = ANY($1) AND expires_at > $2
		GROUP BY slot_id`

	rows, err := r.db.Query(ctx, q, slotIDs, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count active holds", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int, len(slotIDs))
	for rows.Next() {
		var slotID uuid.UUID
		var n int
		if err := rows.Scan(&slotID, &n); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold count", err)
		}
		counts[slotID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold counts", err)
	}
	return counts, nil
}

func (r *HoldRepository) CreateBatch(ctx context.Context, holds []checkout.Hold) error {
	if len(holds) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(holds))
	slotIDs := make([]uuid.UUID, len(holds))
	sessionIDs := make([]uuid.UUID, len(holds))
	createdAts := make([]time.Time, len(holds))
	expiresAts := make([]time.Time, len(holds))
	for i, h := range holds {
		ids[i] = h.ID
		slotIDs[i] = h.SlotID
		sessionIDs[i] = h.SessionID
		createdAts[i] = h.CreatedAt
		expiresAts[i] = h.ExpiresAt
	}

	const q = `
		INSERT INTO holds (id, slot_id, session_id, created_at, expires_at)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::uuid[], $4::timestamptz[], $5::timestamptz[])`

	if _, err := r.db.Exec(ctx, q, ids, slotIDs, sessionIDs, createdAts, expiresAts); err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("hold already exists for slot and session", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create holds", err)
	}
	return nil
}

func (r *HoldRepository) ActiveBySession(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]checkout.Hold, error) {
	const q = `
		SELECT id, slot_id, session_id, created_at, expires_at
		FROM holds
		WHERE session_id = $1 AND expires_at > $2
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, sessionID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query session holds", err)
	}
	defer rows.Close()

	var holds []checkout.Hold
	for rows.Next() {
		var h checkout.Hold
		if err := rows.Scan(&h.ID, &h.SlotID, &h.SessionID, &h.CreatedAt, &h.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold row", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold rows", err)
	}
	return holds, nil
}

// DeleteBySession removes all holds of a session, expired or not. Releasing
// holds that no longer exist is a no-op, which keeps release idempotent.
func (r *HoldRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM holds WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete session holds", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM holds WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired holds", err)
	}
	return tag.RowsAffected(), nil
}
