package repository

import (
	"context"
	"time"

	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"

	"github.com/google/uuid"
)

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

// LockByKeys loads and row-locks the slots for the given keys, in key order
// so concurrent multi-slot transactions cannot deadlock. Every key must
// resolve to a slot; a shorter result is reported as NOT_FOUND.
func (r *SlotRepository) LockByKeys(ctx context.Context, keys []slot.Key) ([]*slot.Slot, error) {
	dates := make([]time.Time, len(keys))
	labels := make([]string, len(keys))
	for i, k := range keys {
		dates[i] = k.Date()
		labels[i] = k.Label()
	}

	const q = `
		SELECT s.id, s.slot_date, s.time_label, s.total_capacity, s.committed_count, s.price_cents
		FROM slots s
		JOIN unnest($1::date[], $2::text[]) AS k(slot_date, time_label)
		  ON s.slot_date = k.slot_date AND s.time_label = k.time_label
		ORDER BY s.slot_date, s.time_label
		FOR UPDATE OF s`

	slots, err := r.scanSlots(ctx, q, dates, labels)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(keys) {
		return nil, infra.WrapRepoErr("one or more slots do not exist", nil, infra.KindNotFound)
	}
	return slots, nil
}

func (r *SlotRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*slot.Slot, error) {
	const q = `
		SELECT id, slot_date, time_label, total_capacity, committed_count, price_cents
		FROM slots
		WHERE id = ANY($1)
		ORDER BY slot_date, time_label
		FOR UPDATE`

	slots, err := r.scanSlots(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	if len(slots) != len(ids) {
		return nil, infra.WrapRepoErr("one or more slots do not exist", nil, infra.KindNotFound)
	}
	return slots, nil
}

// IncrementCommitted bumps committed_count for every id, guarded by the
// capacity invariant in SQL. Affecting fewer rows than requested means a slot
// would overflow; the caller must treat that as a conflict and roll back.
func (r *SlotRepository) IncrementCommitted(ctx context.Context, ids []uuid.UUID) error {
	const q = `
		UPDATE slots
		SET committed_count = committed_count + 1, updated_at = now()
		WHERE id = ANY($1) AND committed_count < total_capacity`

	tag, err := r.db.Exec(ctx, q, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to increment committed count", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return infra.WrapRepoErr("slot capacity would be exceeded", nil, infra.KindConflict)
	}
	return nil
}

func (r *SlotRepository) Upsert(ctx context.Context, key slot.Key, totalCapacity int, priceCents int64) (uuid.UUID, error) {
	const q = `
		INSERT INTO slots (slot_date, time_label, total_capacity, price_cents)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slot_date, time_label)
		DO UPDATE SET total_capacity = EXCLUDED.total_capacity,
		              price_cents = EXCLUDED.price_cents,
		              updated_at = now()
		RETURNING id`

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, q, key.Date(), key.Label(), totalCapacity, priceCents).Scan(&id); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert slot", err)
	}
	return id, nil
}

func (r *SlotRepository) scanSlots(ctx context.Context, q string, args ...any) ([]*slot.Slot, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query slots", err)
	}
	defer rows.Close()

	var slots []*slot.Slot
	for rows.Next() {
		var (
			id             uuid.UUID
			slotDate       time.Time
			timeLabel      string
			totalCapacity  int
			committedCount int
			priceCents     int64
		)
		if err := rows.Scan(&id, &slotDate, &timeLabel, &totalCapacity, &committedCount, &priceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan slot row", err)
		}
		key, err := slot.NewKey(slotDate, timeLabel)
		if err != nil {
			return nil, infra.WrapRepoErr("stored slot key is invalid", err)
		}
		s, err := slot.New(id, key, totalCapacity, committedCount, priceCents)
		if err != nil {
			return nil, infra.WrapRepoErr("stored slot violates capacity invariant", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate slot rows", err)
	}
	return slots, nil
}
