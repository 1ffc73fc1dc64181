package readstore

import (
	"context"
	"time"

	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"

	"github.com/google/uuid"
)

// SlotAvailabilityView is the public availability shape. Remaining already
// accounts for committed bookings and unexpired holds; expired holds are
// excluded by the query predicate alone, no sweep required.
type SlotAvailabilityView struct {
	SlotID     uuid.UUID `json:"slotId"`
	Date       time.Time `json:"date"`
	TimeLabel  string    `json:"timeLabel"`
	Remaining  int       `json:"remaining"`
	PriceCents int64     `json:"priceCents"`
}

type AvailabilityReadStore struct{}

func NewAvailabilityReadStore() *AvailabilityReadStore {
	return &AvailabilityReadStore{}
}

// FindOpenSlots returns every slot in [from, to] with remaining capacity.
// Fully held or fully committed slots are filtered out in SQL.
func (s *AvailabilityReadStore) FindOpenSlots(ctx context.Context, dbtx db.DBTX, from, to, now time.Time) ([]SlotAvailabilityView, error) {
	const q = `
		SELECT s.id,
		       s.slot_date,
		       s.time_label,
		       s.total_capacity - s.committed_count - count(h.id) FILTER (WHERE h.expires_at > $3) AS remaining,
		       s.price_cents
		FROM slots s
		LEFT JOIN holds h ON h.slot_id = s.id
		WHERE s.slot_date BETWEEN $1 AND $2
		GROUP BY s.id
		HAVING s.total_capacity - s.committed_count - count(h.id) FILTER (WHERE h.expires_at > $3) > 0
		ORDER BY s.slot_date, s.time_label`

	rows, err := dbtx.Query(ctx, q, from, to, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query availability", err)
	}
	defer rows.Close()

	var views []SlotAvailabilityView
	for rows.Next() {
		var v SlotAvailabilityView
		if err := rows.Scan(&v.SlotID, &v.Date, &v.TimeLabel, &v.Remaining, &v.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate availability rows", err)
	}
	return views, nil
}
