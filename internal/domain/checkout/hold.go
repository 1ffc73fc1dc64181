package checkout

import (
	"time"

	"github.com/google/uuid"
)

// Hold is a TTL-bound claim on one unit of slot capacity for one session.
// An expired hold is treated as absent everywhere; rows may linger until the
// sweeper removes them but never count toward availability.
type Hold struct {
	ID        uuid.UUID
	SlotID    uuid.UUID
	SessionID uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

func NewHold(slotID, sessionID uuid.UUID, now time.Time, ttl time.Duration) Hold {
	return Hold{
		ID:        uuid.New(),
		SlotID:    slotID,
		SessionID: sessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (h Hold) Active(now time.Time) bool {
	return h.ExpiresAt.After(now)
}
