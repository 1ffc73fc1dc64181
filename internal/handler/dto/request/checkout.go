package request

import (
	"slot-booking/internal/domain/slot"

	"github.com/google/uuid"
)

type SlotSelection struct {
	Date      string `json:"date" binding:"required"`
	TimeLabel string `json:"timeLabel" binding:"required"`
}

type PlaceHoldsRequest struct {
	SessionID *uuid.UUID      `json:"sessionId"`
	Slots     []SlotSelection `json:"slots" binding:"required,min=1,dive"`
}

// Keys parses the selections into domain keys, rejecting malformed dates and
// labels before any database work happens.
func (r PlaceHoldsRequest) Keys() ([]slot.Key, error) {
	keys := make([]slot.Key, len(r.Slots))
	for i, sel := range r.Slots {
		k, err := slot.ParseKey(sel.Date, sel.TimeLabel)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	return keys, nil
}

type CreateIntentRequest struct {
	SessionID uuid.UUID `json:"sessionId" binding:"required"`
}

type RefreshPaymentRequest struct {
	SessionID uuid.UUID `json:"sessionId" binding:"required"`
}
