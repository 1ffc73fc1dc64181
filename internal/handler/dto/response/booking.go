package response

import (
	"time"

	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	PaymentIntentID string    `json:"paymentIntentId"`
	CustomerRef     string    `json:"customerRef"`
	AmountCents     int64     `json:"amountCents"`
	Slots           []SlotRef `json:"slots"`
	CreatedAt       time.Time `json:"createdAt"`
	Replayed        bool      `json:"replayed,omitempty"`
}

func FromBookingSnapshot(snap *shared.BookingSnapshot, replayed bool) BookingResponse {
	return BookingResponse{
		ID:              snap.ID,
		PaymentIntentID: snap.PaymentIntentID,
		CustomerRef:     snap.CustomerRef,
		AmountCents:     snap.AmountCents,
		Slots:           slotRefs(snap.SlotKeys),
		CreatedAt:       snap.CreatedAt,
		Replayed:        replayed,
	}
}

func FromBookingView(v *readstore.BookingView) BookingResponse {
	slots := make([]SlotRef, len(v.Slots))
	for i, s := range v.Slots {
		slots[i] = SlotRef{
			Date:      s.Date.Format(time.DateOnly),
			TimeLabel: s.TimeLabel,
		}
	}
	return BookingResponse{
		ID:              v.ID,
		PaymentIntentID: v.PaymentIntentID,
		CustomerRef:     v.CustomerRef,
		AmountCents:     v.AmountCents,
		Slots:           slots,
		CreatedAt:       v.CreatedAt,
	}
}
