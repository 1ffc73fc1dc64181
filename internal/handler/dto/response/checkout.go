package response

import (
	"time"

	"slot-booking/internal/domain/slot"
	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type SlotRef struct {
	Date      string `json:"date"`
	TimeLabel string `json:"timeLabel"`
}

type PlaceHoldsResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Held      []SlotRef `json:"held"`
}

func FromPlaceHoldsResult(r *commands.PlaceHoldsResult) PlaceHoldsResponse {
	return PlaceHoldsResponse{
		SessionID: r.SessionID,
		ExpiresAt: r.ExpiresAt,
		Held:      slotRefs(r.Held),
	}
}

type PaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	AmountCents     int64  `json:"amountCents"`
	Replayed        bool   `json:"replayed"`
}

func FromIntentResult(r *commands.IntentResult) PaymentIntentResponse {
	return PaymentIntentResponse{
		PaymentIntentID: r.PaymentIntentID,
		ClientSecret:    r.ClientSecret,
		AmountCents:     r.AmountCents,
		Replayed:        r.IsReplayed,
	}
}

type PaymentStatusResponse struct {
	PaymentStatus string `json:"paymentStatus"`
	SessionState  string `json:"sessionState"`
}

func FromRefreshResult(r *commands.RefreshResult) PaymentStatusResponse {
	return PaymentStatusResponse{
		PaymentStatus: string(r.PaymentStatus),
		SessionState:  string(r.SessionState),
	}
}

type HeldSlotResponse struct {
	Date      string    `json:"date"`
	TimeLabel string    `json:"timeLabel"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionResponse struct {
	ID              uuid.UUID          `json:"id"`
	State           string             `json:"state"`
	AmountCents     *int64             `json:"amountCents,omitempty"`
	PaymentIntentID *string            `json:"paymentIntentId,omitempty"`
	HeldSlots       []HeldSlotResponse `json:"heldSlots"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func FromSessionView(v *readstore.SessionView) SessionResponse {
	held := make([]HeldSlotResponse, len(v.HeldSlots))
	for i, h := range v.HeldSlots {
		held[i] = HeldSlotResponse{
			Date:      h.Date.Format(time.DateOnly),
			TimeLabel: h.TimeLabel,
			ExpiresAt: h.ExpiresAt,
		}
	}
	return SessionResponse{
		ID:              v.ID,
		State:           v.State,
		AmountCents:     v.AmountCents,
		PaymentIntentID: v.PaymentIntentID,
		HeldSlots:       held,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func slotRefs(keys []slot.Key) []SlotRef {
	refs := make([]SlotRef, len(keys))
	for i, k := range keys {
		refs[i] = SlotRef{
			Date:      k.Date().Format(time.DateOnly),
			TimeLabel: k.Label(),
		}
	}
	return refs
}
