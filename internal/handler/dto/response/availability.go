package response

import (
	"time"

	"slot-booking/internal/infra/readstore"

	"github.com/google/uuid"
)

type SlotAvailabilityResponse struct {
	SlotID     uuid.UUID `json:"slotId"`
	Date       string    `json:"date"`
	TimeLabel  string    `json:"timeLabel"`
	Remaining  int       `json:"remaining"`
	PriceCents int64     `json:"priceCents"`
}

type AvailabilityResponse struct {
	Slots []SlotAvailabilityResponse `json:"slots"`
}

func FromAvailabilityViews(views []readstore.SlotAvailabilityView) AvailabilityResponse {
	slots := make([]SlotAvailabilityResponse, len(views))
	for i, v := range views {
		slots[i] = SlotAvailabilityResponse{
			SlotID:     v.SlotID,
			Date:       v.Date.Format(time.DateOnly),
			TimeLabel:  v.TimeLabel,
			Remaining:  v.Remaining,
			PriceCents: v.PriceCents,
		}
	}
	return AvailabilityResponse{Slots: slots}
}
