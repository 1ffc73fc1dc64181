package request

import (
	"slot-booking/internal/domain/slot"
	"slot-booking/internal/usecase/commands"
)

type SlotSpec struct {
	Date          string `json:"date" binding:"required"`
	TimeLabel     string `json:"timeLabel" binding:"required"`
	TotalCapacity int    `json:"totalCapacity" binding:"required,min=1"`
	PriceCents    int64  `json:"priceCents" binding:"min=0"`
}

type UpsertSlotsRequest struct {
	Slots []SlotSpec `json:"slots" binding:"required,min=1,dive"`
}

func (r UpsertSlotsRequest) Entries() ([]commands.ScheduleEntry, error) {
	entries := make([]commands.ScheduleEntry, len(r.Slots))
	for i, spec := range r.Slots {
		k, err := slot.ParseKey(spec.Date, spec.TimeLabel)
		if err != nil {
			return nil, err
		}
		entries[i] = commands.ScheduleEntry{
			Key:           k,
			TotalCapacity: spec.TotalCapacity,
			PriceCents:    spec.PriceCents,
		}
	}
	return entries, nil
}
