package commands

import (
	"context"

	"slot-booking/internal/domain/slot"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/shared"
)

type ScheduleEntry struct {
	Key           slot.Key
	TotalCapacity int
	// PriceCents of zero falls back to the configured per-slot default.
	PriceCents int64
}

type ScheduleCommands interface {
	// UpsertSlots creates or reshapes capacity records. Shrinking capacity
	// below the committed count is rejected by the slots table constraint.
	UpsertSlots(ctx context.Context, entries []ScheduleEntry) error
}

type scheduleUseCaseImpl struct {
	uow         shared.UnitOfWork
	invalidator AvailabilityInvalidator
	cfg         config.BookingConfig
}

func NewScheduleUseCase(uow shared.UnitOfWork, invalidator AvailabilityInvalidator, cfg config.BookingConfig) ScheduleCommands {
	return &scheduleUseCaseImpl{uow: uow, invalidator: invalidator, cfg: cfg}
}

func (s *scheduleUseCaseImpl) UpsertSlots(ctx context.Context, entries []ScheduleEntry) error {
	if len(entries) == 0 {
		return errs.ErrEmptySelection
	}
	for _, e := range entries {
		if e.TotalCapacity <= 0 {
			return errs.Mark(slot.ErrInvalidCapacity, errs.ErrEmptySelection)
		}
	}

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, e := range entries {
			price := e.PriceCents
			if price == 0 {
				price = s.cfg.PricePerSlotCents
			}
			if _, err := tx.Slots().Upsert(ctx, e.Key, e.TotalCapacity, price); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx)
	return nil
}
