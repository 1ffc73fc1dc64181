package queries

import (
	"context"
	"time"

	"slot-booking/internal/infra/db"
	"slot-booking/internal/infra/readstore"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/pkg/errs"
	"slot-booking/internal/usecase/shared"
)

// AvailabilitySnapshotCache fronts the availability read with short-lived
// display snapshots. It is advisory only; a miss or a down cache degrades to
// the database read.
type AvailabilitySnapshotCache interface {
	Get(ctx context.Context, from, to time.Time) ([]readstore.SlotAvailabilityView, bool)
	Set(ctx context.Context, from, to time.Time, views []readstore.SlotAvailabilityView)
}

type AvailabilityQueries interface {
	// OpenSlots lists slots with remaining capacity in [from, to], clamped to
	// the bookable window.
	OpenSlots(ctx context.Context, from, to time.Time) ([]readstore.SlotAvailabilityView, error)
}

type availabilityQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.AvailabilityReadStore
	cache AvailabilitySnapshotCache
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewAvailabilityQueries(
	uow shared.UnitOfWork,
	store *readstore.AvailabilityReadStore,
	cache AvailabilitySnapshotCache,
	clk clock.Clock,
	cfg config.BookingConfig,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:   uow,
		store: store,
		cache: cache,
		clock: clk,
		cfg:   cfg,
	}
}

func (q *availabilityQueriesImpl) OpenSlots(ctx context.Context, from, to time.Time) ([]readstore.SlotAvailabilityView, error) {
	now := q.clock.Now()
	from, to = truncateRange(from, to)
	if to.Before(from) {
		return nil, errs.ErrInvalidDateRange
	}

	// Clamp to [today, today+horizon]; the past and the far future are never
	// bookable so there is no point reading them.
	today := truncateDay(now)
	if from.Before(today) {
		from = today
	}
	horizon := today.AddDate(0, 0, q.cfg.HorizonDays)
	if to.After(horizon) {
		to = horizon
	}
	if to.Before(from) {
		return []readstore.SlotAvailabilityView{}, nil
	}

	if views, ok := q.cache.Get(ctx, from, to); ok {
		return views, nil
	}

	var views []readstore.SlotAvailabilityView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		var err error
		views, err = q.store.FindOpenSlots(ctx, dbtx, from, to, now)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if views == nil {
		views = []readstore.SlotAvailabilityView{}
	}

	q.cache.Set(ctx, from, to, views)
	return views, nil
}

func truncateRange(from, to time.Time) (time.Time, time.Time) {
	return truncateDay(from), truncateDay(to)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
