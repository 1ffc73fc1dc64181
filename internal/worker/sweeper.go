package worker

import (
	"context"
	"log/slog"
	"time"

	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/usecase/commands"
	"slot-booking/internal/usecase/shared"
)

// Sweeper periodically removes lapsed holds and abandons the sessions that
// owned them. Availability is already correct without it (every read filters
// on expires_at); the sweep just keeps the holds table from growing without
// bound and moves dead sessions to their terminal state.
type Sweeper struct {
	uow         shared.UnitOfWork
	invalidator commands.AvailabilityInvalidator
	clock       clock.Clock
	interval    time.Duration
}

func NewSweeper(
	uow shared.UnitOfWork,
	invalidator commands.AvailabilityInvalidator,
	clk clock.Clock,
	cfg config.BookingConfig,
) *Sweeper {
	return &Sweeper{
		uow:         uow,
		invalidator: invalidator,
		clock:       clk,
		interval:    cfg.SweepInterval,
	}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("hold sweeper started", "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("hold sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce abandons stale sessions before deleting their hold rows; the
// abandon query needs the rows to find which sessions went stale.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	now := s.clock.Now()
	var abandoned, removed int64

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if abandoned, err = tx.Sessions().AbandonStale(ctx, now); err != nil {
			return err
		}
		removed, err = tx.Holds().DeleteExpired(ctx, now)
		return err
	})
	if err != nil {
		slog.Error("hold sweep failed", "error", err.Error())
		return
	}

	if removed > 0 || abandoned > 0 {
		slog.Info("hold sweep completed",
			"holds_removed", removed,
			"sessions_abandoned", abandoned)
		s.invalidator.Invalidate(ctx)
	}
}
