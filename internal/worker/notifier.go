package worker

import (
	"context"
	"log/slog"
	"time"

	"slot-booking/internal/notification"
	"slot-booking/internal/pkg/clock"
	"slot-booking/internal/pkg/config"
	"slot-booking/internal/usecase/shared"
)

const claimBatchSize = 20

// staleClaimAge bounds how long a processing claim is trusted. A claim older
// than this belongs to a worker that died before finishing, and the job is
// eligible to be claimed again.
const staleClaimAge = 5 * time.Minute

// Notifier drains the notification_jobs queue written by the booking
// committer. Delivery is at-least-once; a job that keeps failing is parked as
// dead after maxAttempts instead of blocking the queue.
type Notifier struct {
	uow         shared.UnitOfWork
	sender      notification.Sender
	clock       clock.Clock
	interval    time.Duration
	maxAttempts int
}

func NewNotifier(
	uow shared.UnitOfWork,
	sender notification.Sender,
	clk clock.Clock,
	cfg config.BookingConfig,
) *Notifier {
	return &Notifier{
		uow:         uow,
		sender:      sender,
		clock:       clk,
		interval:    cfg.NotifyInterval,
		maxAttempts: cfg.NotifyMaxAttempts,
	}
}

func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	slog.Info("notification worker started", "interval", n.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("notification worker stopped")
			return
		case <-ticker.C:
			n.DrainOnce(ctx)
		}
	}
}

func (n *Notifier) DrainOnce(ctx context.Context) {
	now := n.clock.Now()

	var jobs []shared.NotificationJob
	err := n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		jobs, err = tx.Notifications().ClaimDue(ctx, now, now.Add(-staleClaimAge), claimBatchSize)
		return err
	})
	if err != nil {
		slog.Error("failed to claim notification jobs", "error", err.Error())
		return
	}

	for _, job := range jobs {
		n.deliver(ctx, job)
	}
}

func (n *Notifier) deliver(ctx context.Context, job shared.NotificationJob) {
	sendErr := n.sender.Send(ctx, job.Topic, job.Payload)

	err := n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if sendErr == nil {
			return tx.Notifications().MarkDone(ctx, job.ID)
		}
		if job.Attempts >= n.maxAttempts {
			slog.Error("notification job exhausted retries",
				"job_id", job.ID.String(),
				"topic", job.Topic,
				"attempts", job.Attempts,
				"error", sendErr.Error())
			return tx.Notifications().MarkDead(ctx, job.ID)
		}
		// Linear retry spacing; delivery lag is harmless here.
		retryAt := n.clock.Now().Add(time.Duration(job.Attempts) * time.Minute)
		slog.Warn("notification delivery failed, rescheduling",
			"job_id", job.ID.String(),
			"attempt", job.Attempts,
			"error", sendErr.Error())
		return tx.Notifications().Reschedule(ctx, job.ID, retryAt)
	})
	if err != nil {
		slog.Error("failed to update notification job", "job_id", job.ID.String(), "error", err.Error())
	}
}
