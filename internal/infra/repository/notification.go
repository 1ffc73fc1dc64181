package repository

import (
	"context"
	"time"

	"slot-booking/internal/infra"
	"slot-booking/internal/infra/db"
	"slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const q = `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.Exec(ctx, q, uuid.New(), kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err)
	}
	return nil
}

// ClaimDue marks up to limit due jobs as processing and returns them.
// SKIP LOCKED lets multiple worker instances drain the queue without
// stepping on each other. Processing rows claimed before staleBefore are
// picked up again; their claimer died before recording an outcome.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]shared.NotificationJob, error) {
	const q = `
		UPDATE notification_jobs
		SET status = 'processing', attempts = attempts + 1, claimed_at = $1
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE (status = 'pending' AND run_at <= $1)
			   OR (status = 'processing' AND claimed_at <= $2)
			ORDER BY run_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, run_at, attempts`

	rows, err := r.db.Query(ctx, q, now, staleBefore, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var j shared.NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.RunAt, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, `UPDATE notification_jobs SET status = 'done' WHERE id = $1`)
}

func (r *NotificationRepository) Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time) error {
	const q = `UPDATE notification_jobs SET status = 'pending', run_at = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, q, id, runAt); err != nil {
		return infra.WrapRepoErr("failed to reschedule notification job", err)
	}
	return nil
}

func (r *NotificationRepository) MarkDead(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, `UPDATE notification_jobs SET status = 'dead' WHERE id = $1`)
}

func (r *NotificationRepository) setStatus(ctx context.Context, id uuid.UUID, q string) error {
	if _, err := r.db.Exec(ctx, q, id); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}
