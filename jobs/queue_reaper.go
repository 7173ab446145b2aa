package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/amanah-zis/amanah-zis/internal/jobs"
)

// QueueReaperJob fails transfers that never left the processing state, for
// example after a crash between the status flip and the funds movement.
type QueueReaperJob struct {
	Pool     *pgxpool.Pool
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	Deadline time.Duration
}

// NewQueueReaperJob initialises the reaper handler.
func NewQueueReaperJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics, deadline time.Duration) *QueueReaperJob {
	if deadline <= 0 {
		deadline = 10 * time.Minute
	}
	return &QueueReaperJob{Pool: pool, Logger: logger, Metrics: metrics, Deadline: deadline}
}

// Handle marks stale processing rows as failed and records the outcome. The
// funds movement commits in one unit with the succeeded flip, so a row stuck
// in processing is guaranteed to have moved nothing.
func (j *QueueReaperJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("queue reaper: handler not configured")
	}
	tracker := j.Metrics.Track(TaskTypeQueueReaper)
	var resultErr error
	defer func() { _ = tracker.End(resultErr) }()

	tx, err := j.Pool.Begin(ctx)
	if err != nil {
		resultErr = err
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cutoff := time.Now().UTC().Add(-j.Deadline)
	rows, err := tx.Query(ctx, `
		UPDATE cross_transfer_queue
		SET status='failed', transfer_amount=0, updated_at=NOW()
		WHERE status='processing' AND updated_at < $1
		RETURNING id, source_id, source_name, destination_id, destination_name, amount, type`, cutoff)
	if err != nil {
		resultErr = err
		return err
	}
	type reaped struct {
		id, sourceID, sourceName, destID, destName, typ string
		amount                                          int64
	}
	var stale []reaped
	for rows.Next() {
		var r reaped
		if err := rows.Scan(&r.id, &r.sourceID, &r.sourceName, &r.destID, &r.destName, &r.amount, &r.typ); err != nil {
			rows.Close()
			resultErr = err
			return err
		}
		stale = append(stale, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		resultErr = err
		return err
	}

	for _, r := range stale {
		if _, err := tx.Exec(ctx, `
			INSERT INTO cross_transaction_records (id, queue_id, source_id, source_name, destination_id, destination_name, amount, transfer_amount, status, type, recorded_at)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, 0, 'failed', $7, NOW())
			ON CONFLICT (queue_id) DO NOTHING`,
			r.id, r.sourceID, r.sourceName, r.destID, r.destName, r.amount, r.typ); err != nil {
			resultErr = err
			return err
		}
		j.Logger.Warn("reaped stale transfer",
			slog.String("queue_id", r.id),
			slog.Int64("amount", r.amount))
	}

	if err := tx.Commit(ctx); err != nil {
		resultErr = err
		return err
	}
	if len(stale) > 0 {
		j.Logger.Info("queue reaper finished", slog.Int("reaped", len(stale)))
	}
	return nil
}
