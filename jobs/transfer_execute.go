package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/amanah-zis/amanah-zis/internal/jobs"
	"github.com/amanah-zis/amanah-zis/internal/shared"
	"github.com/amanah-zis/amanah-zis/internal/transfer"
)

// TransferExecuteJob executes pending transfers picked up from the queue.
type TransferExecuteJob struct {
	Service *transfer.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewTransferExecuteJob initialises the transfer execution handler.
func NewTransferExecuteJob(service *transfer.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *TransferExecuteJob {
	return &TransferExecuteJob{Service: service, Logger: logger, Metrics: metrics}
}

// Handle executes one queued transfer. Business failures land in the queue
// row itself, so only infrastructure errors bubble up for Asynq to retry.
func (j *TransferExecuteJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("transfer execute: handler not configured")
	}
	var payload TransferExecutePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	queueID, err := uuid.Parse(payload.QueueID)
	if err != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskTypeTransferExecute)
	var resultErr error
	defer func() { _ = tracker.End(resultErr) }()

	state, err := j.Service.Execute(ctx, queueID)
	switch {
	case err == nil:
		j.Logger.Info("transfer executed",
			slog.String("queue_id", queueID.String()),
			slog.Int("status_code", state.StatusCode),
			slog.Int64("amount", state.Amount))
		return nil
	case errors.Is(err, transfer.ErrQueueItemNotPending), errors.Is(err, transfer.ErrQueueItemNotFound):
		// Already handled elsewhere, nothing left to do.
		return nil
	case errors.Is(err, transfer.ErrTransferInFlight), errors.Is(err, shared.ErrConcurrencyConflict):
		resultErr = err
		return err
	default:
		resultErr = err
		j.Logger.Error("transfer execution failed",
			slog.String("queue_id", queueID.String()),
			slog.Any("error", err))
		return err
	}
}
