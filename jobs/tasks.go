package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeTransferExecute drives one queued transfer to a terminal state.
	TaskTypeTransferExecute = "transfer:execute"
	// TaskTypeQueueReaper fails transfers stuck in processing past the deadline.
	TaskTypeQueueReaper = "transfer:reap_stale"
	// TaskTypeLedgerIntegrity recomputes wallet balances from the ledger.
	TaskTypeLedgerIntegrity = "ledger:integrity_scan"
)

// TransferExecutePayload identifies the queue item to execute.
type TransferExecutePayload struct {
	QueueID string `json:"queueId"`
}

// NewTransferExecuteTask constructs an Asynq task for a queued transfer.
func NewTransferExecuteTask(payload TransferExecutePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTransferExecute, data), nil
}

// NewQueueReaperTask constructs the stale-transfer reaper task.
func NewQueueReaperTask() *asynq.Task {
	return asynq.NewTask(TaskTypeQueueReaper, nil)
}

// NewLedgerIntegrityTask constructs the balance integrity scan task.
func NewLedgerIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLedgerIntegrity, nil)
}
