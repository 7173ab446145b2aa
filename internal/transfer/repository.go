package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/aggregator"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
)

// Repository encapsulates DB operations for the transfer queue and the
// record log.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	InsertQueueItem(ctx context.Context, item QueueItem) error
	GetQueueItem(ctx context.Context, id uuid.UUID) (QueueItem, error)
	ListQueueItems(ctx context.Context, filter ListFilter) ([]QueueItem, error)
	// ClaimQueueItem flips a pending row to processing with a compare-and-set
	// so exactly one executor wins the row. A row that is no longer pending
	// yields ErrQueueItemNotPending.
	ClaimQueueItem(ctx context.Context, id uuid.UUID) error
	SetQueueStatus(ctx context.Context, id uuid.UUID, status Status) error
	SetQueueResult(ctx context.Context, id uuid.UUID, transferAmount int64, status Status) error
	InsertRecord(ctx context.Context, record Record) error
	GetRecordByQueueID(ctx context.Context, queueID uuid.UUID) (Record, error)
}

// TxRepository exposes the operations a transfer needs inside one unit of
// work. Wallet and aggregator row access is duplicated here rather than
// borrowed from those packages so the debit, credit, ledger insert, queue
// result and record commit atomically.
type TxRepository interface {
	GetWalletForUpdate(ctx context.Context, id uuid.UUID) (ledger.Wallet, error)
	UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error
	GetAggregatorAccountForUpdate(ctx context.Context, id uuid.UUID) (aggregator.Account, error)
	UpdateAggregatorAccountBalance(ctx context.Context, id uuid.UUID, balance int64) error
	InsertLedgerTransaction(ctx context.Context, txn ledger.Transaction) error
	SetQueueResult(ctx context.Context, id uuid.UUID, transferAmount int64, status Status) error
	InsertRecord(ctx context.Context, record Record) error
}

// ListFilter narrows queue listings.
type ListFilter struct {
	Status Status
	Limit  int
}
