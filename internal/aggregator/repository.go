package aggregator

import (
	"context"

	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
)

// Repository encapsulates DB operations for aggregator accounts.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByDonor(ctx context.Context, donorID uuid.UUID) (Account, error)
}

// TxRepository exposes methods available within a transaction. Ledger
// transaction inserts are included so a credit and its NuCoin entry commit
// together.
type TxRepository interface {
	GetAccountForUpdate(ctx context.Context, donorID uuid.UUID) (Account, error)
	InsertAccount(ctx context.Context, account Account) error
	UpdateAccountBalance(ctx context.Context, id uuid.UUID, balance int64) error
	InsertLedgerTransaction(ctx context.Context, txn ledger.Transaction) error
}
