package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository encapsulates DB operations for the ledger store.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetWallet(ctx context.Context, id uuid.UUID) (Wallet, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
}

// TxRepository exposes methods available within a transaction.
type TxRepository interface {
	GetWalletForUpdate(ctx context.Context, id uuid.UUID) (Wallet, error)
	InsertWallet(ctx context.Context, wallet Wallet) error
	UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error
	InsertTransaction(ctx context.Context, txn Transaction) error
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	WalletID uuid.UUID
	From     time.Time
	To       time.Time
	Limit    int
}
