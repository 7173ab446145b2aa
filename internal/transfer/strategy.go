package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amanah-zis/amanah-zis/internal/aggregator"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
)

// sourceStrategy mutates the source side of a transfer inside the
// surrounding unit of work. It moves at most the available balance and
// reports what it moved; zero means the source was empty. The set of
// strategies is closed and selected by queue item type before the atomic
// step begins.
type sourceStrategy interface {
	debit(ctx context.Context, tx TxRepository, item QueueItem, now time.Time) (int64, error)
}

func strategyFor(t Type) (sourceStrategy, error) {
	s, ok := strategies[t]
	if !ok {
		return nil, ErrUnknownType
	}
	return s, nil
}

var strategies = map[Type]sourceStrategy{
	TypeAggregatorToWallet: aggregatorSource{},
	TypeWalletToWallet:     walletSource{},
}

// aggregatorSource drains a donor's pooled balance. The pool has no wallet,
// so the destination credit is the transfer's only ledger entry.
type aggregatorSource struct{}

func (aggregatorSource) debit(ctx context.Context, tx TxRepository, item QueueItem, _ time.Time) (int64, error) {
	account, err := tx.GetAggregatorAccountForUpdate(ctx, item.SourceID)
	if err != nil {
		if errors.Is(err, aggregator.ErrAccountNotFound) {
			return 0, errSourceNotFound
		}
		return 0, err
	}
	moved := min(item.Amount, account.Balance)
	if moved == 0 {
		return 0, nil
	}
	if err := tx.UpdateAggregatorAccountBalance(ctx, account.ID, account.Balance-moved); err != nil {
		return 0, err
	}
	return moved, nil
}

// walletSource moves funds out of another organization wallet. Wallet
// balance changes always pair with a ledger entry, so the debit writes a
// distribution transaction alongside the destination's receive entry.
type walletSource struct{}

func (walletSource) debit(ctx context.Context, tx TxRepository, item QueueItem, now time.Time) (int64, error) {
	wallet, err := tx.GetWalletForUpdate(ctx, item.SourceID)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			return 0, errSourceNotFound
		}
		return 0, err
	}
	moved := min(item.Amount, wallet.Balance)
	if moved == 0 {
		return 0, nil
	}
	if err := tx.UpdateWalletBalance(ctx, wallet.ID, wallet.Balance-moved); err != nil {
		return 0, err
	}
	walletID := wallet.ID
	err = tx.InsertLedgerTransaction(ctx, ledger.Transaction{
		ID:          uuid.New(),
		WalletID:    &walletID,
		Source:      ledger.SourceDocument{Kind: ledger.DistributionKindFor(wallet.Kind), DocumentID: item.ID},
		Amount:      moved,
		Date:        now,
		Description: fmt.Sprintf("Cross transfer to %s", item.DestinationName),
		CreatedAt:   now,
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}
