package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanah-zis/amanah-zis/internal/shared"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres-backed ledger repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return mapConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *repository) GetWallet(ctx context.Context, id uuid.UUID) (Wallet, error) {
	var w Wallet
	err := r.db.QueryRow(ctx, `SELECT id, organization_id, kind, balance, created_at, updated_at
FROM wallets WHERE id=$1`, id).
		Scan(&w.ID, &w.OrganizationID, &w.Kind, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, err
	}
	return w, nil
}

func (r *repository) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.Query(ctx, `SELECT id, wallet_id, source_kind, source_document_id, amount, date, description, created_at
FROM ledger_transactions
WHERE wallet_id=$1 AND date BETWEEN COALESCE($2, '-infinity') AND COALESCE($3, 'infinity')
ORDER BY date ASC, created_at ASC
LIMIT $4`, filter.WalletID, nullTime(filter.From), nullTime(filter.To), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	txns := []Transaction{}
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Source.Kind, &t.Source.DocumentID, &t.Amount, &t.Date, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (Wallet, error) {
	var w Wallet
	err := r.tx.QueryRow(ctx, `SELECT id, organization_id, kind, balance, created_at, updated_at
FROM wallets WHERE id=$1 FOR UPDATE`, id).
		Scan(&w.ID, &w.OrganizationID, &w.Kind, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, err
	}
	return w, nil
}

func (r *txRepository) InsertWallet(ctx context.Context, wallet Wallet) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO wallets (id, organization_id, kind, balance, created_at, updated_at)
VALUES ($1,$2,$3,$4,NOW(),NOW())`, wallet.ID, wallet.OrganizationID, wallet.Kind, wallet.Balance)
	return err
}

func (r *txRepository) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE wallets SET balance=$2, updated_at=NOW() WHERE id=$1`, id, balance)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (r *txRepository) InsertTransaction(ctx context.Context, txn Transaction) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO ledger_transactions (id, wallet_id, source_kind, source_document_id, amount, date, description, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`, txn.ID, txn.WalletID, txn.Source.Kind, txn.Source.DocumentID, txn.Amount, txn.Date, txn.Description)
	return err
}

// mapConflict translates lock-wait timeouts and serialization failures into
// the retryable sentinel.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "55P03" || pgErr.Code == "40001" {
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
