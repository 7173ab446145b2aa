package aggregator

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres-backed aggregator repository.
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

func (r *repository) GetByDonor(ctx context.Context, donorID uuid.UUID) (Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `SELECT id, donor_id, balance, created_at, updated_at
FROM aggregator_accounts WHERE donor_id=$1`, donorID).
		Scan(&a.ID, &a.DonorID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetAccountForUpdate(ctx context.Context, donorID uuid.UUID) (Account, error) {
	var a Account
	err := r.tx.QueryRow(ctx, `SELECT id, donor_id, balance, created_at, updated_at
FROM aggregator_accounts WHERE donor_id=$1 FOR UPDATE`, donorID).
		Scan(&a.ID, &a.DonorID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *txRepository) InsertAccount(ctx context.Context, account Account) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO aggregator_accounts (id, donor_id, balance, created_at, updated_at)
VALUES ($1,$2,$3,NOW(),NOW())`, account.ID, account.DonorID, account.Balance)
	return err
}

func (r *txRepository) UpdateAccountBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE aggregator_accounts SET balance=$2, updated_at=NOW() WHERE id=$1`, id, balance)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *txRepository) InsertLedgerTransaction(ctx context.Context, txn ledger.Transaction) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO ledger_transactions (id, wallet_id, source_kind, source_document_id, amount, date, description, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`, txn.ID, txn.WalletID, txn.Source.Kind, txn.Source.DocumentID, txn.Amount, txn.Date, txn.Description)
	return err
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001":
			return shared.ErrConcurrencyConflict
		case "23505":
			// Two first-time credits for the same donor race past the
			// missing-row lock and both insert; the loser's unique violation
			// on donor_id is a retryable conflict, not a server fault. Under
			// repeatable read the winner's row is outside the loser's
			// snapshot, so a retry on a fresh transaction is the only safe
			// resolution.
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}
