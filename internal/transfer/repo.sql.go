package transfer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanah-zis/amanah-zis/internal/aggregator"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
	"github.com/amanah-zis/amanah-zis/internal/shared"
)

const queueColumns = `id, source_id, source_name, destination_id, destination_name, amount, transfer_amount, status, type, proof_url, proof_checksum, created_at, updated_at`

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres-backed transfer repository.
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

func (r *repository) InsertQueueItem(ctx context.Context, item QueueItem) error {
	_, err := r.db.Exec(ctx, `INSERT INTO cross_transfer_queue (`+queueColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),NOW())`,
		item.ID, item.SourceID, item.SourceName, item.DestinationID, item.DestinationName,
		item.Amount, item.TransferAmount, item.Status, item.Type, nullString(item.ProofURL), nullString(item.ProofChecksum))
	return err
}

func (r *repository) GetQueueItem(ctx context.Context, id uuid.UUID) (QueueItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+queueColumns+` FROM cross_transfer_queue WHERE id=$1`, id)
	return scanQueueItem(row)
}

func (r *repository) ListQueueItems(ctx context.Context, filter ListFilter) ([]QueueItem, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `SELECT `+queueColumns+` FROM cross_transfer_queue
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2`, string(filter.Status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []QueueItem{}
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) ClaimQueueItem(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `UPDATE cross_transfer_queue SET status=$2, updated_at=NOW()
WHERE id=$1 AND status=$3`, id, StatusProcessing, StatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQueueItemNotPending
	}
	return nil
}

func (r *repository) SetQueueStatus(ctx context.Context, id uuid.UUID, status Status) error {
	cmd, err := r.db.Exec(ctx, `UPDATE cross_transfer_queue SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

func (r *repository) SetQueueResult(ctx context.Context, id uuid.UUID, transferAmount int64, status Status) error {
	cmd, err := r.db.Exec(ctx, `UPDATE cross_transfer_queue SET transfer_amount=$2, status=$3, updated_at=NOW() WHERE id=$1`, id, transferAmount, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

func (r *repository) InsertRecord(ctx context.Context, record Record) error {
	return insertRecord(ctx, r.db, record)
}

func (r *repository) GetRecordByQueueID(ctx context.Context, queueID uuid.UUID) (Record, error) {
	var rec Record
	err := r.db.QueryRow(ctx, `SELECT id, queue_id, source_id, source_name, destination_id, destination_name, amount, transfer_amount, status, type, recorded_at
FROM cross_transaction_records WHERE queue_id=$1`, queueID).
		Scan(&rec.ID, &rec.QueueID, &rec.SourceID, &rec.SourceName, &rec.DestinationID, &rec.DestinationName,
			&rec.Amount, &rec.TransferAmount, &rec.Status, &rec.Type, &rec.RecordedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrQueueItemNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetWalletForUpdate(ctx context.Context, id uuid.UUID) (ledger.Wallet, error) {
	var w ledger.Wallet
	err := r.tx.QueryRow(ctx, `SELECT id, organization_id, kind, balance, created_at, updated_at
FROM wallets WHERE id=$1 FOR UPDATE`, id).
		Scan(&w.ID, &w.OrganizationID, &w.Kind, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Wallet{}, ledger.ErrWalletNotFound
		}
		return ledger.Wallet{}, err
	}
	return w, nil
}

func (r *txRepository) UpdateWalletBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE wallets SET balance=$2, updated_at=NOW() WHERE id=$1`, id, balance)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ledger.ErrWalletNotFound
	}
	return nil
}

func (r *txRepository) GetAggregatorAccountForUpdate(ctx context.Context, id uuid.UUID) (aggregator.Account, error) {
	var a aggregator.Account
	err := r.tx.QueryRow(ctx, `SELECT id, donor_id, balance, created_at, updated_at
FROM aggregator_accounts WHERE id=$1 FOR UPDATE`, id).
		Scan(&a.ID, &a.DonorID, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return aggregator.Account{}, aggregator.ErrAccountNotFound
		}
		return aggregator.Account{}, err
	}
	return a, nil
}

func (r *txRepository) UpdateAggregatorAccountBalance(ctx context.Context, id uuid.UUID, balance int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE aggregator_accounts SET balance=$2, updated_at=NOW() WHERE id=$1`, id, balance)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return aggregator.ErrAccountNotFound
	}
	return nil
}

func (r *txRepository) InsertLedgerTransaction(ctx context.Context, txn ledger.Transaction) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO ledger_transactions (id, wallet_id, source_kind, source_document_id, amount, date, description, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())`, txn.ID, txn.WalletID, txn.Source.Kind, txn.Source.DocumentID, txn.Amount, txn.Date, txn.Description)
	return err
}

func (r *txRepository) SetQueueResult(ctx context.Context, id uuid.UUID, transferAmount int64, status Status) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE cross_transfer_queue SET transfer_amount=$2, status=$3, updated_at=NOW() WHERE id=$1`, id, transferAmount, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrQueueItemNotFound
	}
	return nil
}

func (r *txRepository) InsertRecord(ctx context.Context, record Record) error {
	return insertRecord(ctx, r.tx, record)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertRecord is idempotent per queue item: the unique constraint on
// queue_id makes a second call a no-op instead of a duplicate audit row.
func insertRecord(ctx context.Context, db execer, record Record) error {
	_, err := db.Exec(ctx, `INSERT INTO cross_transaction_records (id, queue_id, source_id, source_name, destination_id, destination_name, amount, transfer_amount, status, type, recorded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (queue_id) DO NOTHING`,
		record.ID, record.QueueID, record.SourceID, record.SourceName, record.DestinationID, record.DestinationName,
		record.Amount, record.TransferAmount, record.Status, record.Type, record.RecordedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQueueItem(row rowScanner) (QueueItem, error) {
	var item QueueItem
	var proofURL, proofChecksum *string
	err := row.Scan(&item.ID, &item.SourceID, &item.SourceName, &item.DestinationID, &item.DestinationName,
		&item.Amount, &item.TransferAmount, &item.Status, &item.Type, &proofURL, &proofChecksum,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QueueItem{}, ErrQueueItemNotFound
		}
		return QueueItem{}, err
	}
	if proofURL != nil {
		item.ProofURL = *proofURL
	}
	if proofChecksum != nil {
		item.ProofChecksum = *proofChecksum
	}
	return item, nil
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "55P03" || pgErr.Code == "40001" {
			return shared.ErrConcurrencyConflict
		}
	}
	return err
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
