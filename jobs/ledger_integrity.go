package jobs

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/amanah-zis/amanah-zis/internal/jobs"
	"github.com/amanah-zis/amanah-zis/internal/ledger"
)

// LedgerIntegrityJob recomputes every wallet balance from its transactions and
// reports drift. It never mutates; the movement log is the source of truth and
// drift means a write path bypassed it.
type LedgerIntegrityJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLedgerIntegrityJob initialises the integrity scan handler.
func NewLedgerIntegrityJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle runs one scan over all wallets.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	tracker := j.Metrics.Track(TaskTypeLedgerIntegrity)
	var resultErr error
	defer func() { _ = tracker.End(resultErr) }()

	credits := ledger.CreditKinds()
	quoted := make([]string, 0, len(credits))
	for _, kind := range credits {
		quoted = append(quoted, "'"+string(kind)+"'")
	}
	query := `
		SELECT w.id, w.balance, COALESCE(SUM(
			CASE WHEN t.source_kind IN (` + strings.Join(quoted, ",") + `) THEN t.amount ELSE -t.amount END
		), 0)
		FROM wallets w
		LEFT JOIN ledger_transactions t ON t.wallet_id = w.id
		GROUP BY w.id, w.balance`

	rows, err := j.Pool.Query(ctx, query)
	if err != nil {
		resultErr = err
		return err
	}
	defer rows.Close()

	drift := 0
	for rows.Next() {
		var walletID string
		var stored, computed int64
		if err := rows.Scan(&walletID, &stored, &computed); err != nil {
			resultErr = err
			return err
		}
		if stored != computed {
			drift++
			j.Logger.Error("wallet balance drift",
				slog.String("wallet_id", walletID),
				slog.Int64("stored", stored),
				slog.Int64("computed", computed))
		}
	}
	if err := rows.Err(); err != nil {
		resultErr = err
		return err
	}
	if drift == 0 {
		j.Logger.Info("ledger integrity scan clean")
	}
	return nil
}
