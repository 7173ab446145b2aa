package report

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amanah-zis/amanah-zis/internal/ledger"
)

// KindBalance is an aggregate balance grouped by wallet kind.
type KindBalance struct {
	Kind    ledger.WalletKind
	Wallets int
	Balance int64
}

// OrgBalance is a per organization rollup across its wallets.
type OrgBalance struct {
	OrganizationID string
	Balance        int64
}

// Repository reads aggregate balances straight from the ledger tables.
type Repository interface {
	BalancesByKind(ctx context.Context) ([]KindBalance, error)
	BalancesByOrganization(ctx context.Context) ([]OrgBalance, error)
	AggregatorTotals(ctx context.Context) (accounts int, balance int64, err error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the Postgres backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) BalancesByKind(ctx context.Context) ([]KindBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT kind, COUNT(*), COALESCE(SUM(balance), 0)
		FROM wallets
		GROUP BY kind
		ORDER BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []KindBalance
	for rows.Next() {
		var kb KindBalance
		if err := rows.Scan(&kb.Kind, &kb.Wallets, &kb.Balance); err != nil {
			return nil, err
		}
		out = append(out, kb)
	}
	return out, rows.Err()
}

func (r *pgRepository) BalancesByOrganization(ctx context.Context) ([]OrgBalance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT organization_id, COALESCE(SUM(balance), 0)
		FROM wallets
		GROUP BY organization_id
		ORDER BY organization_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OrgBalance
	for rows.Next() {
		var ob OrgBalance
		if err := rows.Scan(&ob.OrganizationID, &ob.Balance); err != nil {
			return nil, err
		}
		out = append(out, ob)
	}
	return out, rows.Err()
}

func (r *pgRepository) AggregatorTotals(ctx context.Context) (int, int64, error) {
	var accounts int
	var balance int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(balance), 0) FROM aggregator_accounts`).
		Scan(&accounts, &balance)
	return accounts, balance, err
}
