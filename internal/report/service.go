package report

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// KindSummary is one row of the balance report.
type KindSummary struct {
	Kind           string `json:"kind"`
	Wallets        int    `json:"wallets"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balanceDisplay"`
}

// OrgSummary rolls balances up per organization.
type OrgSummary struct {
	OrganizationID string `json:"organizationId"`
	Balance        int64  `json:"balance"`
	BalanceDisplay string `json:"balanceDisplay"`
}

// BalanceReport is the full summary payload.
type BalanceReport struct {
	GeneratedAt        time.Time     `json:"generatedAt"`
	Kinds              []KindSummary `json:"kinds"`
	Organizations      []OrgSummary  `json:"organizations"`
	Total              int64         `json:"total"`
	TotalDisplay       string        `json:"totalDisplay"`
	AggregatorAccounts int           `json:"aggregatorAccounts"`
	AggregatorBalance  int64         `json:"aggregatorBalance"`
}

// Service builds balance reports. Concurrent identical requests share one
// database round trip and results are cached until the next invalidation bump.
type Service struct {
	repo    Repository
	cache   *Cache
	group   singleflight.Group
	printer *message.Printer
	now     func() time.Time
}

// NewService constructs the report service.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		printer: message.NewPrinter(language.Indonesian),
		now:     time.Now,
	}
}

// Balances returns the aggregate balance report.
func (s *Service) Balances(ctx context.Context) (BalanceReport, error) {
	key, err := s.cache.BuildKey(ctx, "report", "balances")
	if err != nil {
		return BalanceReport{}, err
	}
	var report BalanceReport
	if err := s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, key)
	}); err != nil {
		return BalanceReport{}, err
	}
	return report, nil
}

// Invalidate drops all cached reports.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) build(ctx context.Context, key string) (BalanceReport, error) {
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		return s.buildUncoalesced(ctx)
	})
	select {
	case <-ctx.Done():
		return BalanceReport{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return BalanceReport{}, res.Err
		}
		return res.Val.(BalanceReport), nil
	}
}

func (s *Service) buildUncoalesced(ctx context.Context) (BalanceReport, error) {
	kinds, err := s.repo.BalancesByKind(ctx)
	if err != nil {
		return BalanceReport{}, err
	}
	orgs, err := s.repo.BalancesByOrganization(ctx)
	if err != nil {
		return BalanceReport{}, err
	}
	accounts, aggBalance, err := s.repo.AggregatorTotals(ctx)
	if err != nil {
		return BalanceReport{}, err
	}
	report := BalanceReport{
		GeneratedAt:        s.now().UTC(),
		AggregatorAccounts: accounts,
		AggregatorBalance:  aggBalance,
	}
	for _, kb := range kinds {
		report.Total += kb.Balance
		report.Kinds = append(report.Kinds, KindSummary{
			Kind:           string(kb.Kind),
			Wallets:        kb.Wallets,
			Balance:        kb.Balance,
			BalanceDisplay: s.formatAmount(kb.Balance),
		})
	}
	for _, ob := range orgs {
		report.Organizations = append(report.Organizations, OrgSummary{
			OrganizationID: ob.OrganizationID,
			Balance:        ob.Balance,
			BalanceDisplay: s.formatAmount(ob.Balance),
		})
	}
	report.TotalDisplay = s.formatAmount(report.Total)
	return report, nil
}

func (s *Service) formatAmount(v int64) string {
	return s.printer.Sprintf("%d koin", v)
}
