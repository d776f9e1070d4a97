// Package accounting assembles ledger reports from the chart of accounts
// and posted balances owned by the upstream posting system.
package accounting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-erp/meridian-erp/internal/accounting/accounts"
	"github.com/meridian-erp/meridian-erp/internal/accounting/reports"
	"github.com/meridian-erp/meridian-erp/internal/money"
	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
)

// Repository defines read access to the chart of accounts and posted leaf
// balances.
type Repository interface {
	ListAccounts(ctx context.Context) ([]accounts.Account, error)
	LeafBalances(ctx context.Context, asOf time.Time) (map[int64]money.Money, error)
}

// Service builds trial balance and balance sheet reports, caching the
// serialized results per as-of date.
type Service struct {
	repo  Repository
	cache *cache.Cache
	group singleflight.Group
}

// NewService wires a Repository with the report cache.
func NewService(repo Repository, reportCache *cache.Cache) *Service {
	return &Service{repo: repo, cache: reportCache}
}

func dateKey(asOf time.Time) string {
	return asOf.Format("2006-01-02")
}

// loadChart fetches accounts and balances concurrently and validates the
// forest.
func (s *Service) loadChart(ctx context.Context, asOf time.Time) (*accounts.Tree, map[int64]money.Money, error) {
	var (
		list     []accounts.Account
		balances map[int64]money.Money
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.repo.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		balances, err = s.repo.LeafBalances(gctx, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	tree, err := accounts.BuildTree(list)
	if err != nil {
		return nil, nil, fmt.Errorf("accounting: chart of accounts: %w", err)
	}
	return tree, balances, nil
}

// TrialBalance renders the trial balance as of a date.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (reports.TrialBalanceReport, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		tree, balances, err := s.loadChart(ctx, asOf)
		if err != nil {
			return nil, err
		}
		return reports.BuildTrialBalance(asOf, tree, balances), nil
	}

	var report reports.TrialBalanceReport
	if err := s.fetch(ctx, "tb", asOf, &report, loader); err != nil {
		return reports.TrialBalanceReport{}, err
	}
	return report, nil
}

// BalanceSheet renders the balance sheet as of a date. Imbalanced data is
// flagged on the report, never an error.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (reports.BalanceSheetReport, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		tree, balances, err := s.loadChart(ctx, asOf)
		if err != nil {
			return nil, err
		}
		return reports.BuildBalanceSheet(asOf, tree, balances), nil
	}

	var report reports.BalanceSheetReport
	if err := s.fetch(ctx, "bs", asOf, &report, loader); err != nil {
		return reports.BalanceSheetReport{}, err
	}
	return report, nil
}

// fetch funnels report builds through singleflight so concurrent requests
// for the same report share one load, then through the versioned cache.
// The shared result travels as raw JSON so every waiter decodes its own
// copy.
func (s *Service) fetch(ctx context.Context, kind string, asOf time.Time, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, "reports", kind, dateKey(asOf))
	if err != nil {
		return err
	}
	shared, err, _ := s.group.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(shared.(json.RawMessage), dest)
}

// Invalidate drops all cached reports after new postings land.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
