package profitability

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-erp/meridian-erp/internal/platform/cache"
)

// Repository defines read access to sold line items with their costs.
type Repository interface {
	ListSalesLines(ctx context.Context, period DateRange) ([]SalesLine, error)
}

// Service runs the profitability aggregation over repository data, caching
// serialized reports per period.
type Service struct {
	repo  Repository
	cache *cache.Cache
	group singleflight.Group
}

// NewService wires a Repository with the report cache.
func NewService(repo Repository, reportCache *cache.Cache) *Service {
	return &Service{repo: repo, cache: reportCache}
}

// Report aggregates the period's sales lines into per-product and period
// rollups.
func (s *Service) Report(ctx context.Context, period DateRange) (Report, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "profitability",
		period.From.Format("2006-01-02"), period.To.Format("2006-01-02"))
	if err != nil {
		return Report{}, err
	}

	shared, err, _ := s.group.Do(key, func() (interface{}, error) {
		var raw json.RawMessage
		loadErr := s.cache.FetchJSON(ctx, key, &raw, func(ctx context.Context) (interface{}, error) {
			lines, err := s.repo.ListSalesLines(ctx, period)
			if err != nil {
				return nil, err
			}
			return Aggregate(lines, period), nil
		})
		if loadErr != nil {
			return nil, loadErr
		}
		return raw, nil
	})
	if err != nil {
		return Report{}, err
	}

	var report Report
	if err := json.Unmarshal(shared.(json.RawMessage), &report); err != nil {
		return Report{}, err
	}
	return report, nil
}

// Invalidate drops cached reports after new sales land.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
