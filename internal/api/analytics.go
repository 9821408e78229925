package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rcptscan/rcptscan/internal/cache"
)

// SpendingByCategory returns totals grouped by category, optionally bounded
// by start and end dates (YYYY-MM-DD, empty for unbounded). Served from the
// cache when the same range was fetched since the last mutation.
func (a *API) SpendingByCategory(ctx context.Context, startDate, endDate string) ([]CategorySpending, error) {
	key := cache.SpendingKey(startDate, endDate)
	if data, ok := a.cache.Get(cache.FamilySpending, key); ok {
		a.logger.Debug().Str("key", key).Msg("spending aggregate served from cache")
		return data.([]CategorySpending), nil
	}

	query := url.Values{}
	if startDate != "" {
		query.Set("start_date", startDate)
	}
	if endDate != "" {
		query.Set("end_date", endDate)
	}

	var out struct {
		Data []CategorySpending `json:"data"`
	}
	if err := a.client.Get(ctx, "/analytics/spending_by_category", query, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch spending: %w", err)
	}

	a.cache.Put(cache.FamilySpending, key, out.Data)
	return out.Data, nil
}
