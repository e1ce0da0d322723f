package api

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AnalyticsService exposes the backend's dashboard aggregates.
type AnalyticsService struct {
	client *Client
}

// AllocationSlice is one wedge of the allocation breakdown.
type AllocationSlice struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

// DashboardSummary is the aggregate view across all (or one) portfolios.
type DashboardSummary struct {
	Currency    string            `json:"currency"`
	TotalValue  decimal.Decimal   `json:"total_value"`
	TotalGain   decimal.Decimal   `json:"total_gain"`
	GainPercent decimal.Decimal   `json:"gain_percent"`
	DayChange   decimal.Decimal   `json:"day_change"`
	Allocation  []AllocationSlice `json:"allocation"`
}

// Dashboard returns the aggregate summary. An empty portfolioID aggregates
// across all portfolios.
func (s *AnalyticsService) Dashboard(ctx context.Context, portfolioID string) (DashboardSummary, error) {
	query := url.Values{}
	if portfolioID != "" {
		query.Set("portfolio_id", portfolioID)
	}
	var out DashboardSummary
	if err := s.client.get(ctx, apiPath("analytics", "dashboard"), query, &out); err != nil {
		return DashboardSummary{}, errors.Wrap(err, "[AnalyticsService.Dashboard]")
	}
	return out, nil
}
