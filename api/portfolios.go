package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PortfolioService manages the user's portfolios.
type PortfolioService struct {
	client *Client
}

// Portfolio is one investment portfolio and its current valuation, as
// computed by the backend.
type Portfolio struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	TotalValue  decimal.Decimal `json:"total_value"`
	TotalGain   decimal.Decimal `json:"total_gain"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ValuationPoint is one point of a portfolio's valuation curve.
type ValuationPoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// PortfolioInput is the payload for creating or updating a portfolio.
type PortfolioInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
	Currency    string `json:"currency" validate:"required,len=3"`
}

// List returns all portfolios owned by the current user.
func (s *PortfolioService) List(ctx context.Context) ([]Portfolio, error) {
	var out []Portfolio
	if err := s.client.get(ctx, apiPath("portfolios"), nil, &out); err != nil {
		return nil, errors.Wrap(err, "[PortfolioService.List]")
	}
	return out, nil
}

// Get returns a single portfolio by ID.
func (s *PortfolioService) Get(ctx context.Context, id string) (Portfolio, error) {
	var out Portfolio
	if err := s.client.get(ctx, apiPath("portfolios", id), nil, &out); err != nil {
		return Portfolio{}, errors.Wrap(err, "[PortfolioService.Get]")
	}
	return out, nil
}

// Create registers a new portfolio.
func (s *PortfolioService) Create(ctx context.Context, input PortfolioInput) (Portfolio, error) {
	var out Portfolio
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("portfolios"),
		body:   input,
		authed: true,
	}, &out)
	if err != nil {
		return Portfolio{}, errors.Wrap(err, "[PortfolioService.Create]")
	}
	return out, nil
}

// Update replaces a portfolio's mutable fields.
func (s *PortfolioService) Update(ctx context.Context, id string, input PortfolioInput) (Portfolio, error) {
	var out Portfolio
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   apiPath("portfolios", id),
		body:   input,
		authed: true,
	}, &out)
	if err != nil {
		return Portfolio{}, errors.Wrap(err, "[PortfolioService.Update]")
	}
	return out, nil
}

// Delete removes a portfolio and all its transactions.
func (s *PortfolioService) Delete(ctx context.Context, id string) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodDelete,
		path:   apiPath("portfolios", id),
		authed: true,
	}, nil)
	return errors.Wrap(err, "[PortfolioService.Delete]")
}

// ValuationHistory returns the backend-computed valuation curve for the
// portfolio between from and to (inclusive). Zero times leave the bound open.
func (s *PortfolioService) ValuationHistory(ctx context.Context, id string, from, to time.Time) ([]ValuationPoint, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		query.Set("to", to.Format("2006-01-02"))
	}
	var out []ValuationPoint
	if err := s.client.get(ctx, apiPath("portfolios", id, "valuation"), query, &out); err != nil {
		return nil, errors.Wrap(err, "[PortfolioService.ValuationHistory]")
	}
	return out, nil
}
