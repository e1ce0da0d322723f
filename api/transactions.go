package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TransactionService manages the transaction log of a portfolio.
type TransactionService struct {
	client *Client
}

// TransactionType classifies a logged operation.
type TransactionType string

const (
	TransactionBuy        TransactionType = "buy"
	TransactionSell       TransactionType = "sell"
	TransactionDividend   TransactionType = "dividend"
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
	TransactionFee        TransactionType = "fee"
)

// Transaction is one logged operation.
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolio_id"`
	Type        TransactionType `json:"type"`
	Symbol      string          `json:"symbol"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Fee         decimal.Decimal `json:"fee"`
	Currency    string          `json:"currency"`
	ExecutedAt  time.Time       `json:"executed_at"`
	Note        string          `json:"note,omitempty"`
}

// TransactionInput is the payload for creating or updating a transaction.
type TransactionInput struct {
	PortfolioID string          `json:"portfolio_id" validate:"required"`
	Type        TransactionType `json:"type" validate:"required,oneof=buy sell dividend deposit withdrawal fee"`
	Symbol      string          `json:"symbol" validate:"required_unless=Type deposit Type withdrawal"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Fee         decimal.Decimal `json:"fee"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	ExecutedAt  time.Time       `json:"executed_at"`
	Note        string          `json:"note" validate:"max=500"`
}

// ListOptions filter and paginate a transaction listing.
type ListOptions struct {
	PortfolioID string
	Type        TransactionType
	From        time.Time
	To          time.Time
	Page        int
	PerPage     int
}

// TransactionPage is one page of transactions.
type TransactionPage struct {
	Items   []Transaction `json:"items"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// ImportResult summarises a CSV import run. Platform detection (which broker
// exported the file) happens server-side; the client just reports it.
type ImportResult struct {
	Platform string   `json:"platform"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// List returns a page of transactions matching the options.
func (s *TransactionService) List(ctx context.Context, opts ListOptions) (TransactionPage, error) {
	query := url.Values{}
	if opts.PortfolioID != "" {
		query.Set("portfolio_id", opts.PortfolioID)
	}
	if opts.Type != "" {
		query.Set("type", string(opts.Type))
	}
	if !opts.From.IsZero() {
		query.Set("from", opts.From.Format("2006-01-02"))
	}
	if !opts.To.IsZero() {
		query.Set("to", opts.To.Format("2006-01-02"))
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	var out TransactionPage
	if err := s.client.get(ctx, apiPath("transactions"), query, &out); err != nil {
		return TransactionPage{}, errors.Wrap(err, "[TransactionService.List]")
	}
	return out, nil
}

// Create logs a new transaction.
func (s *TransactionService) Create(ctx context.Context, input TransactionInput) (Transaction, error) {
	var out Transaction
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("transactions"),
		body:   input,
		authed: true,
	}, &out)
	if err != nil {
		return Transaction{}, errors.Wrap(err, "[TransactionService.Create]")
	}
	return out, nil
}

// Update replaces a transaction's fields.
func (s *TransactionService) Update(ctx context.Context, id string, input TransactionInput) (Transaction, error) {
	var out Transaction
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   apiPath("transactions", id),
		body:   input,
		authed: true,
	}, &out)
	if err != nil {
		return Transaction{}, errors.Wrap(err, "[TransactionService.Update]")
	}
	return out, nil
}

// Delete removes a transaction.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodDelete,
		path:   apiPath("transactions", id),
		authed: true,
	}, nil)
	return errors.Wrap(err, "[TransactionService.Delete]")
}

// ImportCSV uploads a broker CSV export for the given portfolio. The backend
// auto-detects the exporting platform and parses accordingly. Each upload
// carries a fresh idempotency key so a retried request cannot double-import.
func (s *TransactionService) ImportCSV(ctx context.Context, portfolioID, filename string, csv io.Reader) (ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("portfolio_id", portfolioID); err != nil {
		return ImportResult{}, errors.Wrap(err, "[TransactionService.ImportCSV] write field")
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return ImportResult{}, errors.Wrap(err, "[TransactionService.ImportCSV] create form file")
	}
	if _, err := io.Copy(part, csv); err != nil {
		return ImportResult{}, errors.Wrap(err, "[TransactionService.ImportCSV] copy file")
	}
	if err := mw.Close(); err != nil {
		return ImportResult{}, errors.Wrap(err, "[TransactionService.ImportCSV] close multipart")
	}

	headers := http.Header{}
	headers.Set("Idempotency-Key", uuid.New().String())

	var out ImportResult
	err = s.client.do(ctx, requestSpec{
		method:      http.MethodPost,
		path:        apiPath("transactions", "import"),
		rawBody:     buf.Bytes(),
		contentType: mw.FormDataContentType(),
		headers:     headers,
		authed:      true,
	}, &out)
	if err != nil {
		return ImportResult{}, errors.Wrap(err, "[TransactionService.ImportCSV]")
	}
	return out, nil
}
