package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// ReportService triggers backend report generation and downloads the result.
// Rendering (PDF layout, spreadsheet formulas, tax rules) is entirely
// server-side; the client streams bytes.
type ReportService struct {
	client *Client
}

// ReportFormat selects the document format of a generated report.
type ReportFormat string

const (
	FormatPDF   ReportFormat = "pdf"
	FormatExcel ReportFormat = "xlsx"
)

// TaxReportRequest describes a tax report to generate.
type TaxReportRequest struct {
	Year        int
	Format      ReportFormat
	PortfolioID string // empty aggregates all portfolios
}

// TaxReportSummary is the backend's précis of a tax year, suitable for
// on-screen display before (or instead of) a full download.
type TaxReportSummary struct {
	Year          int    `json:"year"`
	RealizedGains string `json:"realized_gains"`
	Dividends     string `json:"dividends"`
	Fees          string `json:"fees"`
	Currency      string `json:"currency"`
	Markdown      string `json:"markdown"` // human-readable report body
}

// TaxSummary fetches the on-screen summary for a tax year.
func (s *ReportService) TaxSummary(ctx context.Context, req TaxReportRequest) (TaxReportSummary, error) {
	query := reportQuery(req)
	var out TaxReportSummary
	if err := s.client.get(ctx, apiPath("reports", "tax", "summary"), query, &out); err != nil {
		return TaxReportSummary{}, errors.Wrap(err, "[ReportService.TaxSummary]")
	}
	return out, nil
}

// DownloadTaxReport generates the document and streams it into w, returning
// the number of bytes written.
func (s *ReportService) DownloadTaxReport(ctx context.Context, req TaxReportRequest, w io.Writer) (int64, error) {
	resp, err := s.client.send(ctx, requestSpec{
		method: http.MethodGet,
		path:   apiPath("reports", "tax", "download"),
		query:  reportQuery(req),
		authed: true,
	})
	if err != nil {
		return 0, errors.Wrap(err, "[ReportService.DownloadTaxReport]")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Error responses come back as the JSON envelope even on the
		// download endpoint.
		return 0, errors.Wrap(decodeEnvelope(resp, nil), "[ReportService.DownloadTaxReport]")
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, errors.Wrap(err, "[ReportService.DownloadTaxReport] stream body")
	}
	return n, nil
}

func reportQuery(req TaxReportRequest) url.Values {
	query := url.Values{}
	if req.Year > 0 {
		query.Set("year", strconv.Itoa(req.Year))
	}
	if req.Format != "" {
		query.Set("format", string(req.Format))
	}
	if req.PortfolioID != "" {
		query.Set("portfolio_id", req.PortfolioID)
	}
	return query
}
