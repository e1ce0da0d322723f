package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/investai/investai-go/api"
)

type authedTestClient struct{}

func (authedTestClient) AccessToken() (string, bool)            { return "access123", true }
func (authedTestClient) RefreshAccessToken(ctx context.Context) {}

func newTxTestClient(t *testing.T, srv *httptest.Server) *api.Client {
	t.Helper()
	c, err := api.NewClient(srv.URL,
		api.WithTokenProvider(authedTestClient{}),
		api.WithConfig(api.Config{
			Timeout:      5 * time.Second,
			MaxRetries:   0,
			RetryWaitMin: time.Millisecond,
			RetryWaitMax: time.Millisecond,
		}))
	require.NoError(t, err)
	return c
}

func TestTransactionService_ListBuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/transactions", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "pf-1", q.Get("portfolio_id"))
		require.Equal(t, "buy", q.Get("type"))
		require.Equal(t, "2025-01-01", q.Get("from"))
		require.Equal(t, "2", q.Get("page"))
		w.Write([]byte(`{"data":{"items":[
			{"id":"tx-1","portfolio_id":"pf-1","type":"buy","symbol":"NVDA",
			 "quantity":"2.5","unit_price":"120.40","currency":"USD"}
		],"total":41,"page":2,"per_page":20}}`))
	}))
	defer srv.Close()

	page, err := newTxTestClient(t, srv).Transactions().List(context.Background(), api.ListOptions{
		PortfolioID: "pf-1",
		Type:        api.TransactionBuy,
		From:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Page:        2,
		PerPage:     20,
	})

	require.NoError(t, err)
	require.Equal(t, 41, page.Total)
	require.Len(t, page.Items, 1)
	tx := page.Items[0]
	require.Equal(t, api.TransactionBuy, tx.Type)
	require.True(t, tx.Quantity.Equal(decimal.RequireFromString("2.5")))
	require.True(t, tx.UnitPrice.Equal(decimal.RequireFromString("120.40")))
}

func TestTransactionService_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/transactions", r.URL.Path)
		require.Equal(t, "Bearer access123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":"tx-9","portfolio_id":"pf-1","type":"sell","symbol":"NVDA",
			"quantity":"1","unit_price":"131.00","currency":"USD"}}`))
	}))
	defer srv.Close()

	tx, err := newTxTestClient(t, srv).Transactions().Create(context.Background(), api.TransactionInput{
		PortfolioID: "pf-1",
		Type:        api.TransactionSell,
		Symbol:      "NVDA",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.RequireFromString("131.00"),
		Currency:    "USD",
	})

	require.NoError(t, err)
	require.Equal(t, "tx-9", tx.ID)
}

// TestTransactionService_ImportCSV checks the multipart upload shape and the
// per-request idempotency key.
func TestTransactionService_ImportCSV(t *testing.T) {
	csv := "date,symbol,quantity,price\n2025-03-01,NVDA,2,115.20\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/transactions/import", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "pf-1", r.FormValue("portfolio_id"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "export.csv", header.Filename)

		w.Write([]byte(`{"data":{"platform":"degiro","imported":1,"skipped":0}}`))
	}))
	defer srv.Close()

	result, err := newTxTestClient(t, srv).Transactions().ImportCSV(
		context.Background(), "pf-1", "export.csv", strings.NewReader(csv))

	require.NoError(t, err)
	require.Equal(t, "degiro", result.Platform)
	require.Equal(t, 1, result.Imported)
}

func TestTransactionService_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/v1/transactions/tx-9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTxTestClient(t, srv).Transactions().Delete(context.Background(), "tx-9")
	require.NoError(t, err)
}
