// Package api is the typed client for the InvestAI REST backend. It owns the
// transport concerns (retries, circuit breaking, bearer injection, the
// refresh-on-401 interceptor) and exposes one service per backend area. The
// heavy lifting (CSV parsing, valuation math, report rendering) happens
// server-side; this package only shapes requests and decodes responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// TokenProvider supplies bearer credentials for authenticated calls. The
// session.Store satisfies this contract.
type TokenProvider interface {
	// AccessToken returns the current access token and whether the session
	// is authenticated.
	AccessToken() (string, bool)
	// RefreshAccessToken rotates the token pair; on unrecoverable failure
	// the provider degrades to the unauthenticated state.
	RefreshAccessToken(ctx context.Context)
}

// Config tunes the client's transport behaviour.
type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultConfig returns sensible defaults for the API client.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: time.Second,
		RetryWaitMax: 5 * time.Second,
	}
}

// Client is the shared HTTP plumbing under every service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	auth       TokenProvider
	config     Config
}

// Option configures a Client.
type Option func(*Client)

// WithTokenProvider attaches the session credentials used for authenticated
// endpoints and for the automatic refresh-and-retry on 401.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.auth = tp }
}

// SetTokenProvider attaches the provider after construction. The session
// store needs the client's auth service to exist first, so main builds the
// client, then the store, then closes the loop here.
func (c *Client) SetTokenProvider(tp TokenProvider) { c.auth = tp }

// WithHTTPClient replaces the underlying *http.Client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithConfig replaces the transport tuning.
func WithConfig(cfg Config) Option {
	return func(c *Client) { c.config = cfg }
}

// NewClient creates an API client rooted at the given base URL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[NewClient] base URL is required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		config:  DefaultConfig(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.config.Timeout}
	}

	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:     "investai-api",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("api: circuit breaker state change")
		},
	})
	return c, nil
}

// Auth returns the auth service bound to this client.
func (c *Client) Auth() *AuthService { return &AuthService{client: c} }

// Portfolios returns the portfolio service bound to this client.
func (c *Client) Portfolios() *PortfolioService { return &PortfolioService{client: c} }

// Transactions returns the transaction service bound to this client.
func (c *Client) Transactions() *TransactionService { return &TransactionService{client: c} }

// Analytics returns the analytics service bound to this client.
func (c *Client) Analytics() *AnalyticsService { return &AnalyticsService{client: c} }

// Notifications returns the notification service bound to this client.
func (c *Client) Notifications() *NotificationService { return &NotificationService{client: c} }

// Reports returns the report service bound to this client.
func (c *Client) Reports() *ReportService { return &ReportService{client: c} }

// Admin returns the admin service bound to this client.
func (c *Client) Admin() *AdminService { return &AdminService{client: c} }

// envelope is the backend's JSON response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorBody      `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestSpec describes one API call.
type requestSpec struct {
	method string
	path   string
	query  url.Values

	body        any       // JSON-marshalled when set
	rawBody     []byte    // used verbatim when set (multipart uploads)
	contentType string    // required with rawBody
	headers     http.Header

	authed      bool   // inject bearer token, run the 401 interceptor
	bearerToken string // explicit token, bypasses the provider
}

// get is a shorthand for an authenticated GET.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, requestSpec{method: http.MethodGet, path: path, query: query, authed: true}, out)
}

// do performs the call and decodes the envelope's data into out (when out is
// non-nil). API-level failures come back as *Error.
func (c *Client) do(ctx context.Context, spec requestSpec, out any) error {
	resp, err := c.send(ctx, spec)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if spec.authed && resp.StatusCode == http.StatusUnauthorized && c.auth != nil && spec.bearerToken == "" {
		// The access token the provider handed us was stale. Ask the
		// session to rotate the pair, then replay the request exactly once.
		// If the refresh degraded the session to anonymous there is no
		// token to retry with, and the 401 stands.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.auth.RefreshAccessToken(ctx)
		if _, ok := c.auth.AccessToken(); !ok {
			return &Error{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "session expired"}
		}
		resp, err = c.send(ctx, spec)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
	}

	return decodeEnvelope(resp, out)
}

// send runs one request with retries, through the circuit breaker.
func (c *Client) send(ctx context.Context, spec requestSpec) (*http.Response, error) {
	payload, contentType, err := spec.payload()
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.config.RetryWaitMin * time.Duration(1<<uint(attempt-1))
			if wait > c.config.RetryWaitMax {
				wait = c.config.RetryWaitMax
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := c.newRequest(ctx, spec, payload, contentType)
		if err != nil {
			return nil, err
		}

		resp, err = c.breaker.Execute(func() (*http.Response, error) {
			return c.httpClient.Do(req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, errors.Wrap(err, "[Client.send] circuit breaker")
			}
			if isRetryable(err) && attempt < c.config.MaxRetries {
				continue
			}
			return nil, errors.Wrapf(err, "[Client.send] request failed after %d attempts", attempt+1)
		}

		// Retry on 5xx (except 501), matching the backend's own idempotency
		// guarantees for these endpoints.
		if resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented && attempt < c.config.MaxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}
		return resp, nil
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, spec requestSpec, payload []byte, contentType string) (*http.Request, error) {
	u := c.baseURL + spec.path
	if len(spec.query) > 0 {
		u += "?" + spec.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, spec.method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.newRequest] build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range spec.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	switch {
	case spec.bearerToken != "":
		req.Header.Set("Authorization", "Bearer "+spec.bearerToken)
	case spec.authed:
		token, ok := "", false
		if c.auth != nil {
			token, ok = c.auth.AccessToken()
		}
		if !ok {
			return nil, &Error{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "not authenticated"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (spec requestSpec) payload() ([]byte, string, error) {
	if spec.rawBody != nil {
		return spec.rawBody, spec.contentType, nil
	}
	if spec.body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(spec.body)
	if err != nil {
		return nil, "", errors.Wrap(err, "[Client] marshal request body")
	}
	return data, "application/json; charset=utf-8", nil
}

func decodeEnvelope(resp *http.Response, out any) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return errors.Wrap(err, "[Client] read response")
	}

	var env envelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil && resp.StatusCode < 400 {
			return errors.Wrap(err, "[Client] decode response envelope")
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			if env.Error.Code != "" {
				apiErr.Code = env.Error.Code
			}
			if env.Error.Message != "" {
				apiErr.Message = env.Error.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if env.Data == nil {
		return errors.New("[Client] response envelope has no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "[Client] decode response data")
	}
	return nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// apiPath joins path segments under the versioned API prefix.
func apiPath(segments ...string) string {
	return "/api/v1/" + strings.Join(segments, "/")
}
