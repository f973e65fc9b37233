package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/booking-gateway/internal/observability/metrics"
	"github.com/wolfman30/booking-gateway/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// Response carries an upstream status and raw body so handlers can relay
// the store's reply verbatim.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the upstream status is a 2xx.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// UpstreamError is returned when a decoded read fails upstream. It keeps the
// store's status and body so callers can surface the detail.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	msg := string(e.Body)
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return fmt.Sprintf("postgrest: status %d: %s", e.Status, msg)
}

// Client wraps the hosted store's PostgREST interface. Every request sends
// the configured anon key as the apikey header; the Authorization header is
// the caller's forwarded bearer, falling back to the anon key when the
// caller sent none (row-level security then applies anonymous policies).
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	metrics    *metrics.GatewayMetrics
	logger     *logging.Logger
}

// NewClient constructs a store client. metrics may be nil.
func NewClient(baseURL, anonKey string, m *metrics.GatewayMetrics, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		metrics:    m,
		logger:     logger,
	}
}

// Select performs a read and decodes the row array into out.
func (c *Client) Select(ctx context.Context, table string, q Query, bearer string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, table, q, bearer, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &UpstreamError{Status: resp.Status, Body: resp.Body}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("postgrest: unmarshal %s rows: %w", table, err)
	}
	return nil
}

// Fetch performs a read and returns the raw upstream response for relaying.
func (c *Client) Fetch(ctx context.Context, table string, q Query, bearer string) (Response, error) {
	return c.do(ctx, http.MethodGet, table, q, bearer, nil)
}

// Insert writes a row with Prefer: return=representation, so a successful
// response body is a one-element array holding the created row.
func (c *Client) Insert(ctx context.Context, table string, payload any, bearer string) (Response, error) {
	return c.do(ctx, http.MethodPost, table, NewQuery(), bearer, payload)
}

// Patch applies a partial update to the rows selected by q and returns the
// updated representation.
func (c *Client) Patch(ctx context.Context, table string, q Query, payload any, bearer string) (Response, error) {
	return c.do(ctx, http.MethodPatch, table, q, bearer, payload)
}

func (c *Client) do(ctx context.Context, method, table string, q Query, bearer string, payload any) (Response, error) {
	if c.baseURL == "" {
		return Response{}, fmt.Errorf("postgrest: missing store url")
	}

	endpoint := c.baseURL + "/rest/v1/" + table
	if qs := q.Encode(); qs != "" {
		endpoint += "?" + qs
	}

	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return Response{}, fmt.Errorf("postgrest: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return Response{}, fmt.Errorf("postgrest: build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", c.authorization(bearer))
	req.Header.Set("Accept", "application/json")
	if method == http.MethodGet {
		req.Header.Set("Prefer", "count=none")
	} else {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream(table, method, time.Since(start).Seconds())
	if err != nil {
		return Response{}, fmt.Errorf("postgrest: %s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("postgrest: read response: %w", err)
	}

	c.logger.Debug("store request",
		"method", method,
		"table", table,
		"status", resp.StatusCode,
	)
	return Response{Status: resp.StatusCode, Body: respBody}, nil
}

// ServiceBearer returns the Authorization value for calls made with the
// gateway's own credential rather than a forwarded user token.
func (c *Client) ServiceBearer() string {
	return "Bearer " + c.anonKey
}

func (c *Client) authorization(bearer string) string {
	if strings.TrimSpace(bearer) != "" {
		return bearer
	}
	return c.ServiceBearer()
}
