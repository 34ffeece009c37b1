// Package adapters implements the HTTP transport shared by authority clients.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/pkg/platform/circuit"
)

//go:generate mockgen -source=http.go -destination=mocks/mock_http_doer.go -package=mocks HTTPDoer

// HTTPDoer is the part of *http.Client the adapter needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseBytes bounds authority payloads.
const maxResponseBytes = 1 << 20

type Config struct {
	// Authority names the remote authority in errors and logs.
	Authority  string
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	// Breaker is optional. When set, calls are rejected with a
	// circuit_open error while it is open.
	Breaker *circuit.Breaker
}

type Client struct {
	authority string
	baseURL   string
	apiKey    string
	doer      HTTPDoer
	breaker   *circuit.Breaker
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		authority: cfg.Authority,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		doer:      doer,
		breaker:   cfg.Breaker,
	}
}

func (c *Client) Authority() string {
	return c.authority
}

// GetJSON issues GET baseURL+path?query and decodes a 200 body into out.
// Every failure is returned as an *authorities.Error.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if c.breaker != nil && !c.breaker.Allow() {
		return authorities.NewError(authorities.ErrorCircuitOpen, c.authority, "circuit open", nil)
	}
	err := c.getJSON(ctx, path, query, out)
	c.record(err)
	return err
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return authorities.NewError(authorities.ErrorInternal, c.authority, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.transportError(ctx, err)
	}

	if err := c.statusError(resp.StatusCode); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return authorities.NewError(authorities.ErrorBadData, c.authority, "decode response", err)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return authorities.NewError(authorities.ErrorCanceled, c.authority, "request canceled", err)
	case errors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		return authorities.NewError(authorities.ErrorTimeout, c.authority, "request timeout", err)
	default:
		return authorities.NewError(authorities.ErrorAuthorityOutage, c.authority, "request failed", err)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func (c *Client) statusError(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return authorities.NewError(authorities.ErrorAuthentication, c.authority, fmt.Sprintf("authentication failed: %d", status), nil)
	case status == http.StatusNotFound:
		return authorities.NewError(authorities.ErrorNotFound, c.authority, "record not found", nil)
	case status == http.StatusTooManyRequests:
		return authorities.NewError(authorities.ErrorRateLimited, c.authority, "rate limit exceeded", nil)
	case status == http.StatusGatewayTimeout:
		return authorities.NewError(authorities.ErrorTimeout, c.authority, "upstream timeout", nil)
	case status >= 500:
		return authorities.NewError(authorities.ErrorAuthorityOutage, c.authority, fmt.Sprintf("authority unavailable: %d", status), nil)
	default:
		return authorities.NewError(authorities.ErrorContractMismatch, c.authority, fmt.Sprintf("unexpected status: %d", status), nil)
	}
}

// record feeds the breaker. Transient failures count against the authority;
// answers that prove it is up, such as not found or bad data, count as
// successes. A canceled call got no answer and only releases its slot.
func (c *Client) record(err error) {
	if c.breaker == nil {
		return
	}
	switch {
	case authorities.CategoryOf(err) == authorities.ErrorCanceled:
		c.breaker.Abort()
	case authorities.IsTransient(err):
		c.breaker.RecordFailure()
	default:
		c.breaker.RecordSuccess()
	}
}

// Health calls GET /health on the authority.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return authorities.NewError(authorities.ErrorAuthorityOutage, c.authority, "health check failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return authorities.NewError(authorities.ErrorAuthorityOutage, c.authority, fmt.Sprintf("unhealthy status: %d", resp.StatusCode), nil)
	}
	return nil
}
