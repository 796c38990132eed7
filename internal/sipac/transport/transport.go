// Package transport wraps outbound SIPAC calls in a rate limiter and
// attaches the required auth headers. Two variants exist: the token
// API client (bearer token + API key, token-bucket window) and the
// scraping gateway client (no auth, fixed spacing between dispatches).
// Failures are never retried here; they propagate to the caller.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/time/rate"

	"sipacmirror/internal/config"
)

// TokenSource yields a valid bearer token for the data API variant.
type TokenSource interface {
	EnsureValidToken(ctx context.Context) (string, error)
}

// StatusError is returned for any non-2xx response. The body is kept
// for the caller and logged at dispatch site.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d", e.Status)
}

// Options carries per-call overrides. Large-range syncs override the
// default timeout with a much larger one.
type Options struct {
	Timeout time.Duration
}

type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	apiKey  string
	baseURL string
	timeout time.Duration
	log     *slog.Logger
}

// NewAPIClient builds the throttled client for the token-based data
// API: a sliding window of RequestsPerHour calls per 60-minute
// interval, bearer token via the token manager and a static API key.
func NewAPIClient(cfg config.SIPAC, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		http:    newHTTPClient(cfg.MaxRedirects),
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerHour)/3600.0), cfg.RequestsPerHour),
		tokens:  tokens,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		timeout: cfg.HTTPTimeout,
		log:     log.With("component", "sipac_transport"),
	}
}

// NewScrapeClient builds the throttled client for the scraping gateway:
// no auth, one request per computed interval with a 1% safety margin
// over the hourly budget.
func NewScrapeClient(cfg config.SIPAC, log *slog.Logger) *Client {
	spacing := spacingFor(cfg.ScrapeRequestsPerHour)
	return &Client{
		http:    newHTTPClient(cfg.MaxRedirects),
		limiter: rate.NewLimiter(rate.Every(spacing), 1),
		baseURL: cfg.ScrapeURL,
		timeout: cfg.HTTPTimeout,
		log:     log.With("component", "sipac_scrape_transport"),
	}
}

// spacingFor converts an hourly budget into the minimum gap between
// dispatches: ceil(3600/requestsPerHour*1000*1.01) milliseconds.
func spacingFor(requestsPerHour int) time.Duration {
	ms := math.Ceil(3600.0 / float64(requestsPerHour) * 1000.0 * 1.01)
	return time.Duration(ms) * time.Millisecond
}

func newHTTPClient(maxRedirects int) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// Get dispatches a throttled GET and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, params url.Values, headers http.Header, opts *Options) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, path, params, headers, opts)
}

// Request waits for a throttle slot, attaches headers and dispatches.
// Accept is always application/json; the bearer token and API key are
// injected for the data API variant; caller headers are merged last and
// win. Transport errors and non-2xx responses are logged and returned
// unchanged — callers decide whether to record or propagate.
func (c *Client) Request(ctx context.Context, method, path string, params url.Values, headers http.Header, opts *Options) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttle wait: %w", err)
	}

	timeout := c.timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rawURL := c.baseURL + path
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		tok, err := c.tokens.EnsureValidToken(ctx)
		if err != nil {
			// Never send the call unauthenticated; fail it instead.
			return nil, fmt.Errorf("request %s %s: %w", method, path, err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	for key, values := range headers {
		req.Header[key] = values
	}

	c.log.Debug("dispatching request", "method", method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("request failed", "method", method, "url", rawURL, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("request returned error status",
			"method", method,
			"url", rawURL,
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}
