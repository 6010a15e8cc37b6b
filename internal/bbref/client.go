// Package bbref fetches and parses basketball-reference.com season stat
// tables. It owns all network and HTML concerns; the rest of the system
// only ever sees already-tabular rows.
package bbref

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/courtsource/hooprank/internal/model"
)

const defaultBaseURL = "https://www.basketball-reference.com"

// Options configures the client.
type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
}

// Client is a rate-limited HTTP client for basketball-reference season
// pages. The site throttles aggressively, so requests go through a token
// bucket and 429/5xx responses retry with exponential backoff.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient creates a Client with the given options.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		// The site serves bot-looking agents an interstitial.
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.RequestsPerMinute == 0 {
		opts.RequestsPerMinute = 20
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1),
	}
}

// FetchPossessionTable fetches and parses the per-100-possessions table
// for a season. The season is the ending year (2024 = 2023-24).
func (c *Client) FetchPossessionTable(ctx context.Context, season int) ([]model.RawRow, error) {
	return c.fetchTable(ctx, season, fmt.Sprintf("/leagues/NBA_%d_per_poss.html", season))
}

// FetchAdvancedTable fetches and parses the advanced stats table for a
// season.
func (c *Client) FetchAdvancedTable(ctx context.Context, season int) ([]model.RawRow, error) {
	return c.fetchTable(ctx, season, fmt.Sprintf("/leagues/NBA_%d_advanced.html", season))
}

func (c *Client) fetchTable(ctx context.Context, season int, path string) ([]model.RawRow, error) {
	body, err := c.get(ctx, c.baseURL+path)
	if err != nil {
		return nil, eris.Wrapf(model.ErrFetchFailed, "%d season: %v", season, err)
	}
	defer body.Close()

	rows, err := ParseStatsTable(body)
	if err != nil {
		return nil, eris.Wrapf(model.ErrFetchFailed, "%d season: parse %s: %v", season, path, err)
	}
	zap.L().Debug("fetched season table",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := range c.maxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "create request")
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			zap.L().Warn("request failed, retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http %d from %s", resp.StatusCode, url)
			zap.L().Warn("retryable status, backing off",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		default:
			_ = resp.Body.Close()
			return nil, eris.Errorf("http %d from %s", resp.StatusCode, url)
		}
	}
	return nil, eris.Wrapf(lastErr, "giving up after %d attempts", c.maxRetries)
}

// backoff sleeps 1s, 2s, 4s... with jitter, honoring context cancellation.
func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(math.Pow(2, float64(attempt))) * time.Second
	d += time.Duration(rand.Int64N(int64(500 * time.Millisecond)))
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
