package bbref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtsource/hooprank/internal/model"
)

// fastOptions keeps the token bucket out of the way in tests.
func fastOptions(baseURL string) Options {
	return Options{
		BaseURL:           baseURL,
		RequestsPerMinute: 60000,
	}
}

func TestFetchPossessionTable(t *testing.T) {
	t.Parallel()

	sample, err := os.ReadFile("testdata/per_poss_sample.html")
	require.NoError(t, err)

	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write(sample)
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.URL))
	rows, err := c.FetchPossessionTable(context.Background(), 2024)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "/leagues/NBA_2024_per_poss.html", gotPath)
	// A browser-looking agent, or the site serves an interstitial.
	assert.Contains(t, gotAgent, "Mozilla")
}

func TestFetchAdvancedTablePath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leagues/NBA_2000_advanced.html", r.URL.Path)
		_, _ = w.Write([]byte(`<table><tbody><tr><td data-stat="player">A Player</td></tr></tbody></table>`))
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.URL))
	rows, err := c.FetchAdvancedTable(context.Background(), 2000)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFetchRetriesOnTooManyRequests(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`<table><tbody><tr><td data-stat="player">A Player</td></tr></tbody></table>`))
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.URL))
	rows, err := c.FetchPossessionTable(context.Background(), 2024)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchGivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	opts := fastOptions(srv.URL)
	opts.MaxRetries = 2
	c := NewClient(opts)

	_, err := c.FetchPossessionTable(context.Background(), 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFetchFailed)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.URL))
	_, err := c.FetchPossessionTable(context.Background(), 1947)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFetchFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchWrapsParseFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>please verify you are human</body></html>"))
	}))
	defer srv.Close()

	c := NewClient(fastOptions(srv.URL))
	_, err := c.FetchPossessionTable(context.Background(), 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFetchFailed)
}

func TestFetchCanceledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(fastOptions(srv.URL))
	_, err := c.FetchPossessionTable(ctx, 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFetchFailed)
}
