package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workua-scraper/internal/config"
	"workua-scraper/internal/observability"
)

func testFetcher(t *testing.T, mutate func(*config.Config)) *Fetcher {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.RPS = 1000
	cfg.RateLimit.Burst = 10
	if mutate != nil {
		mutate(cfg)
	}
	return NewFetcher(cfg, observability.Nop())
}

func TestFetchPlain(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("pngdata"))
	}))
	defer srv.Close()

	f := testFetcher(t, nil)
	resp, err := f.Fetch(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)

	assert.Equal(t, []byte("pngdata"), resp.Body)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, config.Default().HTTP.UserAgent, gotUA)
}

func TestFetchGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte("compressed image"))
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	resp, err := testFetcher(t, nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "compressed image", string(resp.Body))
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testFetcher(t, nil).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestFetchBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{'x'}, 2<<20))
	}))
	defer srv.Close()

	f := testFetcher(t, func(cfg *config.Config) { cfg.HTTP.MaxBodyMB = 1 })
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	f := testFetcher(t, func(cfg *config.Config) { cfg.HTTP.TotalTimeoutMS = 50 })
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestHostLimiter(t *testing.T) {
	hl := NewHostLimiter(20, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, hl.Wait(ctx, "https://example.com/img.jpg"))
	}
	// burst 1 при 20 rps: второй и третий ждут ~50ms каждый
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)

	// другой хост не ждёт очереди первого
	start = time.Now()
	require.NoError(t, hl.Wait(ctx, "https://other.example.com/img.jpg"))
	assert.Less(t, time.Since(start), 40*time.Millisecond)
}

func TestHostLimiterCancelled(t *testing.T) {
	hl := NewHostLimiter(0.1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, hl.Wait(ctx, "https://example.com"))
	cancel()
	assert.Error(t, hl.Wait(ctx, "https://example.com"))
}
