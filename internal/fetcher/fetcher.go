package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"workua-scraper/internal/config"
	"workua-scraper/internal/observability"
)

var (
	ErrBadStatus    = errors.New("unexpected HTTP status")
	ErrBodyTooLarge = errors.New("response body exceeds limit")
)

// Fetcher скачивает картинки по прямым ссылкам. Без повторов: неудачная
// загрузка просто пропускается вызывающим кодом.
type Fetcher struct {
	client      *http.Client
	cfg         *config.Config
	logger      *observability.Logger
	rateLimiter *HostLimiter
}

type FetchResponse struct {
	StatusCode  int
	Body        []byte
	URL         string
	ContentType string
}

func NewFetcher(cfg *config.Config, logger *observability.Logger) *Fetcher {
	client := &http.Client{
		Timeout: cfg.GetTotalTimeout(),
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			// сами разбираем gzip, чтобы видеть Content-Encoding
			DisableCompression: true,
		},
	}

	return &Fetcher{
		client:      client,
		cfg:         cfg,
		logger:      logger,
		rateLimiter: NewHostLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}
}

// Fetch делает один GET. Не-2xx — ошибка ErrBadStatus.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*FetchResponse, error) {
	if err := f.rateLimiter.Wait(ctx, urlStr); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.HTTP.UserAgent)
	req.Header.Set("Accept-Language", f.cfg.HTTP.AcceptLanguage)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Accept", "image/avif,image/webp,image/png,image/jpeg,image/*;q=0.8,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger.Warn("Failed to close response body", "url", urlStr, "error", err.Error())
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip body: %w", err)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	limit := f.cfg.GetMaxBodyBytes()
	body, err := io.ReadAll(io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, limit)
	}

	f.logger.Debug("Image fetched",
		"url", urlStr,
		"status", resp.StatusCode,
		"content_encoding", resp.Header.Get("Content-Encoding"),
		"content_type", resp.Header.Get("Content-Type"),
		"bytes", len(body),
	)

	return &FetchResponse{
		StatusCode:  resp.StatusCode,
		Body:        body,
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
