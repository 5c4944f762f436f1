package app

import (
	"context"
	"fmt"
	"time"

	"workua-scraper/internal/checksum"
	"workua-scraper/internal/config"
	"workua-scraper/internal/normalize"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
	"workua-scraper/internal/storage"
	"workua-scraper/internal/storage/mssql"
	"workua-scraper/internal/storage/sqlite"
)

// OpenRepository открывает хранилище истории по storage.driver.
// Для "none" возвращает nil без ошибки.
func OpenRepository(cfg *config.Config, logger *observability.Logger) (storage.Repository, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.Storage.DSN, cfg.Storage.CommandTimeoutMS, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mssql":
		repo, err := mssql.NewRepository(cfg.Storage.DSN, cfg.Storage.CommandTimeoutMS, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// History пишет принятые вакансии в хранилище
type History struct {
	repo   storage.Repository
	keys   *checksum.Generator
	logger *observability.Logger
	now    func() time.Time
}

func NewHistory(repo storage.Repository, logger *observability.Logger) *History {
	return &History{
		repo:   repo,
		keys:   checksum.NewGenerator(),
		logger: logger,
		now:    time.Now,
	}
}

type HistoryStats struct {
	Saved  int
	New    int
	Failed int
	Total  int
}

// Record сохраняет вакансии; ошибка одной записи не останавливает остальные
func (h *History) Record(ctx context.Context, q JobQuery, listings []scraper.JobListing) (*HistoryStats, error) {
	stats := &HistoryStats{}
	seenAt := h.now()

	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec := &storage.ListingRecord{
			Key:         h.keys.ListingKey(l.Link, l.Title, l.Company),
			Title:       l.Title,
			Company:     l.Company,
			Salary:      l.Salary,
			SalaryValue: normalize.ParseSalary(l.Salary),
			City:        l.City,
			Published:   l.Published,
			Link:        l.Link,
			Page:        l.Page,
			Query:       q.Label(),
			SeenAt:      seenAt,
		}
		if t, err := scraper.ParseTextDate(l.Published); err == nil {
			rec.PublishedAt = t
		}

		isNew, err := h.repo.UpsertListing(ctx, rec)
		if err != nil {
			stats.Failed++
			h.logger.Warn("Failed to save listing",
				"title", l.Title,
				"link", l.Link,
				"error", err.Error(),
			)
			continue
		}

		stats.Saved++
		if isNew {
			stats.New++
		}
	}

	total, err := h.repo.CountListings(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count listings: %w", err)
	}
	stats.Total = total

	h.logger.Info("History updated",
		"saved", stats.Saved,
		"new", stats.New,
		"failed", stats.Failed,
		"total", stats.Total,
	)
	return stats, nil
}
