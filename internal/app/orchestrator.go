package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"workua-scraper/internal/config"
	"workua-scraper/internal/filter"
	"workua-scraper/internal/normalize"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
	"workua-scraper/internal/snapshot"
)

// JobNavigator — то, что нужно от браузера для обхода выдачи work.ua
type JobNavigator interface {
	Open(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	ClickNext(ctx context.Context, selector, text string, timeout time.Duration) error
	ScrollToBottom(ctx context.Context, times int, pause time.Duration) error
	HTML(ctx context.Context) (string, error)
}

// SleepFunc ждёт d или отмены контекста
type SleepFunc func(ctx context.Context, d time.Duration) error

type Orchestrator struct {
	cfg       *config.Config
	logger    *observability.Logger
	nav       JobNavigator
	scraper   *scraper.Scraper
	snapshots *snapshot.Store
	out       io.Writer
	sleep     SleepFunc
}

func NewOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	nav JobNavigator,
	s *scraper.Scraper,
	snapshots *snapshot.Store,
	out io.Writer,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		logger:    logger,
		nav:       nav,
		scraper:   s,
		snapshots: snapshots,
		out:       out,
		sleep:     Sleep,
	}
}

// WithSleep подменяет ожидание между страницами (в тестах — без пауз)
func (o *Orchestrator) WithSleep(sleep SleepFunc) *Orchestrator {
	o.sleep = sleep
	return o
}

type PaginationStats struct {
	MaxPages      int
	TotalPages    int
	TotalCards    int
	Accepted      int
	Rejected      int
	StoppedReason string
}

// Run обходит страницы выдачи и возвращает подходящие вакансии в порядке обхода.
// Ошибка возвращается только если не открылась первая страница или отменён контекст;
// остальные сбои завершают пагинацию, собранное остаётся.
func (o *Orchestrator) Run(ctx context.Context, q JobQuery) ([]scraper.JobListing, *PaginationStats, error) {
	jobFilter, err := filter.NewJobFilter(q.Vacancy, q.City)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid vacancy: %w", err)
	}

	sel := o.scraper.Selectors()
	waitTimeout := o.cfg.GetWaitTimeout()
	baseURL := SearchURL(o.cfg.Jobs.BaseURL, q)
	stats := &PaginationStats{MaxPages: q.Pages}

	opened := false
	if q.AllPages() {
		if err := o.nav.Open(ctx, baseURL); err != nil {
			stats.StoppedReason = "initial navigation failed"
			return nil, stats, fmt.Errorf("failed to open search page: %w", err)
		}
		opened = true
		stats.MaxPages = o.detectLastPage(ctx, sel, waitTimeout)
	}

	o.logger.Info("Starting pagination",
		"vacancy", q.Vacancy,
		"city", q.City,
		"base_url", baseURL,
		"max_pages", stats.MaxPages,
		"pattern", jobFilter.Pattern(),
	)

	var accepted []scraper.JobListing

	for page := 1; page <= stats.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			stats.StoppedReason = "cancelled"
			return accepted, stats, err
		}

		if page == 1 {
			if !opened {
				if err := o.nav.Open(ctx, baseURL); err != nil {
					stats.StoppedReason = "initial navigation failed"
					return nil, stats, fmt.Errorf("failed to open search page: %w", err)
				}
			}
		} else if err := o.nav.ClickNext(ctx, sel.NextPageLink, sel.NextPageText, waitTimeout); err != nil {
			o.logger.Error("Failed to navigate to page",
				"page", page,
				"error", err.Error(),
			)
			o.saveErrorSnapshot(ctx, page)
			stats.StoppedReason = fmt.Sprintf("navigation failed at page %d", page)
			break
		}

		if err := o.nav.WaitFor(ctx, sel.PJAXContainer, waitTimeout); err != nil {
			o.logger.Warn("PJAX container not found",
				"page", page,
				"error", err.Error(),
			)
			o.saveErrorSnapshot(ctx, page)
		}

		if err := o.nav.WaitFor(ctx, sel.CardSelectors, waitTimeout); err != nil {
			o.logger.Warn("Listings not found on page",
				"page", page,
				"error", err.Error(),
			)
			o.saveErrorSnapshot(ctx, page)
			stats.StoppedReason = fmt.Sprintf("listings not present at page %d", page)
			break
		}

		if err := o.nav.ScrollToBottom(ctx, 1, 0); err != nil {
			o.logger.Warn("Scroll failed", "page", page, "error", err.Error())
		}
		if err := o.randomPause(ctx); err != nil {
			stats.StoppedReason = "cancelled"
			return accepted, stats, err
		}

		html, err := o.nav.HTML(ctx)
		if err != nil {
			o.logger.Error("Failed to read page HTML", "page", page, "error", err.Error())
			stats.StoppedReason = fmt.Sprintf("page HTML unavailable at page %d", page)
			break
		}

		listings, err := o.scraper.ParseListing(html)
		if err != nil {
			fmt.Fprintf(o.out, "❌ Вакансій на сторінці %d не знайдено, зупиняємось.\n", page)
			o.logger.Info("No listings parsed", "page", page, "error", err.Error())
			o.saveSnapshot(page, html, true)
			if msg := o.scraper.NoResultsMessage(html); msg != "" {
				o.logger.Info("Page states no results", "page", page, "message", msg)
			}
			stats.StoppedReason = fmt.Sprintf("no listings at page %d", page)
			break
		}

		o.logger.Info("Listings found", "page", page, "count", len(listings))
		if o.cfg.Jobs.DebugSnapshots {
			o.saveSnapshot(page, html, false)
		}

		stats.TotalPages++
		stats.TotalCards += len(listings)

		for _, listing := range listings {
			listing.Page = page
			o.logCard(listing)

			ok, reason := jobFilter.Accept(listing)
			if !ok {
				stats.Rejected++
				o.logger.Info("Listing filtered out",
					"page", page,
					"title", listing.Title,
					"reason", reason,
				)
				continue
			}

			stats.Accepted++
			accepted = append(accepted, listing)
			fmt.Fprintf(o.out, "Перевірка вакансії: %s | Компанія: %s | Зарплата: %s | Місто: %s | Час публікації: %s\n",
				listing.Title, listing.Company, listing.Salary, listing.City, listing.Published)
		}

		fmt.Fprintf(o.out, "✅ Сторінка %d оброблена!\n", page)
		o.logger.Info("Page processed",
			"page", page,
			"cards", len(listings),
			"accepted_total", stats.Accepted,
		)

		if page == stats.MaxPages {
			stats.StoppedReason = fmt.Sprintf("reached page limit %d", stats.MaxPages)
			break
		}
		if err := o.randomPause(ctx); err != nil {
			stats.StoppedReason = "cancelled"
			return accepted, stats, err
		}
	}

	o.logger.Info("Pagination completed",
		"total_pages", stats.TotalPages,
		"total_cards", stats.TotalCards,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"reason", stats.StoppedReason,
	)

	return accepted, stats, nil
}

// detectLastPage читает номер последней страницы; при любой проблеме — 1
func (o *Orchestrator) detectLastPage(ctx context.Context, sel *scraper.Selectors, timeout time.Duration) int {
	if err := o.nav.WaitFor(ctx, sel.Pagination, timeout); err != nil {
		o.logger.Warn("Pagination not found", "error", err.Error())
	}

	html, err := o.nav.HTML(ctx)
	if err != nil {
		o.logger.Warn("Failed to read page HTML, processing 1 page", "error", err.Error())
		return 1
	}

	last, err := o.scraper.LastPage(html)
	if err != nil {
		o.logger.Warn("Failed to detect page count, processing 1 page", "error", err.Error())
		return 1
	}

	o.logger.Info("Detected page count", "pages", last)
	return last
}

func (o *Orchestrator) logCard(l scraper.JobListing) {
	fields := []interface{}{
		"page", l.Page,
		"title", l.Title,
		"company", l.Company,
		"salary", l.Salary,
		"city", l.City,
		"published", l.Published,
	}
	if !l.CityKnown() || l.Published == scraper.Unspecified {
		o.logger.Warn("Listing has unresolved fields", fields...)
		return
	}
	o.logger.Debug("Listing parsed", fields...)
}

func (o *Orchestrator) randomPause(ctx context.Context) error {
	lo, hi := o.cfg.GetPagePauseRange()
	d := lo
	if hi > lo {
		d += time.Duration(rand.Int63n(int64(hi-lo) + 1))
	}
	return o.sleep(ctx, d)
}

func (o *Orchestrator) saveErrorSnapshot(ctx context.Context, page int) {
	html, err := o.nav.HTML(ctx)
	if err != nil {
		o.logger.Warn("Failed to read page HTML for snapshot", "page", page, "error", err.Error())
		return
	}
	o.saveSnapshot(page, html, true)
}

func (o *Orchestrator) saveSnapshot(page int, html string, isError bool) {
	if isError {
		path, err := o.snapshots.SaveError(page, html)
		if err != nil {
			o.logger.Warn("Failed to save snapshot", "page", page, "error", err.Error())
			return
		}
		o.logger.Info("Error snapshot saved", "page", page, "path", path)
		return
	}

	path, removed, err := o.snapshots.SaveDebug(page, html)
	if err != nil {
		o.logger.Warn("Failed to save snapshot", "page", page, "error", err.Error())
		return
	}
	o.logger.Debug("Debug snapshot saved", "page", page, "path", path)
	if removed != "" {
		o.logger.Debug("Old snapshot removed", "path", removed)
	}
}

// SortBySalary сортирует по убыванию ParseSalary; равные сохраняют порядок обхода
func SortBySalary(listings []scraper.JobListing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return normalize.ParseSalary(listings[i].Salary) > normalize.ParseSalary(listings[j].Salary)
	})
}

// Sleep — ожидание с учётом отмены контекста
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
