package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"workua-scraper/internal/app"
	"workua-scraper/internal/browser"
	"workua-scraper/internal/config"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
	"workua-scraper/internal/snapshot"
	"workua-scraper/internal/storage/csvfile"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	vacancy := flag.String("vacancy", "", "vacancy title to search for")
	city := flag.String("city", "", "city to search in")
	pages := flag.String("pages", "", "number of pages or 'всі'")
	flag.Parse()

	if flag.NArg() > 0 {
		*configPath = flag.Arg(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	baseLogger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		log.Printf("Failed to create logger: %v", err)
		return 1
	}
	defer func() { _ = baseLogger.Close() }()
	logger, runID := baseLogger.WithRunID()

	in := bufio.NewReader(os.Stdin)
	if *vacancy == "" {
		*vacancy = prompt(in, "🔍 Введіть назву вакансії: ")
	}
	if *city == "" {
		*city = prompt(in, "🌆 Введіть місто: ")
	}
	if *pages == "" {
		*pages = prompt(in, "📄 Введіть кількість сторінок для обробки (або 'всі'): ")
	}

	q, err := app.ParseQuery(*vacancy, *city, *pages)
	if err != nil {
		fmt.Println(inputErrorMessage(err, *pages))
		logger.Error("Invalid input", "error", err.Error())
		return 1
	}

	selectors, err := cfg.Selectors()
	if err != nil {
		logger.Error("Failed to load selectors", "error", err.Error())
		return 1
	}

	logger.Info("Run started",
		"run_id", runID,
		"vacancy", q.Vacancy,
		"city", q.City,
		"pages", q.Pages,
	)

	ctx, cancel := app.GracefulShutdown(context.Background(), logger)
	defer cancel()

	listings, stats, err := scrape(ctx, cfg, logger, selectors.Jobs, q)
	if err != nil {
		fmt.Printf("❌ Помилка: %v\n", err)
		logger.Error("Scraping failed", "error", err.Error())
		if len(listings) == 0 {
			return 1
		}
	}

	// сортируем после закрытия браузера
	app.SortBySalary(listings)

	if len(listings) > 0 && cfg.StorageEnabled() {
		recordHistory(ctx, cfg, logger, q, listings)
	}

	written, err := csvfile.Write(cfg.Jobs.OutputCSV, listings)
	if err != nil {
		logger.Error("Failed to write CSV", "path", cfg.Jobs.OutputCSV, "error", err.Error())
		return 1
	}
	if !written {
		fmt.Println("❌ Не знайдено жодної вакансії для збереження.")
		logger.Warn("No listings to save")
	} else {
		fmt.Printf("✅ Вакансії збережено в %s\n", cfg.Jobs.OutputCSV)
		logger.Info("Listings saved", "path", cfg.Jobs.OutputCSV, "count", len(listings))
	}

	if stats != nil {
		logger.Info("Run finished",
			"pages", stats.TotalPages,
			"cards", stats.TotalCards,
			"accepted", stats.Accepted,
			"reason", stats.StoppedReason,
		)
	}
	return 0
}

// scrape держит браузер открытым только на время обхода
func scrape(ctx context.Context, cfg *config.Config, logger *observability.Logger, sel *scraper.Selectors, q app.JobQuery) ([]scraper.JobListing, *app.PaginationStats, error) {
	session, err := browser.Launch(ctx, cfg.Browser, logger)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close browser", "error", err.Error())
		}
	}()

	orch := app.NewOrchestrator(cfg, logger, session,
		scraper.NewScraper(sel),
		snapshot.NewStore(cfg.Jobs.SnapshotDir, cfg.Jobs.KeepSnapshots),
		os.Stdout,
	)
	return orch.Run(ctx, q)
}

// recordHistory не валит запуск: без БД просто пишем CSV
func recordHistory(ctx context.Context, cfg *config.Config, logger *observability.Logger, q app.JobQuery, listings []scraper.JobListing) {
	repo, err := app.OpenRepository(cfg, logger)
	if err != nil {
		logger.Warn("History store unavailable", "driver", cfg.Storage.Driver, "error", err.Error())
		return
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("Failed to close history store", "error", err.Error())
		}
	}()

	stats, err := app.NewHistory(repo, logger).Record(ctx, q, listings)
	if err != nil {
		logger.Warn("History update incomplete", "error", err.Error())
		return
	}
	fmt.Printf("🗂  Нових вакансій: %d (усього в історії: %d)\n", stats.New, stats.Total)
}

func prompt(in *bufio.Reader, text string) string {
	fmt.Print(text)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

func inputErrorMessage(err error, pages string) string {
	switch {
	case errors.Is(err, app.ErrEmptyInput):
		return "❌ Помилка: вакансія та місто не можуть бути порожніми!"
	case errors.Is(err, app.ErrInvalidPages):
		if _, convErr := strconv.Atoi(strings.TrimSpace(pages)); convErr == nil {
			return "❌ Помилка: кількість сторінок має бути більше 0!"
		}
		return "❌ Помилка: введіть число або 'всі'!"
	default:
		return fmt.Sprintf("❌ Помилка: %v", err)
	}
}
