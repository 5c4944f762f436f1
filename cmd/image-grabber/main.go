package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"workua-scraper/internal/app"
	"workua-scraper/internal/browser"
	"workua-scraper/internal/config"
	"workua-scraper/internal/fetcher"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
	"workua-scraper/internal/storage/imagefs"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	query := flag.String("query", "", "image search query")
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

	if *query == "" {
		fmt.Printf("🔍 Введіть запит для пошуку зображень [%s]: ", cfg.Images.Query)
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		*query = strings.TrimSpace(line)
	}
	if *query == "" {
		*query = cfg.Images.Query
	}

	selectors, err := cfg.Selectors()
	if err != nil {
		logger.Error("Failed to load selectors", "error", err.Error())
		return 1
	}

	logger.Info("Run started", "run_id", runID, "query", *query, "output_dir", cfg.Images.OutputDir)

	ctx, cancel := app.GracefulShutdown(context.Background(), logger)
	defer cancel()

	session, err := browser.Launch(ctx, cfg.Browser, logger)
	if err != nil {
		fmt.Printf("Помилка запуску браузера: %v\n", err)
		logger.Error("Browser launch failed", "error", err.Error())
		return 1
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close browser", "error", err.Error())
		}
	}()
	fmt.Println("Браузер запущено")

	writer := imagefs.NewWriter(cfg.Images.OutputDir)
	orch := app.NewImagesOrchestrator(cfg, logger, session,
		scraper.NewImageParser(selectors.Images),
		fetcher.NewFetcher(cfg, logger),
		writer,
		os.Stdout,
	)

	stats, err := orch.Run(ctx, *query)
	if err != nil {
		logger.Error("Image run failed", "error", err.Error(), "reason", stats.StoppedReason)
		return 1
	}
	if writer.Count() > 0 {
		fmt.Printf("Зображення збережено в %s\n", writer.Dir())
	}
	return 0
}
