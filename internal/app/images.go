package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"workua-scraper/internal/config"
	"workua-scraper/internal/fetcher"
	"workua-scraper/internal/filter"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
	"workua-scraper/internal/storage/imagefs"
)

const htmlExcerptLen = 10000

// ImageNavigator — то, что нужно от браузера для выдачи картинок
type ImageNavigator interface {
	Open(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	ScrollToBottom(ctx context.Context, times int, pause time.Duration) error
	Count(ctx context.Context, selector string) (int, error)
	ClickNth(ctx context.Context, selector string, i int) error
	HTML(ctx context.Context) (string, error)
}

// Downloader скачивает картинку по прямой ссылке
type Downloader interface {
	Fetch(ctx context.Context, url string) (*fetcher.FetchResponse, error)
}

type ImagesOrchestrator struct {
	cfg    *config.Config
	logger *observability.Logger
	nav    ImageNavigator
	parser *scraper.ImageParser
	dl     Downloader
	writer *imagefs.Writer
	out    io.Writer
	sleep  SleepFunc
}

func NewImagesOrchestrator(
	cfg *config.Config,
	logger *observability.Logger,
	nav ImageNavigator,
	parser *scraper.ImageParser,
	dl Downloader,
	writer *imagefs.Writer,
	out io.Writer,
) *ImagesOrchestrator {
	return &ImagesOrchestrator{
		cfg:    cfg,
		logger: logger,
		nav:    nav,
		parser: parser,
		dl:     dl,
		writer: writer,
		out:    out,
		sleep:  Sleep,
	}
}

func (o *ImagesOrchestrator) WithSleep(sleep SleepFunc) *ImagesOrchestrator {
	o.sleep = sleep
	return o
}

type ImageStats struct {
	Previews      int
	Processed     int
	Unresolved    int
	Duplicates    int
	Failed        int
	TooSmall      int
	Saved         int
	StoppedReason string
}

// Run открывает выдачу, прокручивает её и по очереди кликает превью,
// сохраняя подходящие картинки сразу после скачивания
func (o *ImagesOrchestrator) Run(ctx context.Context, query string) (*ImageStats, error) {
	sel := o.parser.Selectors()
	stats := &ImageStats{}

	searchURL := ImageSearchURL(o.cfg.Images.SearchURL, query)
	fmt.Fprintf(o.out, "Завантаження сторінки: %s\n", searchURL)
	o.logger.Info("Opening image search", "url", searchURL, "query", query)

	if err := o.nav.Open(ctx, searchURL); err != nil {
		stats.StoppedReason = "initial navigation failed"
		return stats, fmt.Errorf("failed to open image search: %w", err)
	}

	if err := o.nav.WaitFor(ctx, sel.Thumbnail, o.cfg.GetImageWaitTimeout()); err != nil {
		n, _ := o.nav.Count(ctx, sel.Thumbnail)
		fmt.Fprintln(o.out, "Тайм-аут: сторінка не завантажилась або немає прев’ю.")
		o.logger.Error("Previews did not appear",
			"selector", sel.Thumbnail,
			"found", n,
			"html", o.excerpt(ctx),
		)
		stats.StoppedReason = "previews wait timeout"
		return stats, fmt.Errorf("previews not loaded: %w", err)
	}

	if err := o.nav.ScrollToBottom(ctx, o.cfg.Images.ScrollCount, o.cfg.GetScrollPause()); err != nil {
		if ctx.Err() != nil {
			stats.StoppedReason = "cancelled"
			return stats, ctx.Err()
		}
		o.logger.Warn("Scroll failed", "error", err.Error())
	}

	total, err := o.nav.Count(ctx, sel.Thumbnail)
	if err != nil {
		stats.StoppedReason = "previews unavailable"
		return stats, fmt.Errorf("failed to count previews: %w", err)
	}
	stats.Previews = total
	fmt.Fprintf(o.out, "Знайдено %d прев’ю-зображень\n", total)

	limit := min(total, o.cfg.Images.MaxPreviews)
	imageFilter := filter.NewImageFilter(o.cfg.Images.MinWidth, o.cfg.Images.MinHeight)

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			stats.StoppedReason = "cancelled"
			return stats, err
		}

		stats.Processed++
		fmt.Fprintf(o.out, "Обробка прев’ю %d...\n", i+1)

		if err := o.processPreview(ctx, i, sel.Thumbnail, imageFilter, stats); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				stats.StoppedReason = "cancelled"
				return stats, err
			}
			fmt.Fprintf(o.out, "Помилка обробки прев’ю %d: %v\n", i+1, err)
		}

		if stats.Saved >= o.cfg.Images.MaxImages {
			stats.StoppedReason = fmt.Sprintf("reached image limit %d", o.cfg.Images.MaxImages)
			break
		}

		if err := o.sleep(ctx, o.cfg.GetBetweenPause()); err != nil {
			stats.StoppedReason = "cancelled"
			return stats, err
		}
	}

	if stats.StoppedReason == "" {
		stats.StoppedReason = fmt.Sprintf("processed %d previews", stats.Processed)
	}

	fmt.Fprintf(o.out, "Завантажено %d унікальних зображень\n", stats.Saved)
	o.logger.Info("Image run completed",
		"previews", stats.Previews,
		"processed", stats.Processed,
		"unresolved", stats.Unresolved,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed,
		"too_small", stats.TooSmall,
		"saved", stats.Saved,
		"reason", stats.StoppedReason,
	)

	return stats, nil
}

// processPreview: ошибка означает пропуск превью, кроме отмены контекста
func (o *ImagesOrchestrator) processPreview(ctx context.Context, i int, thumbnail string, imageFilter *filter.ImageFilter, stats *ImageStats) error {
	if err := o.nav.ClickNth(ctx, thumbnail, i); err != nil {
		stats.Failed++
		return err
	}
	if err := o.sleep(ctx, o.cfg.GetClickPause()); err != nil {
		return err
	}

	html, err := o.nav.HTML(ctx)
	if err != nil {
		stats.Failed++
		return err
	}

	src, err := o.parser.ResolveImageURL(html)
	if err != nil {
		stats.Unresolved++
		o.logger.Warn("Full-size link not found",
			"preview", i+1,
			"error", err.Error(),
			"links", o.parser.LinkSample(html, 5),
		)
		o.logger.Debug("Markup after click", "preview", i+1, "html", truncate(html, htmlExcerptLen))
		return err
	}
	fmt.Fprintf(o.out, "Декодований URL: %s...\n", truncate(src, 50))

	if imageFilter.Seen(src) {
		stats.Duplicates++
		o.logger.Info("Duplicate image skipped", "url", src)
		return nil
	}

	resp, err := o.dl.Fetch(ctx, src)
	if err != nil {
		stats.Failed++
		o.logger.Warn("Image download failed", "url", src, "error", err.Error())
		return fmt.Errorf("download: %w", err)
	}

	width, height, format, err := imagefs.Decode(resp.Body)
	if err != nil {
		stats.Failed++
		o.logger.Warn("Image decode failed", "url", src, "error", err.Error())
		return err
	}

	candidate := filter.ImageCandidate{
		SourceURL: src,
		Width:     width,
		Height:    height,
		Format:    format,
		Content:   resp.Body,
	}
	if ok, reason := imageFilter.Accept(candidate); !ok {
		stats.TooSmall++
		fmt.Fprintf(o.out, "Зображення пропущено (мала роздільна здатність): %s... (%dx%d)\n", truncate(src, 50), width, height)
		o.logger.Info("Image rejected", "url", src, "reason", reason)
		return nil
	}

	path, err := o.writer.Save(candidate.Content, candidate.Format)
	if err != nil {
		stats.Failed++
		o.logger.Error("Failed to save image", "url", src, "error", err.Error())
		return err
	}

	stats.Saved++
	fmt.Fprintf(o.out, "Зображення додано та завантажено: %s... (%dx%d, %d байтів)\n",
		truncate(src, 50), width, height, len(candidate.Content))
	o.logger.Info("Image saved",
		"url", src,
		"path", path,
		"width", width,
		"height", height,
		"bytes", len(candidate.Content),
	)
	return nil
}

func (o *ImagesOrchestrator) excerpt(ctx context.Context) string {
	html, err := o.nav.HTML(ctx)
	if err != nil {
		return ""
	}
	return truncate(html, htmlExcerptLen)
}

// truncate обрезает по числу символов, не ломая UTF-8
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
