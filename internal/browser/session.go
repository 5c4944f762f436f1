package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"workua-scraper/internal/config"
	"workua-scraper/internal/observability"
)

var (
	ErrLoadTimeout = errors.New("element did not appear in time")
	ErrNavigation  = errors.New("navigation to next page failed")
)

// Session — один браузер с одной вкладкой на весь запуск.
// Close обязательно через defer сразу после Launch.
type Session struct {
	cfg      config.BrowserConfig
	logger   *observability.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// Launch запускает Chromium и открывает пустую вкладку с нужным UA и размером окна
func Launch(ctx context.Context, cfg config.BrowserConfig, logger *observability.Logger) (*Session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Set("disable-dev-shm-usage").
		Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))
	if cfg.BinPath != "" {
		l = l.Bin(cfg.BinPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s := &Session{cfg: cfg, logger: logger, launcher: l}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.page, err = s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.WindowWidth,
		Height:            cfg.WindowHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	logger.Info("Browser launched",
		"headless", cfg.Headless,
		"window", fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight),
	)
	return s, nil
}

// Close закрывает браузер и чистит профиль. Повторный вызов безопасен.
func (s *Session) Close() error {
	if s == nil || s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.launcher.Cleanup()
	s.browser = nil
	s.page = nil
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	s.logger.Info("Browser closed")
	return nil
}

// Open переходит по url и ждёт события load
func (s *Session) Open(ctx context.Context, url string) error {
	p := s.page.Context(ctx).Timeout(s.cfg.GetPageTimeout())
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}
	return nil
}

// WaitFor ждёт появления элемента не дольше timeout
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := s.page.Context(ctx).Timeout(timeout).Element(selector); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s after %s: %v", ErrLoadTimeout, selector, timeout, err)
	}
	return nil
}

// ClickNext находит ссылку "следующая страница" по селектору и тексту,
// кликает и ждёт смены URL
func (s *Session) ClickNext(ctx context.Context, selector, text string, timeout time.Duration) error {
	p := s.page.Context(ctx).Timeout(timeout)

	link, err := p.ElementR(selector, text)
	if err != nil {
		return fmt.Errorf("%w: control %s %q not found: %v", ErrNavigation, selector, text, err)
	}

	before := s.URL()

	if err := link.ScrollIntoView(); err != nil {
		s.logger.Warn("Scroll to next link failed", "error", err.Error())
	}
	if err := link.Click(proto.InputMouseButtonLeft, 1); err != nil {
		// перекрыт баннером — кликаем скриптом
		s.logger.Debug("Native click failed, falling back to script click", "error", err.Error())
		if _, err := link.Eval(`() => this.click()`); err != nil {
			return fmt.Errorf("%w: click: %v", ErrNavigation, err)
		}
	}

	if err := p.Wait(rod.Eval(`(u) => location.href !== u`, before)); err != nil {
		return fmt.Errorf("%w: url did not change from %s: %v", ErrNavigation, before, err)
	}
	return nil
}

// ScrollToBottom прокручивает страницу вниз times раз с паузой, чтобы подгрузились превью
func (s *Session) ScrollToBottom(ctx context.Context, times int, pause time.Duration) error {
	p := s.page.Context(ctx)
	for i := 0; i < times; i++ {
		if _, err := p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}
		if err := sleep(ctx, pause); err != nil {
			return err
		}
	}
	return nil
}

// Count возвращает число элементов без ожидания
func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return 0, fmt.Errorf("failed to query %s: %w", selector, err)
	}
	return len(els), nil
}

// ClickNth кликает скриптом по i-му элементу (превью часто перекрыты)
func (s *Session) ClickNth(ctx context.Context, selector string, i int) error {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", selector, err)
	}
	if i < 0 || i >= len(els) {
		return fmt.Errorf("element %d of %s out of range (%d found)", i, selector, len(els))
	}

	el := els[i]
	if err := el.ScrollIntoView(); err != nil {
		s.logger.Debug("Scroll into view failed", "index", i, "error", err.Error())
	}
	if _, err := el.Eval(`() => this.click()`); err != nil {
		return fmt.Errorf("failed to click %s[%d]: %w", selector, i, err)
	}
	return nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

func (s *Session) URL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
