package config

import (
	"fmt"
	"time"
)

type Config struct {
	Browser       BrowserConfig       `yaml:"browser"`
	Jobs          JobsConfig          `yaml:"jobs"`
	Images        ImagesConfig        `yaml:"images"`
	HTTP          HttpConfig          `yaml:"http"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	SelectorsFile string              `yaml:"selectors_file"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type BrowserConfig struct {
	BinPath      string `yaml:"bin_path"`
	Headless     bool   `yaml:"headless"`
	NoSandbox    bool   `yaml:"no_sandbox"`
	UserAgent    string `yaml:"user_agent"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	PageTimeoutS int    `yaml:"page_timeout_s"`
	WaitTimeoutS int    `yaml:"wait_timeout_s"`
}

type JobsConfig struct {
	BaseURL        string `yaml:"base_url"`
	OutputCSV      string `yaml:"output_csv"`
	SnapshotDir    string `yaml:"snapshot_dir"`
	DebugSnapshots bool   `yaml:"debug_snapshots"`
	KeepSnapshots  int    `yaml:"keep_snapshots"`
	PagePauseMinMS int    `yaml:"page_pause_min_ms"`
	PagePauseMaxMS int    `yaml:"page_pause_max_ms"`
}

type ImagesConfig struct {
	SearchURL      string `yaml:"search_url"`
	Query          string `yaml:"query"`
	OutputDir      string `yaml:"output_dir"`
	MinWidth       int    `yaml:"min_width"`
	MinHeight      int    `yaml:"min_height"`
	MaxImages      int    `yaml:"max_images"`
	MaxPreviews    int    `yaml:"max_previews"`
	WaitTimeoutS   int    `yaml:"wait_timeout_s"`
	ScrollCount    int    `yaml:"scroll_count"`
	ScrollPauseMS  int    `yaml:"scroll_pause_ms"`
	ClickPauseMS   int    `yaml:"click_pause_ms"`
	BetweenPauseMS int    `yaml:"between_pause_ms"`
}

type HttpConfig struct {
	UserAgent      string `yaml:"user_agent"`
	TotalTimeoutMS int    `yaml:"total_timeout_ms"`
	MaxBodyMB      int    `yaml:"max_body_mb"`
	AcceptLanguage string `yaml:"accept_language"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type StorageConfig struct {
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	CommandTimeoutMS int    `yaml:"command_timeout_ms"`
}

type ObservabilityConfig struct {
	LogPath     string `yaml:"log_path"`
	LogLevel    string `yaml:"log_level"`
	MaxSizeMB   int    `yaml:"max_size_mb"`
	MaxBackups  int    `yaml:"max_backups"`
	MaxAgeDays  int    `yaml:"max_age_days"`
	CompressOld bool   `yaml:"compress_old"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:129.0) Gecko/20100101 Firefox/129.0"

// Default возвращает конфиг, с которым оба скрипта работают без YAML файла
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:     false,
			NoSandbox:    true,
			UserAgent:    defaultUserAgent,
			WindowWidth:  1920,
			WindowHeight: 1080,
			PageTimeoutS: 30,
			WaitTimeoutS: 10,
		},
		Jobs: JobsConfig{
			BaseURL:        "https://www.work.ua",
			OutputCSV:      "workua_jobs.csv",
			SnapshotDir:    ".",
			KeepSnapshots:  5,
			PagePauseMinMS: 1000,
			PagePauseMaxMS: 3000,
		},
		Images: ImagesConfig{
			SearchURL:      "https://www.google.com/search",
			Query:          "default Images high resolution",
			OutputDir:      "practice_images/elphie",
			MinWidth:       800,
			MinHeight:      600,
			MaxImages:      10,
			MaxPreviews:    50,
			WaitTimeoutS:   15,
			ScrollCount:    10,
			ScrollPauseMS:  1000,
			ClickPauseMS:   2000,
			BetweenPauseMS: 1000,
		},
		HTTP: HttpConfig{
			UserAgent:      defaultUserAgent,
			TotalTimeoutMS: 5000,
			MaxBodyMB:      25,
			AcceptLanguage: "uk-UA,uk;q=0.9,en;q=0.8",
		},
		RateLimit: RateLimitConfig{
			RPS:   2,
			Burst: 1,
		},
		Storage: StorageConfig{
			Driver:           "none",
			CommandTimeoutMS: 5000,
		},
		Observability: ObservabilityConfig{
			LogPath:    "workua_scraper.log",
			LogLevel:   "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	if c.Browser.UserAgent == "" {
		return fmt.Errorf("browser.user_agent is required")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser.window_width and browser.window_height must be > 0")
	}
	if c.Browser.PageTimeoutS <= 0 {
		return fmt.Errorf("browser.page_timeout_s must be > 0")
	}
	if c.Browser.WaitTimeoutS <= 0 {
		return fmt.Errorf("browser.wait_timeout_s must be > 0")
	}
	if c.Jobs.BaseURL == "" {
		return fmt.Errorf("jobs.base_url is required")
	}
	if c.Jobs.OutputCSV == "" {
		return fmt.Errorf("jobs.output_csv is required")
	}
	if c.Jobs.KeepSnapshots < 0 {
		return fmt.Errorf("jobs.keep_snapshots must be >= 0")
	}
	if c.Jobs.PagePauseMinMS < 0 || c.Jobs.PagePauseMaxMS < 0 {
		return fmt.Errorf("jobs.page_pause_min_ms and jobs.page_pause_max_ms must be >= 0")
	}
	if c.Jobs.PagePauseMinMS > c.Jobs.PagePauseMaxMS {
		return fmt.Errorf("jobs.page_pause_min_ms must be <= jobs.page_pause_max_ms")
	}
	if c.Images.SearchURL == "" {
		return fmt.Errorf("images.search_url is required")
	}
	if c.Images.OutputDir == "" {
		return fmt.Errorf("images.output_dir is required")
	}
	if c.Images.MinWidth <= 0 || c.Images.MinHeight <= 0 {
		return fmt.Errorf("images.min_width and images.min_height must be > 0")
	}
	if c.Images.MaxImages <= 0 {
		return fmt.Errorf("images.max_images must be > 0")
	}
	if c.Images.MaxPreviews <= 0 {
		return fmt.Errorf("images.max_previews must be > 0")
	}
	if c.Images.WaitTimeoutS <= 0 {
		return fmt.Errorf("images.wait_timeout_s must be > 0")
	}
	if c.Images.ScrollCount < 0 {
		return fmt.Errorf("images.scroll_count must be >= 0")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.TotalTimeoutMS <= 0 {
		return fmt.Errorf("http.total_timeout_ms must be > 0")
	}
	if c.HTTP.MaxBodyMB <= 0 {
		return fmt.Errorf("http.max_body_mb must be > 0")
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps must be > 0")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be > 0")
	}
	switch c.Storage.Driver {
	case "", "none":
	case "sqlite", "mssql":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required when storage.driver is %q", c.Storage.Driver)
		}
		if c.Storage.CommandTimeoutMS <= 0 {
			return fmt.Errorf("storage.command_timeout_ms must be > 0")
		}
	default:
		return fmt.Errorf("storage.driver must be 'none', 'sqlite' or 'mssql'")
	}
	if c.Observability.LogPath == "" {
		return fmt.Errorf("observability.log_path is required")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// StorageEnabled сообщает, нужно ли писать историю вакансий в БД
func (c *Config) StorageEnabled() bool {
	return c.Storage.Driver == "sqlite" || c.Storage.Driver == "mssql"
}

// Getters
func (b BrowserConfig) GetPageTimeout() time.Duration {
	return time.Duration(b.PageTimeoutS) * time.Second
}

func (c *Config) GetWaitTimeout() time.Duration {
	return time.Duration(c.Browser.WaitTimeoutS) * time.Second
}

func (c *Config) GetPagePauseRange() (time.Duration, time.Duration) {
	return time.Duration(c.Jobs.PagePauseMinMS) * time.Millisecond,
		time.Duration(c.Jobs.PagePauseMaxMS) * time.Millisecond
}

func (c *Config) GetImageWaitTimeout() time.Duration {
	return time.Duration(c.Images.WaitTimeoutS) * time.Second
}

func (c *Config) GetScrollPause() time.Duration {
	return time.Duration(c.Images.ScrollPauseMS) * time.Millisecond
}

func (c *Config) GetClickPause() time.Duration {
	return time.Duration(c.Images.ClickPauseMS) * time.Millisecond
}

func (c *Config) GetBetweenPause() time.Duration {
	return time.Duration(c.Images.BetweenPauseMS) * time.Millisecond
}

func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetMaxBodyBytes() int64 {
	return int64(c.HTTP.MaxBodyMB) << 20
}
