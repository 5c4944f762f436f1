package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.StorageEnabled())

	lo, hi := cfg.GetPagePauseRange()
	assert.Equal(t, time.Second, lo)
	assert.Equal(t, 3*time.Second, hi)
	assert.Equal(t, int64(25<<20), cfg.GetMaxBodyBytes())
	assert.Equal(t, 15*time.Second, cfg.GetImageWaitTimeout())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	t.Setenv("SCRAPER_HEADLESS", "true")
	t.Setenv("SCRAPER_STORAGE_DSN", "file:history.db")

	path := writeFile(t, t.TempDir(), "config.yaml", `
jobs:
  output_csv: out.csv
images:
  max_images: 3
storage:
  driver: sqlite
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "out.csv", cfg.Jobs.OutputCSV)
	assert.Equal(t, "https://www.work.ua", cfg.Jobs.BaseURL)
	assert.Equal(t, 3, cfg.Images.MaxImages)
	assert.Equal(t, 800, cfg.Images.MinWidth)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "file:history.db", cfg.Storage.DSN)
	assert.True(t, cfg.StorageEnabled())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Images.Query, cfg.Images.Query)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad pause range", "jobs:\n  page_pause_min_ms: 5000\n  page_pause_max_ms: 1000\n"},
		{"sqlite without dsn", "storage:\n  driver: sqlite\n"},
		{"unknown driver", "storage:\n  driver: postgres\n  dsn: x\n"},
		{"zero min width", "images:\n  min_width: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "c.yaml", tt.content)
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigBadEnv(t *testing.T) {
	t.Setenv("SCRAPER_DEBUG_SNAPSHOTS", "maybe")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadSelectorsMergesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "selectors.yaml", `
jobs:
  card_selectors: div.card
  title_selectors: ["h3", "h2"]
images:
  url_param: imgsrc
`)

	set, err := LoadSelectors(path)
	require.NoError(t, err)

	assert.Equal(t, "div.card", set.Jobs.CardSelectors)
	assert.Equal(t, []string{"h3", "h2"}, set.Jobs.TitleSelectors)
	assert.Equal(t, "span.location", set.Jobs.CityLocation)
	assert.Equal(t, "imgsrc", set.Images.URLParam)
	assert.Equal(t, "img.YQ4gaf", set.Images.Thumbnail)
}

func TestLoadSelectorsValidation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "selectors.yaml", "jobs:\n  card_selectors: \"\"\n")

	_, err := LoadSelectors(path)
	assert.Error(t, err)

	_, err = LoadSelectors("")
	assert.Error(t, err)
}

func TestSelectorsWithoutFile(t *testing.T) {
	set, err := Default().Selectors()
	require.NoError(t, err)
	assert.Equal(t, "div.job-link", set.Jobs.CardSelectors)
	assert.Equal(t, "imgurl", set.Images.URLParam)
}
