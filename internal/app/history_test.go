package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workua-scraper/internal/config"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
)

func TestOpenRepositoryNone(t *testing.T) {
	repo, err := OpenRepository(config.Default(), observability.Nop())
	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestHistoryRecord(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "history.db")

	repo, err := OpenRepository(cfg, observability.Nop())
	require.NoError(t, err)
	defer repo.Close()

	h := NewHistory(repo, observability.Nop())
	q := JobQuery{Vacancy: "водій", City: "київ", Pages: 1}
	listings := []scraper.JobListing{
		{Title: "Водій категорії B", Company: "ТОВ Альфа", Salary: "30000–40000", City: "Київ", Published: "15 квітня 2025", Link: "https://www.work.ua/jobs/101/", Page: 1},
		{Title: "Водій", Company: "ТОВ Бета", Salary: scraper.Unspecified, City: scraper.Unspecified, Published: "вчора", Link: "https://www.work.ua/jobs/102/", Page: 1},
	}

	stats, err := h.Record(context.Background(), q, listings)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 2, stats.New)
	assert.Equal(t, 2, stats.Total)

	stats, err = h.Record(context.Background(), q, listings[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Saved)
	assert.Equal(t, 0, stats.New)
	assert.Equal(t, 2, stats.Total)
}
