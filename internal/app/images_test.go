package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workua-scraper/internal/config"
	"workua-scraper/internal/fetcher"
	"workua-scraper/internal/observability"
	"workua-scraper/internal/scraper"
	"workua-scraper/internal/storage/imagefs"
)

// fakeImageNav: превью i после клика показывает ссылку imgres на sources[i]
type fakeImageNav struct {
	sources []string
	clicked int
	waitErr error
}

func (f *fakeImageNav) Open(context.Context, string) error { return nil }

func (f *fakeImageNav) WaitFor(context.Context, string, time.Duration) error { return f.waitErr }

func (f *fakeImageNav) ScrollToBottom(context.Context, int, time.Duration) error { return nil }

func (f *fakeImageNav) Count(context.Context, string) (int, error) { return len(f.sources), nil }

func (f *fakeImageNav) ClickNth(_ context.Context, _ string, i int) error {
	f.clicked = i
	return nil
}

func (f *fakeImageNav) HTML(context.Context) (string, error) {
	src := f.sources[f.clicked]
	if src == "" {
		return `<div><a href="/search?q=x">no preview link</a></div>`, nil
	}
	return fmt.Sprintf(`<div><a href="/imgres?imgurl=%s&amp;tbnid=abc">full</a></div>`, url.QueryEscape(src)), nil
}

type fakeDownloader struct {
	bodies map[string][]byte
	calls  map[string]int
}

func (d *fakeDownloader) Fetch(_ context.Context, u string) (*fetcher.FetchResponse, error) {
	d.calls[u]++
	body, ok := d.bodies[u]
	if !ok {
		return nil, fmt.Errorf("%w: 404", fetcher.ErrBadStatus)
	}
	return &fetcher.FetchResponse{StatusCode: 200, Body: body, URL: u}, nil
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newImagesTest(t *testing.T, nav *fakeImageNav, dl *fakeDownloader, maxImages int) (*ImagesOrchestrator, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "images")
	cfg := config.Default()
	cfg.Images.OutputDir = dir
	cfg.Images.MaxImages = maxImages

	o := NewImagesOrchestrator(cfg, observability.Nop(), nav, scraper.NewImageParser(nil), dl,
		imagefs.NewWriter(dir), &bytes.Buffer{}).WithSleep(noSleep)
	return o, dir
}

func TestImagesRun(t *testing.T) {
	big1 := "https://img.example.com/big1.png"
	big2 := "https://img.example.com/big2.png"
	small := "https://img.example.com/small.png"
	broken := "https://img.example.com/broken.png"

	nav := &fakeImageNav{sources: []string{big1, small, big1, "", broken, big2}}
	dl := &fakeDownloader{
		bodies: map[string][]byte{
			big1:  pngOf(t, 1024, 768),
			big2:  pngOf(t, 800, 600),
			small: pngOf(t, 640, 480),
		},
		calls: map[string]int{},
	}
	o, dir := newImagesTest(t, nav, dl, 10)

	stats, err := o.Run(context.Background(), "default Images high resolution")
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Previews)
	assert.Equal(t, 6, stats.Processed)
	assert.Equal(t, 2, stats.Saved)
	assert.Equal(t, 1, stats.TooSmall)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Unresolved)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, dl.calls[big1], "duplicate URL must not be downloaded twice")

	for i, name := range []string{"image_1.png", "image_2.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		w, h, _, err := imagefs.Decode(data)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, w, 800, "image %d", i+1)
		assert.GreaterOrEqual(t, h, 600, "image %d", i+1)
	}
	_, err = os.Stat(filepath.Join(dir, "image_3.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestImagesRunStopsAtLimit(t *testing.T) {
	a := "https://img.example.com/a.png"
	b := "https://img.example.com/b.png"

	nav := &fakeImageNav{sources: []string{a, b}}
	dl := &fakeDownloader{
		bodies: map[string][]byte{a: pngOf(t, 900, 900), b: pngOf(t, 900, 900)},
		calls:  map[string]int{},
	}
	o, _ := newImagesTest(t, nav, dl, 1)

	stats, err := o.Run(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Saved)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, "reached image limit 1", stats.StoppedReason)
	assert.Zero(t, dl.calls[b])
}

func TestImagesRunPreviewTimeoutIsFatal(t *testing.T) {
	nav := &fakeImageNav{sources: []string{""}, waitErr: errors.New("timeout")}
	dl := &fakeDownloader{calls: map[string]int{}}
	o, dir := newImagesTest(t, nav, dl, 10)

	stats, err := o.Run(context.Background(), "q")
	assert.Error(t, err)
	assert.Equal(t, "previews wait timeout", stats.StoppedReason)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Київ", truncate("Київ, Оболонь", 4))
	assert.Equal(t, "abc", truncate("abc", 10))
}
