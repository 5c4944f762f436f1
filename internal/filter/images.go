package filter

import "fmt"

// ImageCandidate — полноразмерная картинка, найденная через превью
type ImageCandidate struct {
	SourceURL string
	Width     int
	Height    int
	Format    string
	Content   []byte
}

// ImageFilter пропускает только уникальные в пределах запуска URL
// с размерами не меньше минимальных
type ImageFilter struct {
	minWidth  int
	minHeight int
	seen      map[string]struct{}
}

func NewImageFilter(minWidth, minHeight int) *ImageFilter {
	return &ImageFilter{
		minWidth:  minWidth,
		minHeight: minHeight,
		seen:      make(map[string]struct{}),
	}
}

// Seen отмечает URL как встреченный; true, если он уже был
func (f *ImageFilter) Seen(url string) bool {
	if _, ok := f.seen[url]; ok {
		return true
	}
	f.seen[url] = struct{}{}
	return false
}

// Accept проверяет размеры кандидата. Уникальность проверяется через Seen
// до скачивания, чтобы один и тот же источник не качать дважды.
func (f *ImageFilter) Accept(c ImageCandidate) (bool, string) {
	if c.Width < f.minWidth || c.Height < f.minHeight {
		return false, fmt.Sprintf("too small: %dx%d < %dx%d", c.Width, c.Height, f.minWidth, f.minHeight)
	}
	return true, ""
}
