package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoImageLink = errors.New("full-size image link not found")

type ImageParser struct {
	selectors *ImageSelectors
}

func NewImageParser(selectors *ImageSelectors) *ImageParser {
	if selectors == nil {
		selectors = DefaultImageSelectors()
	}
	return &ImageParser{selectors: selectors}
}

func (p *ImageParser) Selectors() *ImageSelectors {
	return p.selectors
}

// ResolveImageURL ищет ссылку вида /imgres?imgurl=...&... после клика по превью
// и возвращает декодированный URL полноразмерной картинки.
func (p *ImageParser) ResolveImageURL(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	marker := p.selectors.URLParam + "="
	var src string
	doc.Find(p.selectors.FullLink).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, marker) {
			return true
		}
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		src = strings.TrimSpace(u.Query().Get(p.selectors.URLParam))
		return src == ""
	})

	if src == "" {
		return "", ErrNoImageLink
	}
	if !strings.HasPrefix(src, "http") {
		return "", fmt.Errorf("%w: unsupported source %q", ErrNoImageLink, src)
	}
	return src, nil
}

// LinkSample возвращает первые n href на странице — для диагностики
func (p *ImageParser) LinkSample(html string, n int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if len(href) > 100 {
			href = href[:100]
		}
		links = append(links, href)
		return len(links) < n
	})
	return links
}
