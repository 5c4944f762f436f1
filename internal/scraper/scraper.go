package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"workua-scraper/internal/normalize"
)

var (
	ErrNoListings   = errors.New("no job listings found")
	ErrNoPagination = errors.New("pagination not found")

	salaryRe    = regexp.MustCompile(`\d+[ \x{a0}\x{202f}]?–[ \x{a0}\x{202f}]?\d+|\d+`)
	noResultsRe = regexp.MustCompile(`Немає результатів|Вакансії не знайдені`)
)

type Scraper struct {
	selectors *Selectors
}

func NewScraper(selectors *Selectors) *Scraper {
	if selectors == nil {
		selectors = DefaultSelectors()
	}
	return &Scraper{
		selectors: selectors,
	}
}

func (s *Scraper) Selectors() *Selectors {
	return s.selectors
}

// ParseListing парсит страницу выдачи и возвращает вакансии в порядке на странице.
// Если блоков вакансий нет совсем — ErrNoListings.
func (s *Scraper) ParseListing(html string) ([]JobListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	cards := doc.Find(s.selectors.CardSelectors)
	if cards.Length() == 0 {
		return nil, ErrNoListings
	}

	listings := make([]JobListing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, s.parseCard(card))
	})

	return listings, nil
}

func (s *Scraper) parseCard(card *goquery.Selection) JobListing {
	listing := JobListing{
		Title:   orDefault(normalize.CleanText(trySelectors(card, s.selectors.TitleSelectors)), TitleNotFound),
		Company: orDefault(normalize.CleanText(trySelectors(card, s.selectors.CompanySelectors)), UnknownCompany),
		Salary:  orDefault(s.salary(card), Unspecified),
	}

	listing.City = orDefault(firstMatch(card, s.cityChain(listing.Company)...), Unspecified)
	listing.Published = orDefault(firstMatch(card, s.publishedChain()...), Unspecified)

	listing.Link = LinkNotFound
	if href := tryAttr(card, s.selectors.LinkSelectors, "href"); href != "" {
		listing.Link = normalize.ResolveURL(s.selectors.BaseURL, href)
	}

	return listing
}

// salary берёт первый span с числом; span с вложенными тегами пропускаем
func (s *Scraper) salary(card *goquery.Selection) string {
	for _, selector := range s.selectors.SalarySelectors {
		var found string
		card.Find(selector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if el.Children().Length() > 0 {
				return true
			}
			text := el.Text()
			if !salaryRe.MatchString(text) {
				return true
			}
			found = normalize.CleanSalary(text)
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func (s *Scraper) publishedChain() []extractor {
	return []extractor{
		// 1. "вакансія від 15 квітня 2025" в title ссылки
		func(card *goquery.Selection) string {
			title := tryAttr(card, s.selectors.LinkSelectors, "title")
			published, _ := PublishedFromTitle(title)
			return published
		},
		// 2. <time datetime="2025-04-15 12:00:00">
		func(card *goquery.Selection) string {
			datetime, ok := card.Find(s.selectors.TimeSelector).First().Attr("datetime")
			if !ok {
				return ""
			}
			return ConvertISODate(strings.TrimSpace(datetime))
		},
		// 3. текст <time>
		func(card *goquery.Selection) string {
			return normalize.CleanText(card.Find(s.selectors.TimeSelector).First().Text())
		},
	}
}

// LastPage возвращает наибольший номер страницы из ссылок пагинации
func (s *Scraper) LastPage(html string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1, fmt.Errorf("failed to parse HTML: %w", err)
	}

	pagination := doc.Find(s.selectors.Pagination).First()
	if pagination.Length() == 0 {
		return 1, ErrNoPagination
	}

	last := 0
	pagination.Find("li a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "page=") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if n, err := strconv.Atoi(u.Query().Get("page")); err == nil && n > last {
			last = n
		}
	})

	if last == 0 {
		return 1, ErrNoPagination
	}
	return last, nil
}

// NoResultsMessage возвращает сообщение сайта об отсутствии вакансий, если оно есть
func (s *Scraper) NoResultsMessage(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return noResultsRe.FindString(doc.Text())
}

type extractor func(card *goquery.Selection) string

// firstMatch пробует извлекатели по очереди, первый непустой результат выигрывает
func firstMatch(card *goquery.Selection, chain ...extractor) string {
	for _, extract := range chain {
		if v := strings.TrimSpace(extract(card)); v != "" {
			return v
		}
	}
	return ""
}

func trySelectors(s *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		text := strings.TrimSpace(s.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

func tryAttr(s *goquery.Selection, selectors []string, attr string) string {
	for _, selector := range selectors {
		value, exists := s.Find(selector).First().Attr(attr)
		if exists && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
