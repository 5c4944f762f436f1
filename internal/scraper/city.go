package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"workua-scraper/internal/normalize"
)

var (
	cityPrefixRe = regexp.MustCompile(`^[А-ЯІЇЄҐ][а-яіїєґ\s,-]+`)
	cityExactRe  = regexp.MustCompile(`^[А-ЯІЇЄҐ][а-яіїєґ\s,-]+$`)
	cityNoiseRe  = regexp.MustCompile(`[()№\d]`)
)

// Разметка карточки на work.ua нестабильна, поэтому город ищем
// несколькими способами по порядку.
func (s *Scraper) cityChain(company string) []extractor {
	return []extractor{
		s.cityUnlabeledSpan,
		s.cityLocationSpan,
		func(card *goquery.Selection) string {
			return s.cityFromMetaBlock(card, company)
		},
		s.cityPositional,
	}
}

// 1. первый <span> без класса
func (s *Scraper) cityUnlabeledSpan(card *goquery.Selection) string {
	span := card.Find("span").FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, ok := el.Attr("class")
		return !ok || strings.TrimSpace(class) == ""
	}).First()
	return trimCity(span.Text())
}

// 2. <span class="location">
func (s *Scraper) cityLocationSpan(card *goquery.Selection) string {
	return normalize.CleanText(card.Find(s.selectors.CityLocation).First().Text())
}

// 3. текст в блоке метаданных, похожий на название города
func (s *Scraper) cityFromMetaBlock(card *goquery.Selection, company string) string {
	block := card.Find(s.selectors.MetaBlock).First()
	if block.Length() == 0 {
		return ""
	}

	var companyWord string
	if fields := strings.Fields(company); len(fields) > 0 {
		companyWord = fields[0]
	}

	var city string
	foundCompany := false
	block.Find("span, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := normalize.CleanText(el.Text())
		if !foundCompany && el.ParentsFiltered(s.selectors.CompanyMarker).Length() > 0 {
			foundCompany = true
			return true
		}

		match := cityPrefixRe.FindString(text)
		if match == "" {
			return true
		}
		cityText := trimCity(match)
		if cityNoiseRe.MatchString(cityText) {
			return true
		}
		if companyWord != "" && strings.HasPrefix(text, companyWord) {
			return true
		}

		city = firstPart(cityText)
		return city == ""
	})

	return city
}

// 4. позиционный селектор, последний шанс
func (s *Scraper) cityPositional(card *goquery.Selection) string {
	cityText := trimCity(card.Find(s.selectors.CityPositional).First().Text())
	if !cityExactRe.MatchString(cityText) {
		return ""
	}
	return firstPart(cityText)
}

func trimCity(s string) string {
	s = normalize.CleanText(s)
	return strings.TrimSpace(strings.TrimRight(s, ","))
}

func firstPart(s string) string {
	head, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(head)
}
