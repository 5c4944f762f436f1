package filter

import (
	"fmt"
	"regexp"
	"strings"

	"workua-scraper/internal/normalize"
	"workua-scraper/internal/scraper"
)

// JobFilter отбирает вакансии по названию и городу
type JobFilter struct {
	pattern *regexp.Regexp
	city    string
}

func NewJobFilter(term, city string) (*JobFilter, error) {
	pattern, err := normalize.VacancyPattern(term)
	if err != nil {
		return nil, err
	}
	return &JobFilter{
		pattern: pattern,
		city:    strings.ToLower(normalize.CleanText(city)),
	}, nil
}

// Accept: название подходит под запрос и город либо не определён,
// либо содержит искомый (без учёта регистра). Второе значение — причина отказа.
func (f *JobFilter) Accept(listing scraper.JobListing) (bool, string) {
	if !f.pattern.MatchString(normalize.FoldTitle(listing.Title)) {
		return false, fmt.Sprintf("title %q does not match", listing.Title)
	}
	if listing.CityKnown() && f.city != "" && !strings.Contains(strings.ToLower(listing.City), f.city) {
		return false, fmt.Sprintf("city %q does not contain %q", listing.City, f.city)
	}
	return true, ""
}

func (f *JobFilter) Pattern() string {
	return f.pattern.String()
}
