package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02 15:04:05"

var (
	// Украинские месяцы в родительном падеже
	ukMonths = [12]string{
		"січня", "лютого", "березня", "квітня", "травня", "червня",
		"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
	}

	publishedInTitleRe = regexp.MustCompile(`вакансія від (\d{1,2} [а-яіїєґ]+ \d{4})`)
	textDateRe         = regexp.MustCompile(`^(\d{1,2})\s+([а-яіїєґ]+)\s+(\d{4})$`)
)

// ConvertISODate переводит "2025-04-15 12:00:00" в "15 квітня 2025".
// Строку в другом формате возвращает без изменений.
func ConvertISODate(isoDate string) string {
	t, err := time.Parse(isoLayout, isoDate)
	if err != nil {
		return isoDate
	}
	return fmt.Sprintf("%d %s %d", t.Day(), ukMonths[t.Month()-1], t.Year())
}

// PublishedFromTitle достаёт дату из атрибута title ссылки:
// "Водій, вакансія від 15 квітня 2025" -> "15 квітня 2025"
func PublishedFromTitle(title string) (string, bool) {
	m := publishedInTitleRe.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseTextDate разбирает "15 квітня 2025" в time.Time (UTC, 00:00:00)
func ParseTextDate(dateStr string) (time.Time, error) {
	dateStr = strings.ToLower(strings.TrimSpace(dateStr))
	if dateStr == "" || dateStr == strings.ToLower(Unspecified) {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	matches := textDateRe.FindStringSubmatch(dateStr)
	if matches == nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
	}

	day, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day: %q: %w", matches[1], err)
	}
	month := monthIndex(matches[2])
	if month == 0 {
		return time.Time{}, fmt.Errorf("unknown month: %s", matches[2])
	}
	year, err := strconv.Atoi(matches[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year: %q: %w", matches[3], err)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid day: %d", day)
	}
	return t, nil
}

func monthIndex(name string) int {
	for i, m := range ukMonths {
		if m == name {
			return i + 1
		}
	}
	return 0
}
