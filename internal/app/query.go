package app

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"workua-scraper/internal/normalize"
)

var (
	ErrEmptyInput   = errors.New("vacancy and city must not be empty")
	ErrInvalidPages = errors.New("page count must be a number > 0 or 'всі'")
)

// JobQuery — ввод пользователя для поиска вакансий
type JobQuery struct {
	Vacancy string
	City    string
	Pages   int // 0 — все страницы
}

// ParseQuery проверяет ввод: пустые вакансия/город и некорректное
// число страниц — ошибка. "всі" и "all" означают все страницы.
func ParseQuery(vacancy, city, pages string) (JobQuery, error) {
	q := JobQuery{
		Vacancy: strings.ToLower(strings.TrimSpace(vacancy)),
		City:    strings.ToLower(strings.TrimSpace(city)),
	}
	if q.Vacancy == "" || q.City == "" {
		return q, ErrEmptyInput
	}

	pages = strings.ToLower(strings.TrimSpace(pages))
	if pages == "всі" || pages == "all" {
		return q, nil
	}

	n, err := strconv.Atoi(pages)
	if err != nil || n < 1 {
		return q, ErrInvalidPages
	}
	q.Pages = n
	return q, nil
}

func (q JobQuery) AllPages() bool {
	return q.Pages == 0
}

// Label — короткое описание запроса для логов и истории
func (q JobQuery) Label() string {
	return q.Vacancy + "/" + q.City
}

// SearchURL: <base>/jobs-<город>-<вакансия>/
func SearchURL(baseURL string, q JobQuery) string {
	return strings.TrimRight(baseURL, "/") + "/jobs-" + normalize.Slug(q.City) + "-" + normalize.Slug(q.Vacancy) + "/"
}

// ImageSearchURL: <search_url>?q=<запрос>&tbm=isch
func ImageSearchURL(searchURL, query string) string {
	v := url.Values{}
	v.Set("q", strings.TrimSpace(query))
	v.Set("tbm", "isch")
	return searchURL + "?" + v.Encode()
}
