package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrEmptyTerm = errors.New("search term is empty")

// RE2 \b is ASCII-only, so Cyrillic word edges are spelled out explicitly.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// VacancyPattern строит регулярку по запросу пользователя. Сравнивать её нужно
// с FoldTitle(title). После самого запроса допускаются уточняющие слова через
// пробел или дефис, категория прав ("кат. B", "категорії C, CE") и хвост из
// слов или скобок: "Водій категорії B", "Водій-експедитор (міжнародні рейси)".
func VacancyPattern(term string) (*regexp.Regexp, error) {
	words := strings.Fields(FoldTitle(term))
	if len(words) == 0 {
		return nil, ErrEmptyTerm
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	base := strings.Join(words, `\s+`)

	category := regexp.QuoteMeta(FoldTitle("категорі")) + `i?`
	pattern := `(?i)` + wordStart + base +
		`(?:[-\s]\p{L}+)*` +
		`(?:[,.\s]*(?:кат\.?|` + category + `)\s*\p{L}+(?:[,\s]*\p{L}+)*)?` +
		`(?:[,.\s(][\p{L}\s()]+)?` +
		wordEnd

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile vacancy pattern for %q: %w", term, err)
	}
	return re, nil
}
