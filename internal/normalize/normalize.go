package normalize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaceRe = regexp.MustCompile(`\s+`)

var nbsp = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2009", " ")

// Пробелы, которые work.ua ставит внутри сумм: обычный, NBSP, узкий NBSP, тонкий
var salaryNoise = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\u2009", "",
	"грн", "",
)

// CleanText заменяет NBSP на пробел, схлопывает пробелы и обрезает края
func CleanText(s string) string {
	s = nbsp.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanSalary превращает "30 000 – 40 000 грн" в "30000–40000"
func CleanSalary(s string) string {
	return strings.TrimSpace(salaryNoise.Replace(strings.TrimSpace(s)))
}

// FoldTitle приводит текст к виду для сравнения: нижний регистр, NFKD без
// диакритики, украинские і/ї заменены латинской i.
func FoldTitle(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return ukrainianI.Replace(folded)
}

var ukrainianI = strings.NewReplacer("і", "i", "ї", "i")

// ResolveURL делает ссылку абсолютной относительно base и убирает якорь
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil || ref.IsAbs() {
		ref.Fragment = ""
		return ref.String()
	}
	resolved := baseURL.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// Slug склеивает слова запроса через дефис: "водій автобуса" -> "водій-автобуса"
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
