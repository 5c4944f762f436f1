package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// ListingKey — SHA256(link|title|company) в hex.
// Поля обрезаются по краям, регистр не меняется.
func (g *Generator) ListingKey(link, title, company string) string {
	content := strings.Join([]string{
		strings.TrimSpace(link),
		strings.TrimSpace(title),
		strings.TrimSpace(company),
	}, "|")

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// VerifyListingKey проверяет соответствие ключа
func (g *Generator) VerifyListingKey(expected, link, title, company string) bool {
	return g.ListingKey(link, title, company) == expected
}
