package checksum

import (
	"testing"
)

func TestListingKey(t *testing.T) {
	gen := NewGenerator()

	link := "https://www.work.ua/jobs/101/"
	title := "Водій категорії B"
	company := "ТОВ Логістик"

	key1 := gen.ListingKey(link, title, company)
	key2 := gen.ListingKey(link, title, company)

	// Ключ должен быть детерминированным
	if key1 != key2 {
		t.Errorf("Key not deterministic: %s != %s", key1, key2)
	}

	// 64 символа (SHA256 hex)
	if len(key1) != 64 {
		t.Errorf("Key wrong length: %d, expected 64", len(key1))
	}

	if key1 != gen.ListingKey(" "+link, title+"\n", company) {
		t.Errorf("Key should ignore surrounding whitespace")
	}

	if key1 == gen.ListingKey(link, "Водій", company) {
		t.Errorf("Key should change when title changes")
	}
}

func TestVerifyListingKey(t *testing.T) {
	gen := NewGenerator()

	key := gen.ListingKey("https://www.work.ua/jobs/101/", "Водій", "Нова Пошта")

	if !gen.VerifyListingKey(key, "https://www.work.ua/jobs/101/", "Водій", "Нова Пошта") {
		t.Errorf("VerifyListingKey failed for correct data")
	}
	if gen.VerifyListingKey(key, "https://www.work.ua/jobs/102/", "Водій", "Нова Пошта") {
		t.Errorf("VerifyListingKey should fail for wrong link")
	}
}
