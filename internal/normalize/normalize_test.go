package normalize

import (
	"errors"
	"testing"
)

func TestCleanText(t *testing.T) {
	input := "  Київ,  Оболонь \n\t "
	if got := CleanText(input); got != "Київ, Оболонь" {
		t.Errorf("CleanText(%q) = %q", input, got)
	}
}

func TestCleanSalary(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"30 000 – 40 000 грн", "30000–40000"},
		{"25\u00a0000 грн", "25000"},
		{"12\u202f500\u2009грн", "12500"},
		{" 18 000 ", "18000"},
	}

	for _, tt := range tests {
		if got := CleanSalary(tt.input); got != tt.expected {
			t.Errorf("CleanSalary(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseSalary(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"30000–40000", 35000},
		{"20000", 20000},
		{"15000-16000", 15500},
		{"30 000 – 40 001 грн", 35000.5},
		{"unspecified", 0},
		{"Не вказано", 0},
		{"", 0},
		{"договірна", 0},
		{"–5000", 0},
	}

	for _, tt := range tests {
		if got := ParseSalary(tt.input); got != tt.expected {
			t.Errorf("ParseSalary(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestFoldTitle(t *testing.T) {
	// і/ї -> латинская i, й теряет бреве
	if got := FoldTitle("Водій"); got != "вод"+"i"+"и" {
		t.Errorf("FoldTitle(Водій) = %q", got)
	}
	if got := FoldTitle("ЇЖАК"); got != "i"+"жак" {
		t.Errorf("FoldTitle(ЇЖАК) = %q", got)
	}
	if FoldTitle("Водій категорії B") != FoldTitle("водій КАТЕГОРІЇ b") {
		t.Errorf("FoldTitle should be case-insensitive")
	}
}

func TestVacancyPattern(t *testing.T) {
	re, err := VacancyPattern("Водій")
	if err != nil {
		t.Fatalf("VacancyPattern: %v", err)
	}

	matching := []string{
		"Водій",
		"Водій категорії B",
		"Водій кат. C, CE",
		"Водій-експедитор",
		"Досвідчений водій (міжнародні рейси)",
	}
	for _, title := range matching {
		if !re.MatchString(FoldTitle(title)) {
			t.Errorf("expected %q to match", title)
		}
	}

	notMatching := []string{
		"Автоводій",
		"Водійка",
		"Менеджер з продажу",
	}
	for _, title := range notMatching {
		if re.MatchString(FoldTitle(title)) {
			t.Errorf("expected %q not to match", title)
		}
	}
}

func TestVacancyPatternMultiWord(t *testing.T) {
	re, err := VacancyPattern("  водій   автобуса ")
	if err != nil {
		t.Fatalf("VacancyPattern: %v", err)
	}
	if !re.MatchString(FoldTitle("Водій автобуса, кат. D")) {
		t.Errorf("multi-word term should match")
	}
	if re.MatchString(FoldTitle("Водій вантажівки")) {
		t.Errorf("different second word should not match")
	}
}

func TestVacancyPatternEmpty(t *testing.T) {
	if _, err := VacancyPattern("   "); !errors.Is(err, ErrEmptyTerm) {
		t.Errorf("expected ErrEmptyTerm, got %v", err)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base     string
		href     string
		expected string
	}{
		{"https://www.work.ua", "/jobs/123/#top", "https://www.work.ua/jobs/123/"},
		{"https://www.work.ua", "https://example.com/page#anchor", "https://example.com/page"},
		{"https://www.work.ua", "  ", ""},
	}

	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.href); got != tt.expected {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.expected)
		}
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("  Водій  Автобуса "); got != "водій-автобуса" {
		t.Errorf("Slug = %q", got)
	}
}
