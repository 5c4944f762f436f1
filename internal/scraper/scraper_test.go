package scraper

import (
	"testing"
	"time"
)

func TestConvertISODate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2025-04-15 12:00:00", "15 квітня 2025"},
		{"2024-01-03 08:30:00", "3 січня 2024"},
		{"2023-12-31 23:59:59", "31 грудня 2023"},
		{"2025-04-15", "2025-04-15"},
		{"вчора", "вчора"},
		{"2025-13-01 00:00:00", "2025-13-01 00:00:00"},
		{"", ""},
	}

	for _, tt := range tests {
		if result := ConvertISODate(tt.input); result != tt.expected {
			t.Errorf("ConvertISODate(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestPublishedFromTitle(t *testing.T) {
	got, ok := PublishedFromTitle("Водій категорії B, вакансія від 2 січня 2025")
	if !ok || got != "2 січня 2025" {
		t.Errorf("PublishedFromTitle = %q, %v", got, ok)
	}

	if _, ok := PublishedFromTitle("Водій категорії B"); ok {
		t.Errorf("PublishedFromTitle should not match title without date")
	}
}

func TestParseTextDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"15 квітня 2025", time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), false},
		{" 1 Листопада 2024 ", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), false},
		{"31 лютого 2025", time.Time{}, true},
		{"15 квітень 2025", time.Time{}, true},
		{Unspecified, time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		result, err := ParseTextDate(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTextDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err == nil && !result.Equal(tt.expected) {
			t.Errorf("ParseTextDate(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestCityKnown(t *testing.T) {
	if (JobListing{City: Unspecified}).CityKnown() {
		t.Errorf("Unspecified city should not be known")
	}
	if !(JobListing{City: "Київ"}).CityKnown() {
		t.Errorf("Київ should be known")
	}
}
