package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"

	"workua-scraper/internal/scraper"
)

// Header — заголовок выгрузки вакансий
var Header = []string{"Назва вакансії", "Компанія", "Зарплата", "Місто", "Час публікації", "Посилання"}

// Write пишет вакансии в CSV (UTF-8) в переданном порядке.
// Пустой список — файл не создаётся, возвращает false.
func Write(path string, listings []scraper.JobListing) (bool, error) {
	if len(listings) == 0 {
		return false, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(Header); err != nil {
		_ = file.Close()
		return false, fmt.Errorf("failed to write header: %w", err)
	}
	for _, l := range listings {
		if err := w.Write([]string{l.Title, l.Company, l.Salary, l.City, l.Published, l.Link}); err != nil {
			_ = file.Close()
			return false, fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return false, fmt.Errorf("failed to flush csv: %w", err)
	}

	if err := file.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return true, nil
}
