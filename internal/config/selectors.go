package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"workua-scraper/internal/scraper"
)

// SelectorSet — содержимое файла селекторов: разметка work.ua и выдачи картинок
type SelectorSet struct {
	Jobs   *scraper.Selectors      `yaml:"jobs"`
	Images *scraper.ImageSelectors `yaml:"images"`
}

// LoadSelectors загружает селекторы из YAML файла поверх значений по умолчанию.
// Ключи, которых нет в файле, остаются дефолтными.
func LoadSelectors(filePath string) (*SelectorSet, error) {
	if filePath == "" {
		return nil, fmt.Errorf("selectors file path is empty")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open selectors file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("Warning: failed to close selectors file: %v", closeErr)
		}
	}()

	set := &SelectorSet{
		Jobs:   scraper.DefaultSelectors(),
		Images: scraper.DefaultImageSelectors(),
	}
	if err := yaml.NewDecoder(file).Decode(set); err != nil {
		return nil, fmt.Errorf("failed to parse selectors YAML: %w", err)
	}

	if err := validateSelectors(set); err != nil {
		return nil, err
	}

	return set, nil
}

// Selectors возвращает селекторы из selectors_file или встроенные, если файл не задан.
// Относительный путь считается от каталога configs.
func (c *Config) Selectors() (*SelectorSet, error) {
	if c.SelectorsFile == "" {
		return &SelectorSet{
			Jobs:   scraper.DefaultSelectors(),
			Images: scraper.DefaultImageSelectors(),
		}, nil
	}

	filePath := c.SelectorsFile
	if !filepath.IsAbs(filePath) {
		if _, err := os.Stat(filePath); err != nil {
			filePath = filepath.Join("configs", filePath)
		}
	}

	return LoadSelectors(filePath)
}

// validateSelectors проверяет минимальный набор селекторов
func validateSelectors(s *SelectorSet) error {
	if s.Jobs == nil || s.Images == nil {
		return fmt.Errorf("selectors sections must not be null")
	}
	if s.Jobs.BaseURL == "" {
		return fmt.Errorf("jobs.base_url is required")
	}
	if s.Jobs.CardSelectors == "" {
		return fmt.Errorf("jobs.card_selectors is required")
	}
	if len(s.Jobs.TitleSelectors) == 0 {
		return fmt.Errorf("jobs.title_selectors is required")
	}
	if len(s.Jobs.LinkSelectors) == 0 {
		return fmt.Errorf("jobs.link_selectors is required")
	}
	if s.Jobs.NextPageLink == "" {
		return fmt.Errorf("jobs.next_page_link is required")
	}
	if s.Images.Thumbnail == "" {
		return fmt.Errorf("images.thumbnail is required")
	}
	if s.Images.FullLink == "" || s.Images.URLParam == "" {
		return fmt.Errorf("images.full_link and images.url_param are required")
	}
	return nil
}
