package snapshot

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store пишет gzip-снимки HTML страниц выдачи для разбора ошибок
type Store struct {
	dir  string
	keep int
}

// NewStore: keep — через сколько страниц удалять отладочный снимок (0 — не удалять)
func NewStore(dir string, keep int) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir, keep: keep}
}

// SaveError пишет page_<n>_error.html.gz
func (s *Store) SaveError(page int, html string) (string, error) {
	return s.write(fmt.Sprintf("page_%d_error.html.gz", page), html)
}

// SaveDebug пишет page_<n>.html.gz и удаляет снимок страницы n-keep.
// Второе значение — путь удалённого файла или "".
func (s *Store) SaveDebug(page int, html string) (string, string, error) {
	path, err := s.write(debugName(page), html)
	if err != nil {
		return "", "", err
	}

	if s.keep <= 0 || page-s.keep <= 0 {
		return path, "", nil
	}

	old := filepath.Join(s.dir, debugName(page-s.keep))
	if err := os.Remove(old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, "", nil
		}
		return path, "", fmt.Errorf("failed to remove old snapshot: %w", err)
	}
	return path, old, nil
}

func (s *Store) write(name, html string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}

	zw := gzip.NewWriter(file)
	if _, err := zw.Write([]byte(html)); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to finish snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot: %w", err)
	}
	return path, nil
}

func debugName(page int) string {
	return fmt.Sprintf("page_%d.html.gz", page)
}
