package imagefs

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Writer сохраняет картинки как image_1.jpg, image_2.png, ...
// Нумерация сквозная в пределах запуска, начинается с 1.
type Writer struct {
	dir   string
	count int
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Decode читает только заголовок картинки: размеры и формат
func Decode(data []byte) (width, height int, format string, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, format, nil
}

// Save пишет файл сразу, каталог создаётся при первой записи
func (w *Writer) Save(data []byte, format string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	n := w.count + 1
	path := filepath.Join(w.dir, fmt.Sprintf("image_%d.%s", n, extension(format)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.count = n
	return path, nil
}

// Count — сколько файлов записано
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Dir() string {
	return w.dir
}

func extension(format string) string {
	switch format {
	case "jpeg", "":
		return "jpg"
	default:
		return format
	}
}
