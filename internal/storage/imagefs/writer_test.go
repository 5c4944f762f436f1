package imagefs

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	w, h, format, err := Decode(encodePNG(t, 900, 700))
	require.NoError(t, err)
	assert.Equal(t, 900, w)
	assert.Equal(t, 700, h)
	assert.Equal(t, "png", format)

	_, _, format, err = Decode(encodeJPEG(t, 10, 20))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	_, _, _, err = Decode([]byte("<html>not an image</html>"))
	assert.Error(t, err)
}

func TestSaveNumbersFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "practice_images", "elphie")
	w := NewWriter(dir)

	first, err := w.Save(encodeJPEG(t, 8, 8), "jpeg")
	require.NoError(t, err)
	second, err := w.Save(encodePNG(t, 8, 8), "png")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "image_1.jpg"), first)
	assert.Equal(t, filepath.Join(dir, "image_2.png"), second)
	assert.Equal(t, 2, w.Count())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestNoDirBeforeFirstSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	NewWriter(dir)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
