package analyze

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ppiankov/assay/internal/llm"
)

// MaxImageBytes is the largest screenshot accepted
const MaxImageBytes = 5 << 20

var (
	// ErrImageTooLarge is returned for screenshots over MaxImageBytes
	ErrImageTooLarge = errors.New("screenshot exceeds 5MB")

	// ErrNotImage is returned when the data is not a supported image format
	ErrNotImage = errors.New("unsupported image format")
)

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// LoadImage reads the screenshot a file-backed handle names
func LoadImage(path string) (llm.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("open screenshot: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadImage(f)
}

// ReadImage reads at most MaxImageBytes from r and sniffs the MIME type
func ReadImage(r io.Reader) (llm.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return llm.Image{}, fmt.Errorf("read screenshot: %w", err)
	}
	if len(data) > MaxImageBytes {
		return llm.Image{}, ErrImageTooLarge
	}

	mime := http.DetectContentType(data)
	if !imageTypes[mime] {
		return llm.Image{}, fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	return llm.Image{MIMEType: mime, Data: data}, nil
}
