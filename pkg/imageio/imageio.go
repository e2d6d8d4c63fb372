package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"UIAnnotator/internal/entity"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedImage = errors.New("image: unknown or unsupported format")
	ErrEmptyImage       = errors.New("image has no pixels")
)

// exifWindow bounds the search for an APP1 Exif segment; it must start
// within the first marker segments of the file.
const exifWindow = 64 * 1024

var exifHeader = []byte("Exif\x00\x00")

// Inspect reads the header of an uploaded image and returns it with its
// size as displayed. The bytes are kept as-is, except for JPEGs carrying
// EXIF metadata: those are re-encoded upright so the stored pixels, the
// recorded size and every box share one pixel grid.
func Inspect(data []byte, filename string) (entity.Image, error) {
	if len(data) == 0 {
		return entity.Image{}, ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.Image{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return entity.Image{}, ErrEmptyImage
	}

	if filename == "" {
		filename = "image." + format
	}

	img := entity.Image{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Filename: filepath.Base(filename),
		Format:   strings.ToLower(format),
		Data:     data,
	}

	if img.Format == "jpeg" && hasExif(data) {
		upright, err := uprightJPEG(data)
		if err != nil {
			return entity.Image{}, err
		}
		bounds := upright.Bounds()

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, upright, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
			return entity.Image{}, fmt.Errorf("re-encode oriented image: %w", err)
		}
		img.Width, img.Height, img.Data = bounds.Dx(), bounds.Dy(), buf.Bytes()
	}

	return img, nil
}

func hasExif(data []byte) bool {
	return bytes.Contains(data[:min(len(data), exifWindow)], exifHeader)
}

func uprightJPEG(data []byte) (image.Image, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// Decode fully decodes an image, applying EXIF orientation where present.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, nil
}
