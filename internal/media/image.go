// Package media validates and stores uploaded contact pictures.
package media

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrNotImage = errors.New("media: not a supported image")

var extensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"bmp":  ".bmp",
	"tiff": ".tiff",
	"webp": ".webp",
}

// DetectImage reads the image header and returns the decoder format name and
// the file extension used when storing it.
func DetectImage(data []byte) (format, ext string, err error) {
	if len(data) == 0 {
		return "", "", ErrNotImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", "", ErrNotImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", "", ErrNotImage
	}
	ext, ok := extensions[format]
	if !ok {
		return "", "", ErrNotImage
	}
	return format, ext, nil
}
