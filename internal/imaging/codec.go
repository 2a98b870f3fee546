// Package imaging converts between the base64 payloads carried over HTTP and
// the tensors and images used by the segmentation pipeline.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const dataURIMarker = "base64,"

// DefaultMaxPixels caps decoded frames at the size Pillow starts warning about
// as a decompression bomb.
const DefaultMaxPixels = 89_478_485

var (
	// ErrEmptyPayload is returned when no image bytes remain after decoding.
	ErrEmptyPayload = errors.New("empty image payload")
	// ErrTooManyPixels is returned for frames larger than the decode limit.
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// StripDataURI drops a leading "data:<mime>;base64," header if present.
func StripDataURI(payload string) string {
	if _, after, found := strings.Cut(payload, dataURIMarker); found {
		return after
	}
	return payload
}

// DecodeBase64Image decodes a possibly data-URI prefixed base64 payload into an
// image and reports the detected format. Frames over maxPixels are rejected from
// the header alone, before any pixel buffer is allocated; maxPixels <= 0
// disables the check.
func DecodeBase64Image(payload string, maxPixels int) (image.Image, string, error) {
	raw := strings.Join(strings.Fields(StripDataURI(payload)), "")
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyPayload
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d is more than %d pixels",
			ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	return img, format, nil
}

// EncodePNGBase64 serialises img as PNG and returns it base64 encoded without
// a data-URI header.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
