// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging prepares uploaded portfolio images for the gallery.
// Images wider than the variant width are downscaled, never upscaled,
// and re-encoded as JPEG, which also strips any embedded metadata.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize caps the accepted upload body.
const MaxUploadSize = 10 << 20

// ErrTooLarge is returned for images whose decoded pixel count would not
// fit comfortably in memory.
var ErrTooLarge = errors.New("imaging: image dimensions too large")

// maxPixels bounds width*height of accepted images (about 40 megapixels).
const maxPixels = 40_000_000

// Variant describes the output size of a processed image.
type Variant struct {
	Name    string // e.g., "card"
	Width   int    // Maximum width in pixels
	Quality int    // JPEG quality 1-100
}

// CardVariant is the single size used by the portfolio grid and detail dialog.
var CardVariant = Variant{Name: "card", Width: 1200, Quality: 82}

// ProcessedImage holds one encoded image ready for upload.
type ProcessedImage struct {
	Name        string
	Width       int
	Height      int
	Data        []byte
	ContentType string // Always "image/jpeg"
}

// Process decodes a JPEG, PNG, GIF or WebP image and returns it resized
// to fit v.Width.
func Process(original []byte, v Variant) (*ProcessedImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: probe failed: %w", err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, ErrTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode failed: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > v.Width {
		h = h * v.Width / w
		w = v.Width
	}
	if h < 1 {
		h = 1
	}

	// JPEG has no alpha, so transparent areas are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: v.Quality}); err != nil {
		return nil, fmt.Errorf("imaging: encode %s: %w", v.Name, err)
	}

	return &ProcessedImage{
		Name:        v.Name,
		Width:       w,
		Height:      h,
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
	}, nil
}
