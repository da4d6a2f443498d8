package vton

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// Optimizer re-encodes decoded pixels into a bounded JPEG payload before
// submission upstream. Encoder settings are fixed, so the same input always
// yields the same output.
type Optimizer struct {
	// MaxSize bounds both dimensions; aspect ratio is preserved and images
	// already inside the box are never upscaled.
	MaxSize int
	// Quality is the JPEG quality used for every encode.
	Quality int
}

// NewOptimizer applies the IDM-VTON defaults (768px box, quality 85) for
// non-positive arguments.
func NewOptimizer(maxSize, quality int) *Optimizer {
	if maxSize <= 0 {
		maxSize = 768
	}
	if quality <= 0 {
		quality = 85
	}
	return &Optimizer{MaxSize: maxSize, Quality: quality}
}

// Payload is an optimized image ready for upstream submission.
type Payload struct {
	DataURI string
	// SizeKB is the base64 payload size in whole KB, matching what the
	// upstream request will actually carry.
	SizeKB int
	Width  int
	Height int
}

// Optimize downscales img to fit the bounding box and encodes it as a JPEG
// data URI. Applying it to an already-optimized image changes no dimensions.
func (o *Optimizer) Optimize(img image.Image) (Payload, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return Payload{}, fmt.Errorf("%w: empty image", ErrInvalidImageSource)
	}

	if width > o.MaxSize || height > o.MaxSize {
		scale := float64(o.MaxSize) / float64(width)
		if h := float64(o.MaxSize) / float64(height); h < scale {
			scale = h
		}
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: o.Quality}); err != nil {
		return Payload{}, fmt.Errorf("encode jpeg: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return Payload{
		DataURI: "data:image/jpeg;base64," + encoded,
		SizeKB:  len(encoded) / 1024,
		Width:   width,
		Height:  height,
	}, nil
}
