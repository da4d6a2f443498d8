package vton

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"strings"
	"testing"
)

func decodePayload(t *testing.T, p Payload) image.Image {
	t.Helper()
	encoded, found := strings.CutPrefix(p.DataURI, "data:image/jpeg;base64,")
	if !found {
		t.Fatalf("payload is not a jpeg data uri: %.40s", p.DataURI)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode payload base64: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode payload jpeg: %v", err)
	}
	return img
}

func TestOptimizeFitsBoundingBox(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{"landscape downscale", 1024, 512, 768, 384},
		{"portrait downscale", 512, 1024, 384, 768},
		{"square downscale", 1024, 1024, 768, 768},
		{"already small untouched", 100, 50, 100, 50},
		{"exact box untouched", 768, 768, 768, 768},
	}

	o := NewOptimizer(768, 85)
	n := NewNormalizer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := n.Resolve(context.Background(), SourceFromUpload(testPNG(t, tt.srcW, tt.srcH)))
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			p, err := o.Optimize(src)
			if err != nil {
				t.Fatalf("Optimize: %v", err)
			}
			if p.Width != tt.wantW || p.Height != tt.wantH {
				t.Fatalf("payload dims = %dx%d, want %dx%d", p.Width, p.Height, tt.wantW, tt.wantH)
			}
			img := decodePayload(t, p)
			if b := img.Bounds(); b.Dx() > 768 || b.Dy() > 768 {
				t.Fatalf("encoded image exceeds box: %v", b)
			}
			if p.SizeKB < 0 {
				t.Fatalf("negative size: %d", p.SizeKB)
			}
		})
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	o := NewOptimizer(768, 85)
	n := NewNormalizer(nil)

	src, err := n.Resolve(context.Background(), SourceFromUpload(testPNG(t, 1600, 900)))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	first, err := o.Optimize(src)
	if err != nil {
		t.Fatalf("first Optimize: %v", err)
	}
	second, err := o.Optimize(decodePayload(t, first))
	if err != nil {
		t.Fatalf("second Optimize: %v", err)
	}
	if second.Width != first.Width || second.Height != first.Height {
		t.Fatalf("second pass resized: %dx%d -> %dx%d", first.Width, first.Height, second.Width, second.Height)
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	o := NewOptimizer(768, 85)
	n := NewNormalizer(nil)

	raw := testPNG(t, 900, 600)
	src, err := n.Resolve(context.Background(), SourceFromUpload(raw))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	a, err := o.Optimize(src)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	b, err := o.Optimize(src)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if a.DataURI != b.DataURI {
		t.Fatalf("same input produced different payloads")
	}
}
