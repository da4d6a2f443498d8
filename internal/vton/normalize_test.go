package vton

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
)

// testPNG renders a small gradient so resized output still has distinct pixels.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveEquivalentAcrossSourceForms(t *testing.T) {
	raw := testPNG(t, 64, 48)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(raw)
	}))
	defer ts.Close()

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	uriSource, err := SourceFromDataURI(dataURI)
	if err != nil {
		t.Fatalf("SourceFromDataURI: %v", err)
	}

	n := NewNormalizer(ts.Client())
	sources := map[string]ImageSource{
		"url":      SourceFromURL(ts.URL + "/img.png"),
		"data uri": uriSource,
		"upload":   SourceFromUpload(raw),
	}

	var reference image.Image
	for name, src := range sources {
		img, err := n.Resolve(context.Background(), src)
		if err != nil {
			t.Fatalf("%s: Resolve: %v", name, err)
		}
		if got := img.Bounds(); got.Dx() != 64 || got.Dy() != 48 {
			t.Fatalf("%s: unexpected bounds %v", name, got)
		}
		if reference == nil {
			reference = img
			continue
		}
		for _, p := range []image.Point{{0, 0}, {63, 47}, {32, 24}} {
			if img.At(p.X, p.Y) != reference.At(p.X, p.Y) {
				t.Fatalf("%s: pixel mismatch at %v", name, p)
			}
		}
	}
}

func TestResolveRejectsUnreachableURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	n := NewNormalizer(ts.Client())
	_, err := n.Resolve(context.Background(), SourceFromURL(ts.URL+"/missing.png"))
	assertErrorClass(t, err, ErrInvalidImageSource)
}

func TestResolveRejectsNonImageContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not an image</html>"))
	}))
	defer ts.Close()

	n := NewNormalizer(ts.Client())
	_, err := n.Resolve(context.Background(), SourceFromURL(ts.URL+"/page"))
	assertErrorClass(t, err, ErrInvalidImageSource)
}

func TestResolveRejectsCorruptUpload(t *testing.T) {
	n := NewNormalizer(nil)
	_, err := n.Resolve(context.Background(), SourceFromUpload([]byte("definitely not pixels")))
	assertErrorClass(t, err, ErrInvalidImageSource)
}

func TestResolveRejectsNonHTTPScheme(t *testing.T) {
	n := NewNormalizer(nil)
	_, err := n.Resolve(context.Background(), SourceFromURL("ftp://example.com/a.png"))
	assertErrorClass(t, err, ErrInvalidImageSource)
}
