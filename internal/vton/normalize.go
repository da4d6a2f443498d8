package vton

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	_ "golang.org/x/image/webp"
)

// maxFetchBytes caps how much of a remote body we are willing to read before
// giving up on it as an image.
const maxFetchBytes = 32 << 20

// Normalizer resolves any ImageSource into decoded pixels. All three source
// forms come out identical for the same underlying bytes, so downstream
// components never branch on origin.
type Normalizer struct {
	client *http.Client
}

// NewNormalizer wires the HTTP client used for remote fetches. A nil client
// falls back to http.DefaultClient.
func NewNormalizer(client *http.Client) *Normalizer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Normalizer{client: client}
}

// Resolve turns a source into decoded pixel data, or fails with an error in
// the ErrInvalidImageSource class.
func (n *Normalizer) Resolve(ctx context.Context, src ImageSource) (image.Image, error) {
	var raw []byte
	switch src.kind {
	case sourceURL:
		fetched, err := n.fetch(ctx, src.url)
		if err != nil {
			return nil, err
		}
		raw = fetched
	case sourceDataURI, sourceUpload:
		raw = src.data
	default:
		return nil, fmt.Errorf("%w: no image provided", ErrInvalidImageSource)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrInvalidImageSource, err)
	}
	return img, nil
}

func (n *Normalizer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid image url %q", ErrInvalidImageSource, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build fetch request: %v", ErrInvalidImageSource, err)
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrInvalidImageSource, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrInvalidImageSource, rawURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !looksLikeImage(ct) {
		return nil, fmt.Errorf("%w: fetch %s: unexpected content type %s", ErrInvalidImageSource, rawURL, ct)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidImageSource, rawURL, err)
	}
	return data, nil
}

func looksLikeImage(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	// Some hosts serve images as octet-stream; the decoder has the final say.
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "application/octet-stream")
}
