package vton

import (
	"encoding/base64"
	"fmt"
	"strings"
)

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceURL
	sourceDataURI
	sourceUpload
)

// ImageSource is a closed tagged union over the three ways a client can hand
// us an image: a remote URL, an embedded base64 data URI, or uploaded bytes.
// It is resolved exactly once by the Normalizer; nothing downstream inspects
// the origin again.
type ImageSource struct {
	kind sourceKind
	url  string
	data []byte
}

// SourceFromURL tags a remote http(s) URL.
func SourceFromURL(url string) ImageSource {
	return ImageSource{kind: sourceURL, url: strings.TrimSpace(url)}
}

// SourceFromDataURI decodes a base64 data URI into raw bytes up front so a
// malformed payload is caught at construction.
func SourceFromDataURI(uri string) (ImageSource, error) {
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return ImageSource{}, fmt.Errorf("%w: malformed data uri", ErrInvalidImageSource)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return ImageSource{}, fmt.Errorf("%w: decode data uri: %v", ErrInvalidImageSource, err)
	}
	return ImageSource{kind: sourceDataURI, data: data}, nil
}

// SourceFromUpload tags raw bytes received via multipart upload.
func SourceFromUpload(data []byte) ImageSource {
	return ImageSource{kind: sourceUpload, data: data}
}

// ParseSource classifies a string-typed image field from a JSON body. Data
// URIs and http(s) URLs are the only accepted forms; local filesystem paths
// are deliberately not resolved for a network-facing service.
func ParseSource(value string) (ImageSource, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return ImageSource{}, fmt.Errorf("%w: empty image field", ErrInvalidImageSource)
	case strings.HasPrefix(trimmed, "data:"):
		return SourceFromDataURI(trimmed)
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return SourceFromURL(trimmed), nil
	default:
		return ImageSource{}, fmt.Errorf("%w: image must be an http(s) url or data uri", ErrInvalidImageSource)
	}
}

// IsZero reports whether the source was never populated.
func (s ImageSource) IsZero() bool {
	return s.kind == sourceNone
}
