package vton

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error classes for the request pipeline. Everything a request can fail with
// wraps one of these so the HTTP layer can map envelopes to status codes
// with errors.Is.
var (
	ErrInvalidImageSource = errors.New("invalid image source")
	ErrInvalidParameter   = errors.New("invalid parameter")
	ErrUpstream           = errors.New("upstream failure")
)

// Category enumerates the garment regions IDM-VTON understands.
type Category string

const (
	CategoryUpperBody Category = "upper_body"
	CategoryLowerBody Category = "lower_body"
	CategoryDresses   Category = "dresses"
)

// Categories lists every supported category, in the order the upstream model
// documents them.
func Categories() []Category {
	return []Category{CategoryUpperBody, CategoryLowerBody, CategoryDresses}
}

// ParseCategory sanitizes free-form input into a supported category. An empty
// string falls back to upper_body; anything else unknown is rejected.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(CategoryUpperBody):
		return CategoryUpperBody, nil
	case string(CategoryLowerBody):
		return CategoryLowerBody, nil
	case string(CategoryDresses):
		return CategoryDresses, nil
	default:
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidParameter, raw)
	}
}

// Bounds and defaults for try-on parameters.
const (
	MinDenoiseSteps     = 10
	MaxDenoiseSteps     = 50
	DefaultDenoiseSteps = 30

	DefaultGarmentDescription = "shirt"
)

// TryOnRequest carries one normalized try-on invocation: a person image, a
// garment image and the synthesis parameters.
type TryOnRequest struct {
	Person             ImageSource
	Garment            ImageSource
	GarmentDescription string
	Category           Category
	DenoiseSteps       int
}

// Validate applies defaults and rejects out-of-range parameters. It must run
// before any normalization or upstream work so bad requests never leave the
// process.
func (r *TryOnRequest) Validate() error {
	if r.Person.IsZero() {
		return fmt.Errorf("%w: person image is required", ErrInvalidImageSource)
	}
	if r.Garment.IsZero() {
		return fmt.Errorf("%w: garment image is required", ErrInvalidImageSource)
	}
	if strings.TrimSpace(r.GarmentDescription) == "" {
		r.GarmentDescription = DefaultGarmentDescription
	}
	category, err := ParseCategory(string(r.Category))
	if err != nil {
		return err
	}
	r.Category = category
	if r.DenoiseSteps == 0 {
		r.DenoiseSteps = DefaultDenoiseSteps
	}
	if r.DenoiseSteps < MinDenoiseSteps || r.DenoiseSteps > MaxDenoiseSteps {
		return fmt.Errorf("%w: denoise_steps must be in [%d,%d], got %d",
			ErrInvalidParameter, MinDenoiseSteps, MaxDenoiseSteps, r.DenoiseSteps)
	}
	return nil
}

// InputSize reports the post-optimization payload size per image, in KB of
// base64 data as submitted upstream.
type InputSize struct {
	PersonKB  int `json:"person_kb"`
	GarmentKB int `json:"garment_kb"`
}

// TryOnResult is the uniform response envelope. Exactly one of OutputURL or
// Error is populated depending on Success.
type TryOnResult struct {
	Success     bool       `json:"success"`
	OutputURL   *string    `json:"output_url"`
	ElapsedTime float64    `json:"elapsed_time"`
	InputSize   *InputSize `json:"input_size"`
	Error       *string    `json:"error"`
}

// InvokeInputs is what the upstream invoker receives: both images already
// optimized and encoded as data URIs, plus the validated parameters.
type InvokeInputs struct {
	PersonDataURI      string
	GarmentDataURI     string
	GarmentDescription string
	Category           Category
	DenoiseSteps       int
}

// Invoker performs one blocking call to the hosted try-on model and returns
// the output image URL. Implementations surface every failure mode wrapped
// in ErrUpstream.
type Invoker interface {
	Run(ctx context.Context, in InvokeInputs) (string, error)
}
