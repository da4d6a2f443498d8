package vton

import (
	"errors"
	"testing"
)

func assertErrorClass(t *testing.T, err, class error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error in class %v, got nil", class)
	}
	if !errors.Is(err, class) {
		t.Fatalf("error %v not in class %v", err, class)
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	req := TryOnRequest{
		Person:  SourceFromUpload([]byte{1}),
		Garment: SourceFromUpload([]byte{2}),
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if req.GarmentDescription != DefaultGarmentDescription {
		t.Fatalf("unexpected description: %q", req.GarmentDescription)
	}
	if req.Category != CategoryUpperBody {
		t.Fatalf("unexpected category: %q", req.Category)
	}
	if req.DenoiseSteps != DefaultDenoiseSteps {
		t.Fatalf("unexpected denoise steps: %d", req.DenoiseSteps)
	}
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	req := TryOnRequest{
		Person:   SourceFromUpload([]byte{1}),
		Garment:  SourceFromUpload([]byte{2}),
		Category: "full_body",
	}
	assertErrorClass(t, req.Validate(), ErrInvalidParameter)
}

func TestValidateRejectsOutOfRangeSteps(t *testing.T) {
	for _, steps := range []int{9, 51, -1} {
		req := TryOnRequest{
			Person:       SourceFromUpload([]byte{1}),
			Garment:      SourceFromUpload([]byte{2}),
			DenoiseSteps: steps,
		}
		assertErrorClass(t, req.Validate(), ErrInvalidParameter)
	}
}

func TestValidateRequiresBothImages(t *testing.T) {
	req := TryOnRequest{Garment: SourceFromUpload([]byte{2})}
	assertErrorClass(t, req.Validate(), ErrInvalidImageSource)

	req = TryOnRequest{Person: SourceFromUpload([]byte{1})}
	assertErrorClass(t, req.Validate(), ErrInvalidImageSource)
}

func TestParseCategoryNormalizes(t *testing.T) {
	got, err := ParseCategory("  Upper_Body ")
	if err != nil {
		t.Fatalf("ParseCategory: %v", err)
	}
	if got != CategoryUpperBody {
		t.Fatalf("unexpected category: %q", got)
	}
}
