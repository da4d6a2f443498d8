package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"vton-server/internal/vton"
)

type tryOnRequest struct {
	PersonImage        string `json:"person_image"`
	GarmentImage       string `json:"garment_image"`
	GarmentDescription string `json:"garment_description"`
	Category           string `json:"category"`
	DenoiseSteps       int    `json:"denoise_steps"`
}

// TryOn handles the JSON endpoint: image fields are URLs or data URIs.
func (a *App) TryOn(w http.ResponseWriter, r *http.Request) {
	var req tryOnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.envelope(w, vton.TryOnResult{}, fmt.Errorf("%w: invalid json payload", vton.ErrInvalidParameter))
		return
	}

	person, err := vton.ParseSource(req.PersonImage)
	if err != nil {
		a.envelope(w, vton.TryOnResult{}, err)
		return
	}
	garment, err := vton.ParseSource(req.GarmentImage)
	if err != nil {
		a.envelope(w, vton.TryOnResult{}, err)
		return
	}

	result, err := a.VTON.TryOn(r.Context(), vton.TryOnRequest{
		Person:             person,
		Garment:            garment,
		GarmentDescription: req.GarmentDescription,
		Category:           vton.Category(req.Category),
		DenoiseSteps:       req.DenoiseSteps,
	})
	a.envelope(w, result, err)
}

// TryOnUpload handles the multipart endpoint: image fields are file uploads,
// the remaining parameters arrive as form values.
func (a *App) TryOnUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(a.Cfg.MaxUploadMB << 20); err != nil {
		a.envelope(w, vton.TryOnResult{}, fmt.Errorf("%w: parse multipart form: %v", vton.ErrInvalidParameter, err))
		return
	}

	person, err := a.formImage(r, "person_image")
	if err != nil {
		a.envelope(w, vton.TryOnResult{}, err)
		return
	}
	garment, err := a.formImage(r, "garment_image")
	if err != nil {
		a.envelope(w, vton.TryOnResult{}, err)
		return
	}

	steps := 0
	if raw := strings.TrimSpace(r.FormValue("denoise_steps")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			a.envelope(w, vton.TryOnResult{}, fmt.Errorf("%w: denoise_steps must be an integer", vton.ErrInvalidParameter))
			return
		}
		steps = parsed
	}

	result, err := a.VTON.TryOn(r.Context(), vton.TryOnRequest{
		Person:             person,
		Garment:            garment,
		GarmentDescription: r.FormValue("garment_description"),
		Category:           vton.Category(r.FormValue("category")),
		DenoiseSteps:       steps,
	})
	a.envelope(w, result, err)
}

// Info returns the static capability metadata for the try-on surface.
func (a *App) Info(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"model":       "IDM-VTON",
		"description": "High-quality virtual try-on model (ECCV2024)",
		"paper":       "https://idm-vton.github.io/",
		"categories":  vton.Categories(),
		"parameters": map[string]any{
			"denoise_steps": map[string]any{
				"type":        "integer",
				"min":         vton.MinDenoiseSteps,
				"max":         vton.MaxDenoiseSteps,
				"default":     vton.DefaultDenoiseSteps,
				"description": "Higher values = better quality but slower",
			},
			"garment_description": map[string]any{
				"type":        "string",
				"description": "Text description of the garment",
				"examples":    []string{"shirt", "dress", "blue cotton t-shirt"},
			},
		},
		"optimal_image_size": fmt.Sprintf("%dx%d or smaller", a.Cfg.MaxImageSize, a.Cfg.MaxImageSize),
		"supported_formats":  []string{"JPG", "PNG", "GIF", "WEBP"},
	})
}

// envelope writes the uniform TryOnResult body with the status derived from
// the error class. A zero-value result with an error still yields a fully
// populated failure envelope.
func (a *App) envelope(w http.ResponseWriter, result vton.TryOnResult, err error) {
	if err != nil && result.Error == nil {
		msg := err.Error()
		result.Error = &msg
	}
	a.json(w, statusForError(err), result)
}

func (a *App) formImage(r *http.Request, field string) (vton.ImageSource, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return vton.ImageSource{}, fmt.Errorf("%w: %s file is required", vton.ErrInvalidImageSource, field)
	}
	defer file.Close()
	data, err := readUpload(file)
	if err != nil {
		return vton.ImageSource{}, fmt.Errorf("%w: read %s: %v", vton.ErrInvalidImageSource, field, err)
	}
	return vton.SourceFromUpload(data), nil
}

func readUpload(file multipart.File) ([]byte, error) {
	return io.ReadAll(file)
}
