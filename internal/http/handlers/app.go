package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vton-server/internal/infra"
	"vton-server/internal/vton"
)

// App carries the handler dependencies: configuration for the info surface
// and the try-on pipeline service.
type App struct {
	Cfg    *infra.Config
	Logger *infra.Logger
	VTON   *vton.Service
}

// NewApp builds the handler container.
func NewApp(cfg *infra.Config, logger *infra.Logger, service *vton.Service) *App {
	return &App{Cfg: cfg, Logger: logger, VTON: service}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForError maps a pipeline error class to an HTTP status. The envelope
// body is identical either way; only the code differs.
func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, vton.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, vton.ErrInvalidImageSource):
		return http.StatusUnprocessableEntity
	case errors.Is(err, vton.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
