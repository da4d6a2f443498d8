package handlers

import (
	"net/http"
)

// Root serves the service banner with the endpoint map.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"service":     "IDM-VTON API",
		"version":     "1.0.0",
		"status":      "ok",
		"description": "High-quality virtual try-on using IDM-VTON (ECCV2024)",
		"endpoints": map[string]string{
			"health":        "/health",
			"info":          "/api/vton/info",
			"try_on":        "/api/vton/try-on",
			"try_on_upload": "/api/vton/try-on/upload",
		},
	})
}

// Health reports liveness plus whether an upstream credential is present.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":               "healthy",
		"replicate_configured": a.Cfg.ReplicateConfigured(),
		"model":                "IDM-VTON",
	})
}
