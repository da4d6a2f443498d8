package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"vton-server/internal/http/handlers"
	"vton-server/internal/infra"
	"vton-server/internal/middleware"
)

// NewRouter assembles the chi router with the ambient middleware stack.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/", app.Root)
	r.Get("/health", app.Health)

	r.Route("/api/vton", func(r chi.Router) {
		r.Get("/info", app.Info)
		r.Post("/try-on", app.TryOn)
		r.Post("/try-on/upload", app.TryOnUpload)
	})

	return r
}
