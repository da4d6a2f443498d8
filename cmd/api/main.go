package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vton-server/internal/http/handlers"
	"vton-server/internal/http/httpapi"
	"vton-server/internal/infra"
	"vton-server/internal/providers/replicate"
	"vton-server/internal/vton"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.ReplicateConfigured() {
		logger.Warn().Msg("REPLICATE_API_TOKEN not set; try-on requests will fail until it is provided")
	}

	client, err := replicate.NewClient(replicate.Options{
		APIToken: cfg.ReplicateAPIToken,
		BaseURL:  cfg.ReplicateBaseURL,
		Model:    cfg.IDMVTONModel,
		Logger:   &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build replicate client")
	}

	service := vton.NewService(
		vton.NewNormalizer(&http.Client{Timeout: cfg.FetchTimeout}),
		vton.NewOptimizer(cfg.MaxImageSize, cfg.JPEGQuality),
		replicate.NewInvoker(client, cfg.PredictTimeout),
		&logger,
	)

	app := handlers.NewApp(cfg, &logger, service)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", client.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
