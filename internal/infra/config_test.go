package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "r8_test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("unexpected port: %s", cfg.Port)
	}
	if cfg.IDMVTONModel != DefaultIDMVTONModel {
		t.Fatalf("unexpected model: %s", cfg.IDMVTONModel)
	}
	if cfg.MaxImageSize != 768 {
		t.Fatalf("unexpected max image size: %d", cfg.MaxImageSize)
	}
	if cfg.JPEGQuality != 85 {
		t.Fatalf("unexpected jpeg quality: %d", cfg.JPEGQuality)
	}
	if cfg.PredictTimeout != 300*time.Second {
		t.Fatalf("unexpected predict timeout: %s", cfg.PredictTimeout)
	}
	if !cfg.ReplicateConfigured() {
		t.Fatalf("expected replicate to be configured")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("REPLICATE_API_TOKEN", "")
	t.Setenv("MAX_IMAGE_SIZE", "512")
	t.Setenv("JPEG_QUALITY", "70")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxImageSize != 512 {
		t.Fatalf("unexpected max image size: %d", cfg.MaxImageSize)
	}
	if cfg.JPEGQuality != 70 {
		t.Fatalf("unexpected jpeg quality: %d", cfg.JPEGQuality)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.ReplicateConfigured() {
		t.Fatalf("expected missing replicate token")
	}
}

func TestLoadConfigRejectsBadQuality(t *testing.T) {
	t.Setenv("JPEG_QUALITY", "0")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for JPEG_QUALITY=0")
	}
}
