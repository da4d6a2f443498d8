package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default Replicate model pins. IDM-VTON is the primary model; the
// alternates stay addressable so operators can switch via environment
// without a redeploy.
const (
	DefaultIDMVTONModel      = "cuuupid/idm-vton:0513734a452173b8173e907e3a59d19a36266e55b48528559432bd21c7d7e985"
	DefaultOOTDiffusionModel = "viktorfa/oot_diffusion:9f8fa4956970dde99689af7488157a30aa152e23953526a605df1d77598343d7"
	DefaultCatVTONModel      = "zhengchong/cat-vton:2e4e24460dd86bdb929df68ff1a76830c605ad1b7cbd4e51a6a1b71d4e5ed1f5"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	ReplicateAPIToken string
	ReplicateBaseURL  string
	IDMVTONModel      string
	OOTDiffusionModel string
	CatVTONModel      string
	MaxImageSize      int
	JPEGQuality       int
	MaxUploadMB       int64
	FetchTimeout      time.Duration
	PredictTimeout    time.Duration
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
	CORSOrigins       []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8000"),
		ReplicateAPIToken: os.Getenv("REPLICATE_API_TOKEN"),
		ReplicateBaseURL:  getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		IDMVTONModel:      getEnv("IDM_VTON_MODEL", DefaultIDMVTONModel),
		OOTDiffusionModel: getEnv("OOT_DIFFUSION_MODEL", DefaultOOTDiffusionModel),
		CatVTONModel:      getEnv("CAT_VTON_MODEL", DefaultCatVTONModel),
		MaxImageSize:      getEnvInt("MAX_IMAGE_SIZE", 768),
		JPEGQuality:       getEnvInt("JPEG_QUALITY", 85),
		MaxUploadMB:       int64(getEnvInt("MAX_UPLOAD_MB", 20)),
		FetchTimeout:      time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 30)),
		PredictTimeout:    time.Second * time.Duration(getEnvInt("PREDICT_TIMEOUT_SECONDS", 300)),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 330)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSOrigins:       splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.MaxImageSize <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_SIZE must be positive")
	}

	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("JPEG_QUALITY must be in [1,100]")
	}

	return cfg, nil
}

// ReplicateConfigured reports whether an API token is present. The server
// still boots without one so /health can report the missing credential.
func (c *Config) ReplicateConfigured() bool {
	return strings.TrimSpace(c.ReplicateAPIToken) != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
