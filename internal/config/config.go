package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Results store backends
const (
	ResultsBackendLocal = "local"
	ResultsBackendAzure = "azure"
)

type Config struct {
	Host string
	Port string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	MaxImageSize     int64
	SupportedFormats []string

	LogLevel string
	DataDir  string

	ImageFetchTimeout  time.Duration
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	ResultsBackend        string
	AzureStorageAccount   string
	AzureStorageKey       string
	AzureResultsContainer string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// IsSupportedFormat reports whether a detected image format (e.g. "jpeg",
// "png") is in the configured supported set. Comparison is case-insensitive.
func (c *Config) IsSupportedFormat(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, supported := range c.SupportedFormats {
		if format == supported {
			return true
		}
	}
	return false
}

func LoadFromEnv() (*Config, error) {
	// Pick up a .env file when present; real environment wins
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8000"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		MaxImageSize:       parseIntOrDefault("MAX_IMAGE_SIZE", 10*1024*1024), // 10MiB
		SupportedFormats:   parseListOrDefault("SUPPORTED_FORMATS", []string{"jpg", "jpeg", "png", "webp"}),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		DataDir:            getEnvOrDefault("DATA_DIR", "data"),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 10*time.Second),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 120*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 12*1024*1024),
		ResultsBackend:     getEnvOrDefault("RESULTS_BACKEND", ResultsBackendLocal),

		AzureStorageAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:       os.Getenv("AZURE_STORAGE_KEY"),
		AzureResultsContainer: os.Getenv("AZURE_RESULTS_CONTAINER"),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxImageSize <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_SIZE must be > 0 (got %d)", cfg.MaxImageSize)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.ImageFetchTimeout <= 0 || cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got fetch=%s, request=%s)",
			cfg.ImageFetchTimeout, cfg.RequestTimeout)
	}
	if len(cfg.SupportedFormats) == 0 {
		return nil, fmt.Errorf("SUPPORTED_FORMATS must not be empty")
	}

	switch cfg.ResultsBackend {
	case ResultsBackendLocal:
	case ResultsBackendAzure:
		if cfg.AzureStorageAccount == "" || cfg.AzureStorageKey == "" || cfg.AzureResultsContainer == "" {
			return nil, fmt.Errorf("azure results backend requires AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY and AZURE_RESULTS_CONTAINER")
		}
	default:
		return nil, fmt.Errorf("invalid RESULTS_BACKEND: %q", cfg.ResultsBackend)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
