package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// PDF text extraction
	PDFFallbackPdftotext bool

	// Status file updates
	StatusThrottle time.Duration

	// Log level: debug, info, warn, error
	LogLevel string
}

func Load() Config {
	cfg := Config{
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
		StatusThrottle:       envDuration("STATUS_THROTTLE", 750*time.Millisecond),
		LogLevel:             envOr("LOG_LEVEL", "info"),
	}

	if cfg.StatusThrottle <= 0 {
		cfg.StatusThrottle = 750 * time.Millisecond
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
