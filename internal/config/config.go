package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SnapshotPath           string
	SnapshotRedisURL       string
	SnapshotRedisKey       string
	SnapshotReloadInterval time.Duration
	HTTPPort               string
	MetricsEnabled         bool
	AdminAPIKey            string
	ExportPath             string // optional; XLSX report rewritten after each reload
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		SnapshotPath:           envOrDefault("SNAPSHOT_PATH", ""),
		SnapshotRedisURL:       envOrDefault("SNAPSHOT_REDIS_URL", ""),
		SnapshotRedisKey:       envOrDefault("SNAPSHOT_REDIS_KEY", "earning:snapshot"),
		SnapshotReloadInterval: envOrDefaultDuration("SNAPSHOT_RELOAD_INTERVAL", 30*time.Second),
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		MetricsEnabled:         envOrDefaultBool("METRICS_ENABLED", true),
		AdminAPIKey:            envOrDefault("ADMIN_API_KEY", ""),
		ExportPath:             envOrDefault("EXPORT_PATH", ""),
	}
	if cfg.SnapshotPath == "" && cfg.SnapshotRedisURL == "" {
		slog.Warn("no snapshot source configured", "keys", "SNAPSHOT_PATH, SNAPSHOT_REDIS_URL")
	}
	return cfg
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return b
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
