// Package config collects the gateway's runtime settings from the
// environment, with sane defaults for local use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultMaxUploadSize bounds multipart bodies (200MB).
	DefaultMaxUploadSize = int64(200 * 1024 * 1024)

	// DefaultToolTimeout bounds every external tool invocation. The limit
	// is deliberately generous: LibreOffice and ffmpeg legitimately run for
	// minutes on large inputs.
	DefaultToolTimeout = 2 * time.Minute
)

// Config is the resolved runtime configuration.
type Config struct {
	Port          int
	BaseURL       string
	DataDir       string
	MaxUploadSize int64
	ToolTimeout   time.Duration
}

// Load reads configuration from the environment.
//
//	PORT             listen port (default 8080)
//	BASE_URL         absolute URL clients reach us at (default derived from PORT)
//	DATA_DIR         uploads/ and results/ live here (default ./data)
//	MAX_UPLOAD_SIZE  bytes (default 200MB)
//	TOOL_TIMEOUT     Go duration, e.g. "90s" (default 2m)
func Load() *Config {
	port := envInt("PORT", 8080)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	return &Config{
		Port:          port,
		BaseURL:       baseURL,
		DataDir:       dataDir,
		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", DefaultMaxUploadSize),
		ToolTimeout:   envDuration("TOOL_TIMEOUT", DefaultToolTimeout),
	}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
