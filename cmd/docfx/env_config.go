package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // DOCFX_CONFIG: config file path
	BaseURL    string        // DOCFX_BASE_URL: base URL for external links
	Workers    int           // DOCFX_WORKERS: parallel workers
	Timeout    time.Duration // DOCFX_TIMEOUT: per-page render timeout
}

// knownEnvVars lists valid DOCFX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DOCFX_CONFIG":   true,
	"DOCFX_BASE_URL": true,
	"DOCFX_WORKERS":  true,
	"DOCFX_TIMEOUT":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized DOCFX_* values.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("DOCFX_CONFIG"),
		BaseURL:    getenv("DOCFX_BASE_URL"),
	}

	if timeout := getenv("DOCFX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := getenv("DOCFX_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DOCFX_* variables.
// Helps catch typos like DOCFX_WORKER instead of DOCFX_WORKERS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DOCFX_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}
