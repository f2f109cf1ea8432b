package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	docfx "github.com/StingyJack/docfx"
)

// Sentinel errors for CLI validation.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// runPDF builds PDFs for the documentation directory named by the first
// positional argument (default "."). Precedence is flags > config file >
// env > defaults, except that DOCFX_TIMEOUT also replaces the config file's
// timeout.
func runPDF(ctx context.Context, args []string, flags *pdfFlags, deps *Dependencies) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	env := loadEnvConfig(deps.Getenv)
	warnUnknownEnvVars(deps.Stderr)

	cfg := docfx.DefaultConfig()
	if path := resolveConfigPath(flags.config, env); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	svc := docfx.New(
		docfx.WithConfig(cfg),
		docfx.WithLogger(newLogger(deps, flags.quiet, flags.verbose)),
		docfx.WithVersion(Version),
	)
	return svc.BuildPDFs(ctx, dir)
}

// applyEnvConfig applies environment variable values to config.
// Base URL and workers are only set where the config file left them
// empty/zero, so a config file value wins over env; a positive env timeout
// always replaces the configured one. Flags are merged afterwards.
func applyEnvConfig(env *envConfig, cfg *docfx.Config) {
	if env.BaseURL != "" && cfg.BaseURL == "" {
		cfg.BaseURL = env.BaseURL
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout
	}
}

// mergeFlags merges CLI flags into config. CLI values override everything.
func mergeFlags(flags *pdfFlags, cfg *docfx.Config) error {
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %q", ErrInvalidTimeout, flags.timeout)
		}
		cfg.Timeout = d
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > docfx.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, docfx.MaxWorkers)
	}
	return nil
}

// newLogger builds the build logger. Quiet shows errors only, verbose adds
// debug output; both set is treated as verbose.
func newLogger(deps *Dependencies, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level}))
}
