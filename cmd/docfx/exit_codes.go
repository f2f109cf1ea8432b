package main

import (
	"errors"
	"os"

	docfx "github.com/StingyJack/docfx"
)

// Exit codes for the docfx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docfx.ErrBrowserConnect) ||
		errors.Is(err, docfx.ErrPageCreate) ||
		errors.Is(err, docfx.ErrPageLoad) ||
		errors.Is(err, docfx.ErrRenderFailed) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrConfigParse) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, docfx.ErrInvalidPaperSize) ||
		errors.Is(err, docfx.ErrInvalidMargin) ||
		errors.Is(err, docfx.ErrTOCParse) {
		return ExitUsage
	}

	return ExitGeneral
}
