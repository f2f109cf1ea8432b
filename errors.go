package docfx

import "errors"

// Sentinel errors for library operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRenderFailed   = errors.New("page render failed")

	// Merger errors.
	ErrMalformedPDF   = errors.New("malformed input PDF")
	ErrTooManyObjects = errors.New("merged object count exceeds reserved id range")

	// TOC validation errors.
	ErrTOCParse        = errors.New("failed to parse toc.json")
	ErrOutlineTooLarge = errors.New("outline exceeds maximum node count")

	// Page settings validation errors.
	ErrInvalidPaperSize = errors.New("invalid paper size")
	ErrInvalidMargin    = errors.New("invalid margin")
)
