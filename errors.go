package md2typst

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown    = errors.New("markdown content cannot be empty")
	ErrCompile          = errors.New("typst compilation failed")
	ErrCompilerNotFound = errors.New("typst binary not found")
	ErrNoPages          = errors.New("compiled document has no pages")

	// Configuration validation errors.
	ErrConfigParse           = errors.New("failed to parse config")
	ErrInvalidLinkColor      = errors.New("invalid link color")
	ErrInvalidBreakThreshold = errors.New("invalid break threshold")
	ErrInvalidMinSpace       = errors.New("invalid minimum space expression")
)
