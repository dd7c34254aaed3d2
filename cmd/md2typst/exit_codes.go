package main

import (
	"errors"
	"os"

	md2typst "github.com/halden/go-md2typst"
)

// Exit codes for md2typst CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitCompiler = 4 // Typst compiler errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Compiler errors (exit 4)
	if errors.Is(err, md2typst.ErrCompilerNotFound) ||
		errors.Is(err, md2typst.ErrCompile) ||
		errors.Is(err, md2typst.ErrNoPages) {
		return ExitCompiler
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, md2typst.ErrConfigParse) ||
		errors.Is(err, md2typst.ErrEmptyMarkdown) ||
		errors.Is(err, md2typst.ErrInvalidLinkColor) ||
		errors.Is(err, md2typst.ErrInvalidBreakThreshold) ||
		errors.Is(err, md2typst.ErrInvalidMinSpace) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrOutputWithBatch) {
		return ExitUsage
	}

	return ExitGeneral
}
