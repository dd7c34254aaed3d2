package md2typst

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/halden/go-md2typst/internal/fonts"
)

// documentCompiler abstracts the external Typst compiler to allow
// different backends and fakes in tests. The compiler is an opaque
// service: it receives the generated markup (plus the embedded fonts)
// and returns a paginated document or a diagnostic.
type documentCompiler interface {
	CompilePDF(ctx context.Context, markup string) ([]byte, error)
	CompileSVG(ctx context.Context, markup string) (*SVGDocument, error)
	Close() error
}

// commandRunner abstracts command execution to enable testing without
// real subprocesses.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// execRunner implements commandRunner using os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// Fallback page dimensions (A4) when the compiled SVG carries no size.
const (
	fallbackPageWidthPt  = 595.0
	fallbackPageHeightPt = 842.0
)

// svgSizePattern extracts the page dimensions from the SVG root element.
var svgSizePattern = regexp.MustCompile(`width="([0-9.]+)pt" height="([0-9.]+)pt"`)

// typstCompiler invokes the typst CLI. Each compilation is a fresh
// process over a fresh temp directory; the only shared state is the
// materialized font directory, written once and read-only afterwards.
type typstCompiler struct {
	bin     string
	timeout time.Duration
	runner  commandRunner
}

// newTypstCompiler resolves the binary path: explicit path, then the
// TYPST_BIN environment variable, then "typst" found on PATH.
func newTypstCompiler(bin string, timeout time.Duration) *typstCompiler {
	if bin == "" {
		bin = os.Getenv("TYPST_BIN")
	}
	if bin == "" {
		bin = "typst"
	}
	return &typstCompiler{bin: bin, timeout: timeout, runner: execRunner{}}
}

// CompilePDF compiles markup to PDF bytes.
func (c *typstCompiler) CompilePDF(ctx context.Context, markup string) ([]byte, error) {
	dir, cleanup, err := writeTempMarkup(markup)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	out := filepath.Join(dir, "main.pdf")
	if err := c.run(ctx, "pdf", filepath.Join(dir, "main.typ"), out); err != nil {
		return nil, err
	}

	pdf, err := os.ReadFile(out) // #nosec G304 -- path built from our own temp dir
	if err != nil {
		return nil, fmt.Errorf("reading compiled PDF: %w", err)
	}
	return pdf, nil
}

// CompileSVG compiles markup to per-page SVG strings plus the page
// dimensions taken from the first page (all pages share one size).
func (c *typstCompiler) CompileSVG(ctx context.Context, markup string) (*SVGDocument, error) {
	dir, cleanup, err := writeTempMarkup(markup)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// {p} expands to the page number, one output file per page.
	out := filepath.Join(dir, "page-{p}.svg")
	if err := c.run(ctx, "svg", filepath.Join(dir, "main.typ"), out); err != nil {
		return nil, err
	}

	var pages []string
	for n := 1; ; n++ {
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("page-%d.svg", n))) // #nosec G304
		if err != nil {
			break
		}
		pages = append(pages, string(data))
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	doc := &SVGDocument{
		Pages:    pages,
		WidthPt:  fallbackPageWidthPt,
		HeightPt: fallbackPageHeightPt,
	}
	if w, h, ok := parseSVGSize(pages[0]); ok {
		doc.WidthPt, doc.HeightPt = w, h
	}
	return doc, nil
}

// Close releases resources. The CLI backend holds none: every compilation
// is a standalone process.
func (c *typstCompiler) Close() error {
	return nil
}

// run invokes the compiler once. Compilation failure is terminal for the
// request; the compiler's own diagnostic is preserved verbatim so it can
// be reported to the user unchanged.
func (c *typstCompiler) run(ctx context.Context, format, input, output string) error {
	fontDir, err := fonts.Dir()
	if err != nil {
		return fmt.Errorf("preparing fonts: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := buildCompileArgs(format, fontDir, input, output)
	stderr, err := c.runner.Run(ctx, c.bin, args...)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrCompilerNotFound, err)
	}
	if diag := strings.TrimSpace(stderr); diag != "" {
		if fonts.Placeholder() {
			return fmt.Errorf("%w: %s (bundled fonts are development placeholders; rebuild with the real font files)", ErrCompile, diag)
		}
		return fmt.Errorf("%w: %s", ErrCompile, diag)
	}
	return fmt.Errorf("%w: %v", ErrCompile, err)
}

// buildCompileArgs assembles the CLI arguments. Only the embedded fonts
// are visible to the compiler so output is identical across machines.
func buildCompileArgs(format, fontDir, input, output string) []string {
	return []string{
		"compile",
		"--format", format,
		"--font-path", fontDir,
		"--ignore-system-fonts",
		input,
		output,
	}
}

// writeTempMarkup creates a temp directory holding main.typ.
// Returns the directory and a cleanup function to remove it.
func writeTempMarkup(markup string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", "go-md2typst-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp directory: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	if err := os.WriteFile(filepath.Join(dir, "main.typ"), []byte(markup), 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing markup file: %w", err)
	}
	return dir, cleanup, nil
}

// parseSVGSize extracts the width/height attributes of an SVG page.
func parseSVGSize(svg string) (width, height float64, ok bool) {
	m := svgSizePattern.FindStringSubmatch(svg)
	if m == nil {
		return 0, 0, false
	}
	width, errW := strconv.ParseFloat(m[1], 64)
	height, errH := strconv.ParseFloat(m[2], 64)
	if errW != nil || errH != nil {
		return 0, 0, false
	}
	return width, height, true
}
