package md2typst

import (
	"context"
	"fmt"

	"github.com/halden/go-md2typst/internal/markdown"
	"github.com/halden/go-md2typst/internal/typst"
)

// Compile-time interface implementation checks.
var _ documentCompiler = (*typstCompiler)(nil)

// Converter orchestrates the markdown-to-PDF conversion pipeline:
// front-matter strip, parse to the document model, Typst markup emission
// with pagination heuristics, external compilation.
// Create with NewConverter, use Convert or ConvertSVG, Close when done.
type Converter struct {
	cfg      converterConfig
	compiler documentCompiler
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g. WithTimeout, WithConfig).
// Returns an error if the configured Config fails validation.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.config == nil {
		c.cfg.config = DefaultConfig()
	}
	if err := c.cfg.config.Validate(); err != nil {
		return nil, err
	}

	// Create the compiler if not injected (e.g. by tests).
	if c.compiler == nil {
		c.compiler = newTypstCompiler(c.cfg.compilerPath, c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the result containing the
// generated markup and the compiled PDF. The context is used for
// cancellation and timeout of the compilation step; parsing and emission
// are pure in-memory transformations with no suspension points.
// Recovers from internal panics to prevent crashes from propagating.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	markup, err := c.markup(input)
	if err != nil {
		return nil, err
	}

	res := &ConvertResult{Markup: markup}
	if input.MarkupOnly {
		return res, nil
	}

	pdf, err := c.compiler.CompilePDF(ctx, markup)
	if err != nil {
		return nil, fmt.Errorf("compiling document: %w", err)
	}

	res.PDF = pdf
	return res, nil
}

// ConvertSVG runs the pipeline and renders each compiled page as an SVG
// string, with the page dimensions in points.
func (c *Converter) ConvertSVG(ctx context.Context, input Input) (doc *SVGDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	markup, err := c.markup(input)
	if err != nil {
		return nil, err
	}

	svg, err := c.compiler.CompileSVG(ctx, markup)
	if err != nil {
		return nil, fmt.Errorf("compiling document: %w", err)
	}
	return svg, nil
}

// Close releases compiler resources.
func (c *Converter) Close() error {
	if c.compiler != nil {
		return c.compiler.Close()
	}
	return nil
}

// markup validates the input and runs the two pure pipeline stages.
func (c *Converter) markup(input Input) (string, error) {
	if input.Markdown == "" {
		return "", ErrEmptyMarkdown
	}

	cfg := c.cfg.config
	if input.Config != nil {
		if err := input.Config.Validate(); err != nil {
			return "", err
		}
		cfg = input.Config
	}

	blocks := markdown.Parse(input.Markdown)
	return typst.Emit(blocks, cfg.layoutOptions()), nil
}

// Markup converts Markdown to Typst markup without compiling it. A nil
// cfg uses defaults. This is the pure two-stage pipeline exposed directly;
// it never fails.
func Markup(md string, cfg *Config) string {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return typst.Emit(markdown.Parse(md), cfg.layoutOptions())
}
