package md2typst

import "time"

// Input contains conversion parameters.
type Input struct {
	Markdown   string  // Markdown content (required)
	Config     *Config // Per-conversion config override (nil = converter config)
	MarkupOnly bool    // Skip compilation, return markup only (for debugging)
}

// ConvertResult holds the outputs of a conversion: the generated Typst
// markup and, unless MarkupOnly was set, the compiled PDF bytes.
type ConvertResult struct {
	Markup string
	PDF    []byte
}

// SVGDocument holds the per-page SVG renderings of a compiled document
// and the page dimensions in points.
type SVGDocument struct {
	Pages    []string
	WidthPt  float64
	HeightPt float64
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout      time.Duration
	config       *Config
	compilerPath string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the compilation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2typst: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithConfig sets the converter-wide configuration. Input.Config still
// overrides it per conversion.
func WithConfig(cfg *Config) Option {
	return func(c *Converter) {
		c.cfg.config = cfg
	}
}

// WithCompilerPath overrides the typst binary path. When unset, the
// TYPST_BIN environment variable and then PATH lookup apply.
func WithCompilerPath(path string) Option {
	return func(c *Converter) {
		c.cfg.compilerPath = path
	}
}
