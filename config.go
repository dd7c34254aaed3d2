package md2typst

import (
	"fmt"
	"os"
	"regexp"

	"github.com/halden/go-md2typst/internal/typst"
	"github.com/halden/go-md2typst/internal/yamlutil"
)

// DefaultLinkColor is used when no configuration sets links.color.
const DefaultLinkColor = typst.DefaultLinkColor

// Config holds all styling and layout options for document generation.
// A Config is loaded (or built) once and read-only during conversion.
type Config struct {
	Links  LinksConfig  `yaml:"links"`
	Page   PageConfig   `yaml:"page"`
	Font   FontConfig   `yaml:"font"`
	Layout LayoutConfig `yaml:"layout"`
}

// LinksConfig defines hyperlink styling.
type LinksConfig struct {
	Color     string `yaml:"color"`     // hex color (default "#1a4f8b")
	Underline bool   `yaml:"underline"` // underline links (default true)
}

// PageConfig defines page-level options.
type PageConfig struct {
	Numbers bool `yaml:"numbers"` // show page numbers (default false)
}

// FontConfig defines font selection.
type FontConfig struct {
	Sans bool `yaml:"sans"` // use the bundled sans-serif face (default false)
}

// LayoutConfig defines the per-heading-level pagination heuristics.
// MinSpace values are compiler-native length expressions (e.g. "3cm");
// empty disables reservation for that level. BreakIfLines values are
// section-length thresholds in estimated lines; zero disables the forced
// break for that level.
type LayoutConfig struct {
	H1MinSpace string `yaml:"h1_min_space"`
	H2MinSpace string `yaml:"h2_min_space"`
	H3MinSpace string `yaml:"h3_min_space"`
	H4MinSpace string `yaml:"h4_min_space"`
	H5MinSpace string `yaml:"h5_min_space"`
	H6MinSpace string `yaml:"h6_min_space"`

	H1BreakIfLines int `yaml:"h1_break_if_lines"`
	H2BreakIfLines int `yaml:"h2_break_if_lines"`
	H3BreakIfLines int `yaml:"h3_break_if_lines"`
	H4BreakIfLines int `yaml:"h4_break_if_lines"`
	H5BreakIfLines int `yaml:"h5_break_if_lines"`
	H6BreakIfLines int `yaml:"h6_break_if_lines"`
}

// MinSpaceForHeading returns the reserved-space expression for a heading
// level (1-6), if one is set.
func (l *LayoutConfig) MinSpaceForHeading(level int) (string, bool) {
	var s string
	switch level {
	case 1:
		s = l.H1MinSpace
	case 2:
		s = l.H2MinSpace
	case 3:
		s = l.H3MinSpace
	case 4:
		s = l.H4MinSpace
	case 5:
		s = l.H5MinSpace
	case 6:
		s = l.H6MinSpace
	}
	return s, s != ""
}

// BreakIfLinesForHeading returns the forced-break threshold for a heading
// level (1-6), if one is set.
func (l *LayoutConfig) BreakIfLinesForHeading(level int) (int, bool) {
	var n int
	switch level {
	case 1:
		n = l.H1BreakIfLines
	case 2:
		n = l.H2BreakIfLines
	case 3:
		n = l.H3BreakIfLines
	case 4:
		n = l.H4BreakIfLines
	case 5:
		n = l.H5BreakIfLines
	case 6:
		n = l.H6BreakIfLines
	}
	return n, n > 0
}

// DefaultConfig returns the configuration used when no file is loaded:
// colored underlined links, serif font, no page numbers, no layout
// heuristics.
func DefaultConfig() *Config {
	return &Config{
		Links: LinksConfig{
			Color:     DefaultLinkColor,
			Underline: true,
		},
	}
}

// Validation patterns.
var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	lengthPattern   = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?(?:pt|mm|cm|in|em)$`)
)

// Validate checks field formats. Called by LoadConfig; available for
// consumers that construct a Config manually.
func (c *Config) Validate() error {
	if c.Links.Color != "" && !hexColorPattern.MatchString(c.Links.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidLinkColor, c.Links.Color)
	}

	for level := 1; level <= 6; level++ {
		if s, ok := c.Layout.MinSpaceForHeading(level); ok && !lengthPattern.MatchString(s) {
			return fmt.Errorf("%w: h%d: %q", ErrInvalidMinSpace, level, s)
		}
	}

	thresholds := []int{
		c.Layout.H1BreakIfLines, c.Layout.H2BreakIfLines, c.Layout.H3BreakIfLines,
		c.Layout.H4BreakIfLines, c.Layout.H5BreakIfLines, c.Layout.H6BreakIfLines,
	}
	for i, n := range thresholds {
		if n < 0 {
			return fmt.Errorf("%w: h%d: %d", ErrInvalidBreakThreshold, i+1, n)
		}
	}

	return nil
}

// LoadConfig reads a YAML config file. A missing file is not an error:
// conversion works with defaults. A file that exists but cannot be parsed
// or fails validation also falls back to defaults, but the returned error
// carries the reason so callers can warn instead of silently masking a
// typo; the returned Config is always usable.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		return cfg, nil
	}

	// Unmarshal on top of the defaults so absent keys keep their
	// default values, matching per-field defaulting.
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// layoutOptions resolves the Config into the emitter's option set.
func (c *Config) layoutOptions() *typst.Options {
	opts := &typst.Options{
		LinkColor:      c.Links.Color,
		UnderlineLinks: c.Links.Underline,
		PageNumbers:    c.Page.Numbers,
		SansFont:       c.Font.Sans,
	}
	if opts.LinkColor == "" {
		opts.LinkColor = DefaultLinkColor
	}
	for level := 1; level <= 6; level++ {
		if s, ok := c.Layout.MinSpaceForHeading(level); ok {
			opts.MinSpace[level] = s
		}
		if n, ok := c.Layout.BreakIfLinesForHeading(level); ok {
			opts.BreakIfLines[level] = n
		}
	}
	return opts
}
