package typst

// Default link styling applied when no configuration is given.
const (
	DefaultLinkColor = "#1a4f8b"
)

// Options is the resolved layout configuration consumed by Emit. It is
// read-only during emission; callers build it once from their config layer.
type Options struct {
	// LinkColor is a hex color applied to all links.
	LinkColor string
	// UnderlineLinks selects the underlined link style.
	UnderlineLinks bool
	// PageNumbers enables page numbering.
	PageNumbers bool
	// SansFont switches the document to the bundled sans-serif face.
	SansFont bool

	// MinSpace holds a per-heading-level minimum reserved space as a
	// compiler-native length expression (for example "3cm"), indexed by
	// level 1..6. Empty means no reservation.
	MinSpace [7]string
	// BreakIfLines holds a per-heading-level section length threshold;
	// a section at or above it forces a page break before its heading.
	// Zero means no forced break.
	BreakIfLines [7]int
}

// DefaultOptions returns the options used when no configuration is loaded.
func DefaultOptions() *Options {
	return &Options{
		LinkColor:      DefaultLinkColor,
		UnderlineLinks: true,
	}
}

// minSpaceForLevel returns the reserved-space expression for a heading
// level, if one is configured.
func (o *Options) minSpaceForLevel(level int) (string, bool) {
	if level < 1 || level > 6 || o.MinSpace[level] == "" {
		return "", false
	}
	return o.MinSpace[level], true
}

// breakThresholdForLevel returns the forced-break line threshold for a
// heading level, if one is configured.
func (o *Options) breakThresholdForLevel(level int) (int, bool) {
	if level < 1 || level > 6 || o.BreakIfLines[level] <= 0 {
		return 0, false
	}
	return o.BreakIfLines[level], true
}
