// Package typst emits Typst markup from the document model, applying the
// pagination heuristics that keep the compiled output readable: headings
// stay with their first block of content, short lists and tables never
// split across pages, long sections get page breaks on both sides, and
// headings can reserve lookahead space so the compiler pushes them to the
// next page when too little room remains.
//
// Emit is a pure function of its inputs. The only order-dependent state is
// the pending end-break obligation registered by a forced break and
// discharged at the next heading of equal-or-higher level.
package typst

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/halden/go-md2typst/internal/document"
)

// Directive spellings shared with tests. These form the contract with the
// Typst compiler; they are not a public wire format.
const (
	parDirective  = "#set par(linebreaks: \"optimized\")\n\n"
	sansDirective = "#set text(font: \"Open Sans\")\n\n"
	pageDirective = "#set page(numbering: \"1\")\n\n"

	blockOpen  = "#block(breakable: false)[\n"
	blockClose = "]\n\n"

	ruleDirective      = "#line(length: 100%)\n\n"
	weakBreakDirective = "#pagebreak(weak: true)\n\n"
	hardBreakDirective = "#pagebreak()\n\n"
)

// estimateLineWidth is the character count assumed per rendered line when
// estimating section length.
const estimateLineWidth = 80

// maxUnbreakableListItems is the largest flattened item count for which a
// list is kept on one page.
const maxUnbreakableListItems = 5

// Emit converts blocks to Typst markup under the given options. A nil
// opts uses DefaultOptions. The result depends only on the two inputs.
func Emit(blocks []document.Block, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}

	e := &emitter{opts: opts}
	e.preamble()

	for i := 0; i < len(blocks); i++ {
		h, ok := blocks[i].(*document.Heading)
		if !ok {
			e.block(blocks[i])
			continue
		}

		e.breakBeforeHeading(blocks, i, h)

		// The heading and the block after it share one unbreakable
		// wrapper so a heading never ends up alone at a page bottom.
		e.out.WriteString(blockOpen)
		e.heading(h)
		if i+1 < len(blocks) {
			i++
			e.block(blocks[i])
		}
		e.out.WriteString(blockClose)
	}

	return e.out.String()
}

type emitter struct {
	out  strings.Builder
	opts *Options

	// pendingBreakLevel is the level of an undischarged end-break
	// obligation; zero means none.
	pendingBreakLevel int
}

// preamble writes the fixed-order document setup: paragraph line breaking,
// optional font and page numbering, and the link show rule.
func (e *emitter) preamble() {
	e.out.WriteString(parDirective)
	if e.opts.SansFont {
		e.out.WriteString(sansDirective)
	}
	if e.opts.PageNumbers {
		e.out.WriteString(pageDirective)
	}
	if e.opts.UnderlineLinks {
		fmt.Fprintf(&e.out, "#show link: it => underline(text(fill: rgb(%q), it))\n\n", e.opts.LinkColor)
	} else {
		fmt.Fprintf(&e.out, "#show link: set text(fill: rgb(%q))\n\n", e.opts.LinkColor)
	}
}

// breakBeforeHeading applies the forced-break, pending-obligation, and
// space-reservation heuristics, in that priority order.
func (e *emitter) breakBeforeHeading(blocks []document.Block, i int, h *document.Heading) {
	if threshold, ok := e.opts.breakThresholdForLevel(h.Level); ok {
		if sectionLines(blocks, i, h.Level) >= threshold {
			// A long flagged section starts on a fresh page and owes a
			// second break once the next same-or-higher heading arrives.
			e.pageBreak(weakBreakDirective)
			e.pendingBreakLevel = h.Level
			return
		}
	}

	if e.pendingBreakLevel != 0 && h.Level <= e.pendingBreakLevel {
		e.pageBreak(weakBreakDirective)
		e.pendingBreakLevel = 0
		return
	}

	if space, ok := e.opts.minSpaceForLevel(h.Level); ok {
		// Reserve lookahead space without consuming it: an empty
		// unbreakable block of the required height immediately undone
		// by a negative offset. If the space does not fit, the
		// compiler moves the heading to the next page.
		fmt.Fprintf(&e.out, "#block(height: %s, breakable: false)[]\n#v(-%s)\n", space, space)
	}
}

// pageBreak emits a break directive, first dropping a horizontal rule
// emitted immediately before it; a rule right before a page break is
// redundant.
func (e *emitter) pageBreak(directive string) {
	if s := e.out.String(); strings.HasSuffix(s, ruleDirective) {
		e.out.Reset()
		e.out.WriteString(s[:len(s)-len(ruleDirective)])
	}
	e.out.WriteString(directive)
}

// heading writes the heading line: one marker per level, the escaped
// content, and the derived anchor label when non-empty.
func (e *emitter) heading(h *document.Heading) {
	for i := 0; i < h.Level; i++ {
		e.out.WriteByte('=')
	}
	e.out.WriteByte(' ')
	e.spans(h.Content)
	if label := AnchorLabel(h.Content); label != "" {
		e.out.WriteString(" <")
		e.out.WriteString(label)
		e.out.WriteByte('>')
	}
	e.out.WriteString("\n\n")
}

// block dispatches a single non-lookahead block.
func (e *emitter) block(b document.Block) {
	switch b := b.(type) {
	case *document.Heading:
		// Reached only as the look-ahead block inside a wrapper; no
		// heuristics apply here.
		e.heading(b)

	case *document.Paragraph:
		e.spans(b.Content)
		e.out.WriteString("\n\n")

	case *document.CodeBlock:
		e.out.WriteString(blockOpen)
		e.out.WriteString("```")
		e.out.WriteString(b.Language)
		e.out.WriteByte('\n')
		e.out.WriteString(b.Content)
		if !strings.HasSuffix(b.Content, "\n") {
			e.out.WriteByte('\n')
		}
		e.out.WriteString("```\n")
		e.out.WriteString(blockClose)

	case *document.List:
		if b.TotalItems() <= maxUnbreakableListItems {
			e.out.WriteString(blockOpen)
			e.list(b, 0)
			e.out.WriteString(blockClose)
		} else {
			e.list(b, 0)
			e.out.WriteByte('\n')
		}

	case *document.Table:
		e.out.WriteString(blockOpen)
		e.table(b)
		e.out.WriteString(blockClose)

	case *document.Rule:
		e.out.WriteString(ruleDirective)

	case *document.PageBreak:
		e.pageBreak(hardBreakDirective)
	}
}

// list renders items at the given nesting depth; nested lists recurse
// directly beneath their parent item.
func (e *emitter) list(l *document.List, depth int) {
	marker := "-"
	if l.Ordered {
		marker = "+"
	}
	indent := strings.Repeat("  ", depth)

	for i := range l.Items {
		item := &l.Items[i]
		e.out.WriteString(indent)
		e.out.WriteString(marker)
		e.out.WriteByte(' ')
		e.spans(item.Content)
		e.out.WriteByte('\n')
		if item.Nested != nil {
			e.list(item.Nested, depth+1)
		}
	}
}

// table renders the grid directive with the header cell count as the
// column count. Header cells are bold. A table without headers renders
// nothing; rows with a different cell count pass through unchanged and
// simply flow through the grid.
func (e *emitter) table(t *document.Table) {
	cols := len(t.Headers)
	if cols == 0 {
		return
	}

	fmt.Fprintf(&e.out, "#table(\n  columns: %d,\n", cols)
	for _, cell := range t.Headers {
		e.out.WriteString("  [*")
		e.spans(cell)
		e.out.WriteString("*],\n")
	}
	for _, row := range t.Rows {
		for _, cell := range row {
			e.out.WriteString("  [")
			e.spans(cell)
			e.out.WriteString("],\n")
		}
	}
	e.out.WriteString(")\n")
}

func (e *emitter) spans(spans []document.Span) {
	for _, s := range spans {
		e.span(s)
	}
}

func (e *emitter) span(s document.Span) {
	switch s := s.(type) {
	case *document.Text:
		e.escaped(s.Content)

	case *document.Bold:
		e.out.WriteByte('*')
		e.spans(s.Content)
		e.out.WriteByte('*')

	case *document.Italic:
		e.out.WriteByte('_')
		e.spans(s.Content)
		e.out.WriteByte('_')

	case *document.Code:
		e.out.WriteByte('`')
		e.out.WriteString(strings.ReplaceAll(s.Content, "`", "\\`"))
		e.out.WriteByte('`')

	case *document.Link:
		if frag, ok := strings.CutPrefix(s.URL, "#"); ok {
			// Fragment URLs become internal references to heading
			// anchors rather than external hyperlinks.
			e.out.WriteString("#link(<")
			e.out.WriteString(frag)
			e.out.WriteString(">)[")
		} else {
			e.out.WriteString("#link(\"")
			e.out.WriteString(escapeURL(s.URL))
			e.out.WriteString("\")[")
		}
		e.spans(s.Content)
		e.out.WriteByte(']')

	case *document.LineBreak:
		e.out.WriteString(" \\\n")
	}
}

// escaped writes text with every syntactically significant Typst
// character backslash-escaped, exactly once.
func (e *emitter) escaped(text string) {
	for _, r := range text {
		switch r {
		case '#', '*', '_', '@', '$', '\\', '`', '<', '>', '[', ']':
			e.out.WriteByte('\\')
		}
		e.out.WriteRune(r)
	}
}

// escapeURL escapes only the characters significant inside a quoted
// Typst string: backslash and the quote delimiter.
func escapeURL(url string) string {
	url = strings.ReplaceAll(url, `\`, `\\`)
	return strings.ReplaceAll(url, `"`, `\"`)
}

// AnchorLabel derives the internal reference label for heading content:
// the recursively extracted plain text, lowercased, whitespace mapped to
// hyphens, restricted to ASCII alphanumerics and hyphens.
func AnchorLabel(spans []document.Span) string {
	text := strings.ToLower(document.PlainText(spans))

	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sectionLines estimates the vertical space consumed by everything after
// the heading at start, up to the next heading of equal-or-higher level.
func sectionLines(blocks []document.Block, start int, level int) int {
	lines := 0
	for _, b := range blocks[start+1:] {
		switch b := b.(type) {
		case *document.Heading:
			if b.Level <= level {
				return lines
			}
			lines += 2

		case *document.Paragraph:
			n := len(document.PlainText(b.Content)) / estimateLineWidth
			if n < 1 {
				n = 1
			}
			lines += n

		case *document.CodeBlock:
			lines += countLines(b.Content)

		case *document.List:
			lines += b.TotalItems()

		case *document.Table:
			lines += 1 + len(b.Headers) + len(b.Rows)

		case *document.Rule:
			lines++

		case *document.PageBreak:
			// Free: the compiler starts a fresh page anyway.
		}
	}
	return lines
}

// countLines counts physical lines, ignoring a trailing newline.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
