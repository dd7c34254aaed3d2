// Package document defines the block/span model produced by the Markdown
// parser and consumed by the Typst emitter.
//
// Block and Span are closed sum types: sealed interfaces whose marker
// methods can only be implemented inside this package. Every consumer is
// expected to type-switch exhaustively over the variants, so adding a new
// variant surfaces every site that needs updating.
//
// The model is pure data. A document is built once per conversion, read by
// the emitter, and discarded; nothing here is mutated after construction.
package document

import "strings"

// Span is inline content within a block: text, emphasis, code, a link, or
// a hard line break. Implementations are the only Span variants.
type Span interface {
	span()
}

// Text is a run of plain text.
type Text struct {
	Content string
}

// Bold wraps child spans in strong emphasis.
type Bold struct {
	Content []Span
}

// Italic wraps child spans in emphasis.
type Italic struct {
	Content []Span
}

// Code is an inline code span. Content is raw and never re-escaped.
type Code struct {
	Content string
}

// Link wraps child spans in a hyperlink. URLs starting with "#" refer to
// a heading anchor inside the document rather than an external target.
type Link struct {
	URL     string
	Content []Span
}

// LineBreak is a hard (forced) line break inside a paragraph.
type LineBreak struct{}

func (*Text) span()      {}
func (*Bold) span()      {}
func (*Italic) span()    {}
func (*Code) span()      {}
func (*Link) span()      {}
func (*LineBreak) span() {}

// TaskState records the checkbox state of a list item.
type TaskState int8

// Checkbox states. TaskNone marks a plain (non-task) list item.
const (
	TaskNone TaskState = iota
	TaskOpen
	TaskDone
)

// ListItem is a single list entry. Nested, when non-nil, is the sub-list
// owned by this item; a List is never shared between items.
type ListItem struct {
	Content []Span
	Nested  *List
	Checked TaskState
}

// List is an ordered or unordered list. It is owned either by a top-level
// block or by exactly one ListItem's Nested field.
type List struct {
	Ordered bool
	Items   []ListItem
}

// TotalItems counts the items of the list including all nested lists,
// flattened without regard to depth.
func (l *List) TotalItems() int {
	n := len(l.Items)
	for i := range l.Items {
		if l.Items[i].Nested != nil {
			n += l.Items[i].Nested.TotalItems()
		}
	}
	return n
}

// Block is a top-level structural unit of a document.
// Implementations are the only Block variants.
type Block interface {
	block()
}

// Heading is a section heading. Level is always in [1,6]; the parser maps
// the Markdown heading depth directly and the source syntax cannot produce
// anything deeper.
type Heading struct {
	Level   int
	Content []Span
}

// Paragraph is a run of inline content.
type Paragraph struct {
	Content []Span
}

// CodeBlock is a fenced or indented code block. Language is empty when the
// fence carries no info string. Content is verbatim source text.
type CodeBlock struct {
	Language string
	Content  string
}

// Table holds the header row and body rows of a pipe table. Rows are not
// validated against the header cell count; short or long rows pass through
// unchanged.
type Table struct {
	Headers [][]Span
	Rows    [][][]Span
}

// Rule is a horizontal rule.
type Rule struct{}

// PageBreak is an explicit page break, produced only from the literal
// ---pagebreak--- sentinel paragraph.
type PageBreak struct{}

func (*Heading) block()   {}
func (*Paragraph) block() {}
func (*CodeBlock) block() {}
func (*List) block()      {}
func (*Table) block()     {}
func (*Rule) block()      {}
func (*PageBreak) block() {}

// PlainText extracts the text of spans recursively: formatting and link
// wrappers contribute their inner text, line breaks contribute a single
// space. Used for anchor labels and section length estimation.
func PlainText(spans []Span) string {
	var b strings.Builder
	appendPlainText(&b, spans)
	return b.String()
}

func appendPlainText(b *strings.Builder, spans []Span) {
	for _, s := range spans {
		switch s := s.(type) {
		case *Text:
			b.WriteString(s.Content)
		case *Bold:
			appendPlainText(b, s.Content)
		case *Italic:
			appendPlainText(b, s.Content)
		case *Code:
			b.WriteString(s.Content)
		case *Link:
			appendPlainText(b, s.Content)
		case *LineBreak:
			b.WriteByte(' ')
		}
	}
}
