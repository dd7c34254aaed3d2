// Package markdown parses Markdown text into the document model.
//
// Parsing is built on goldmark's AST: the tree walk delivers the same
// enter/exit event stream a streaming tokenizer would, and a single
// parseState value folds those events into blocks. Parse is total; there
// is no malformed input, only input goldmark normalizes differently.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/halden/go-md2typst/internal/document"
)

// PageBreakSentinel is the literal paragraph text that produces an
// explicit page break instead of a paragraph.
const PageBreakSentinel = "---pagebreak---"

// md is configured once and reused; goldmark parsers are read-only after
// construction and safe to share across conversions.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.TaskList,
	),
)

// Parse converts Markdown text into a sequence of blocks. It never fails:
// unrecognized constructs degrade per goldmark's own tolerance rules.
// Leading front-matter is stripped first and contributes nothing.
func Parse(markdown string) []document.Block {
	markdown = StripFrontMatter(markdown)
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	s := &parseState{source: source}
	// The walker never returns an error.
	_ = ast.Walk(root, s.walk)
	return s.blocks
}

// parseState is the single mutable context threaded through the walk.
// Inline spans accumulate in spans; spanStack saves partially built
// sequences around nested formatting so unwinding restores the parent.
type parseState struct {
	source []byte
	blocks []document.Block

	spans     []document.Span
	spanStack [][]document.Span
	linkURLs  []string

	lists []*listBuilder

	inTable      bool
	inTableHead  bool
	tableHeaders [][]document.Span
	tableRows    [][][]document.Span
	currentRow   [][]document.Span
}

// listBuilder accumulates one in-progress list. Builders stack for nested
// lists; closing a nested list attaches it to the last item of its parent.
type listBuilder struct {
	ordered     bool
	items       []document.ListItem
	itemSpans   []document.Span
	itemNested  *document.List
	itemChecked document.TaskState
}

func (s *parseState) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Heading:
		if !entering {
			s.blocks = append(s.blocks, &document.Heading{
				Level:   n.Level,
				Content: s.takeSpans(),
			})
		}

	case *ast.Paragraph:
		if !entering {
			s.flushParagraph()
		}

	case *ast.TextBlock:
		// Tight list items carry their inline content in a TextBlock.
		// flushParagraph routes the spans into the active list item.
		if !entering {
			s.flushParagraph()
		}

	case *ast.Text:
		if entering {
			if v := n.Segment.Value(s.source); len(v) > 0 {
				s.spans = append(s.spans, &document.Text{Content: string(v)})
			}
			switch {
			case n.HardLineBreak():
				s.spans = append(s.spans, &document.LineBreak{})
			case n.SoftLineBreak():
				s.spans = append(s.spans, &document.Text{Content: " "})
			}
		}

	case *ast.String:
		if entering && len(n.Value) > 0 {
			s.spans = append(s.spans, &document.Text{Content: string(n.Value)})
		}

	case *ast.CodeSpan:
		if entering {
			s.spans = append(s.spans, &document.Code{Content: s.nodeText(n)})
			return ast.WalkSkipChildren, nil
		}

	case *ast.Emphasis:
		if entering {
			s.pushSpans()
		} else {
			inner := s.takeSpans()
			s.popSpans()
			if n.Level >= 2 {
				s.spans = append(s.spans, &document.Bold{Content: inner})
			} else {
				s.spans = append(s.spans, &document.Italic{Content: inner})
			}
		}

	case *ast.Link:
		if entering {
			s.pushSpans()
			s.linkURLs = append(s.linkURLs, string(n.Destination))
		} else {
			inner := s.takeSpans()
			s.popSpans()
			url := s.linkURLs[len(s.linkURLs)-1]
			s.linkURLs = s.linkURLs[:len(s.linkURLs)-1]
			s.spans = append(s.spans, &document.Link{URL: url, Content: inner})
		}

	case *ast.AutoLink:
		if entering {
			label := string(n.Label(s.source))
			url := string(n.URL(s.source))
			if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
				url = "mailto:" + url
			}
			s.spans = append(s.spans, &document.Link{
				URL:     url,
				Content: []document.Span{&document.Text{Content: label}},
			})
		}

	case *ast.FencedCodeBlock:
		if entering {
			s.blocks = append(s.blocks, &document.CodeBlock{
				Language: string(n.Language(s.source)),
				Content:  s.blockLines(n),
			})
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		// Indented code block: no info string.
		if entering {
			s.blocks = append(s.blocks, &document.CodeBlock{
				Content: s.blockLines(n),
			})
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			s.lists = append(s.lists, &listBuilder{ordered: n.IsOrdered()})
		} else {
			s.closeList()
		}

	case *ast.ListItem:
		if entering {
			lb := s.lists[len(s.lists)-1]
			lb.itemSpans = nil
			lb.itemNested = nil
			lb.itemChecked = document.TaskNone
		} else {
			s.closeListItem()
		}

	case *east.TaskCheckBox:
		if entering && len(s.lists) > 0 {
			lb := s.lists[len(s.lists)-1]
			if n.IsChecked {
				lb.itemChecked = document.TaskDone
			} else {
				lb.itemChecked = document.TaskOpen
			}
		}

	case *east.Table:
		if entering {
			s.inTable = true
			s.tableHeaders = nil
			s.tableRows = nil
		} else {
			s.inTable = false
			s.blocks = append(s.blocks, &document.Table{
				Headers: s.tableHeaders,
				Rows:    s.tableRows,
			})
			s.tableHeaders = nil
			s.tableRows = nil
		}

	case *east.TableHeader:
		if entering {
			s.inTableHead = true
			s.currentRow = nil
		} else {
			s.inTableHead = false
			s.tableHeaders = s.currentRow
			s.currentRow = nil
		}

	case *east.TableRow:
		if entering {
			s.currentRow = nil
		} else if !s.inTableHead {
			s.tableRows = append(s.tableRows, s.currentRow)
			s.currentRow = nil
		}

	case *east.TableCell:
		if entering {
			s.spans = nil
		} else {
			s.currentRow = append(s.currentRow, s.takeSpans())
		}

	case *ast.ThematicBreak:
		if entering {
			s.blocks = append(s.blocks, &document.Rule{})
		}

	case *ast.HTMLBlock, *ast.RawHTML:
		// Raw HTML has no representation in the model.
		if entering {
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// flushParagraph closes the current inline run. Empty paragraphs are
// dropped; the page-break sentinel becomes a PageBreak block; spans inside
// a list item extend that item; spans inside a table are owned by the
// active cell and never form a paragraph.
func (s *parseState) flushParagraph() {
	content := s.takeSpans()
	if len(content) == 0 {
		return
	}

	if len(content) == 1 {
		if t, ok := content[0].(*document.Text); ok && strings.TrimSpace(t.Content) == PageBreakSentinel {
			s.blocks = append(s.blocks, &document.PageBreak{})
			return
		}
	}

	switch {
	case len(s.lists) > 0:
		lb := s.lists[len(s.lists)-1]
		lb.itemSpans = append(lb.itemSpans, content...)
	case s.inTable:
		// Cell content is handled at TableCell exit.
	default:
		s.blocks = append(s.blocks, &document.Paragraph{Content: content})
	}
}

// closeListItem collects any spans still in flight and appends the
// finished item to the innermost builder.
func (s *parseState) closeListItem() {
	lb := s.lists[len(s.lists)-1]
	lb.itemSpans = append(lb.itemSpans, s.takeSpans()...)
	lb.items = append(lb.items, document.ListItem{
		Content: lb.itemSpans,
		Nested:  lb.itemNested,
		Checked: lb.itemChecked,
	})
	lb.itemSpans = nil
	lb.itemNested = nil
	lb.itemChecked = document.TaskNone
}

// closeList pops the innermost builder. A nested list closes before its
// owning item does, so it parks on the parent builder until that item is
// finished; a top-level list becomes a block.
func (s *parseState) closeList() {
	lb := s.lists[len(s.lists)-1]
	s.lists = s.lists[:len(s.lists)-1]

	list := &document.List{Ordered: lb.ordered, Items: lb.items}
	if len(s.lists) > 0 {
		s.lists[len(s.lists)-1].itemNested = list
		return
	}
	s.blocks = append(s.blocks, list)
}

// takeSpans returns the accumulated spans and resets the buffer.
func (s *parseState) takeSpans() []document.Span {
	spans := s.spans
	s.spans = nil
	return spans
}

// pushSpans saves the current span sequence before descending into a
// formatting or link wrapper.
func (s *parseState) pushSpans() {
	s.spanStack = append(s.spanStack, s.spans)
	s.spans = nil
}

// popSpans restores the parent span sequence saved by pushSpans.
func (s *parseState) popSpans() {
	s.spans = s.spanStack[len(s.spanStack)-1]
	s.spanStack = s.spanStack[:len(s.spanStack)-1]
}

// nodeText concatenates the source segments of an inline node's children.
func (s *parseState) nodeText(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(s.source))
		case *ast.String:
			b.Write(c.Value)
		}
	}
	return b.String()
}

// blockLines joins the source lines of a code block verbatim.
func (s *parseState) blockLines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(s.source))
	}
	return b.String()
}
