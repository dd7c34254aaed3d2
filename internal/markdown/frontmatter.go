package markdown

import "strings"

// frontMatterDelimiter opens and closes a front-matter block. The block is
// only recognized at offset 0.
const frontMatterDelimiter = "---"

// StripFrontMatter removes a leading "---"-delimited front-matter block,
// including the closing delimiter line and any newlines that follow it.
// The block is never parsed for data. If no closing delimiter exists the
// input is returned unchanged, so an unterminated block stays visible as
// content rather than swallowing the whole document.
func StripFrontMatter(markdown string) string {
	if !strings.HasPrefix(markdown, frontMatterDelimiter) {
		return markdown
	}

	rest := markdown[len(frontMatterDelimiter):]
	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return markdown
	}

	after := rest[end+1+len(frontMatterDelimiter):]
	return strings.TrimLeft(after, "\n")
}
