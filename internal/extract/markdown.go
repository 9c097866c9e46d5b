package extract

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var _ Extractor = (*MarkdownExtractor)(nil)

// MarkdownExtractor flattens a markdown document into page texts.
// Each level-1 heading starts a new page; content before the first heading
// forms the first page. Markdown has no physical pages, so top-level sections
// stand in for them to keep parent chunks at a comparable granularity.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Pages parses the markdown and returns one plain-text page per top-level
// section.
func (e *MarkdownExtractor) Pages(content []byte) ([]string, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty markdown content")
	}

	reader := text.NewReader(content)
	doc := e.parser.Parser().Parse(reader)

	var pages []string
	var current strings.Builder

	flush := func() {
		if page := strings.TrimSpace(current.String()); page != "" {
			pages = append(pages, page)
		}
		current.Reset()
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level == 1 {
			flush()
		}
		blockText := nodeText(node, content)
		if blockText == "" {
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(blockText)
	}
	flush()

	return pages, nil
}

// nodeText collects the plain text of a node and its children.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeBlock:
			writeLines(&b, v, content)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeLines(&b, v, content)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.ListItem:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// writeLines appends the raw source lines of a block node.
func writeLines(b *strings.Builder, n ast.Node, content []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}
