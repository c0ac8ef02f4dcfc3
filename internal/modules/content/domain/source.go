package domain

import (
	"bytes"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SourceContent is the markdown fetched from a document store at the start of a run.
type SourceContent struct {
	ID        string     `json:"id"`
	Kind      SourceKind `json:"kind"`
	Title     string     `json:"title"`
	Markdown  string     `json:"markdown"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// PlainText renders the markdown to plain text. Code blocks and link targets are dropped,
// link labels and emphasis text are kept.
func (s *SourceContent) PlainText() string {
	return MarkdownToText(s.Markdown)
}

// MarkdownToText walks the goldmark AST and collects text segments, one line per block.
func MarkdownToText(markdown string) string {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(source))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		}
		if !entering && n.Type() == ast.TypeBlock && buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
			buf.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}
