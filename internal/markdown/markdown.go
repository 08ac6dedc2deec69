package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Options controls how Markdown is parsed for outline analysis.
type Options struct {
	// DisableTables turns off GFM pipe tables; table rows then parse as paragraphs.
	DisableTables bool
	// DisableFootnotes turns off `[^label]:` footnote definitions.
	DisableFootnotes bool
}

// ParseBody parses a Markdown body (frontmatter already removed) into a Goldmark AST.
//
// Node segments refer to byte offsets in body.
func ParseBody(body []byte, opts Options) gmast.Node {
	exts := make([]goldmark.Extender, 0, 2)
	if !opts.DisableTables {
		exts = append(exts, extension.Table)
	}
	if !opts.DisableFootnotes {
		exts = append(exts, extension.Footnote)
	}
	md := goldmark.New(goldmark.WithExtensions(exts...))
	return md.Parser().Parse(text.NewReader(body))
}
