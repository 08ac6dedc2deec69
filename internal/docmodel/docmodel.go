package docmodel

import (
	stderrors "errors"
	"os"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/frontmatter"
)

// Options controls parsing behavior for ParsedDoc.
type Options struct {
	// Lenient treats a frontmatter block without a closing delimiter as plain
	// body text instead of failing. Editors render such files as Markdown, so
	// outline building uses this mode.
	Lenient bool
}

// ParsedDoc represents a Markdown document split into YAML frontmatter and body.
//
// The original bytes are retained so positions reported in file coordinates
// can be mapped back to byte offsets.
type ParsedDoc struct {
	original []byte
	fmRaw    []byte
	body     []byte
	hadFM    bool
	style    frontmatter.Style
}

// Parse parses raw file content into a ParsedDoc.
func Parse(content []byte, opts Options) (*ParsedDoc, error) {
	fmRaw, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		if !opts.Lenient || !stderrors.Is(err, frontmatter.ErrMissingClosingDelimiter) {
			return nil, errors.WrapError(err, errors.CategoryValidation, "failed to split frontmatter").Build()
		}
		fmRaw, body, had = nil, content, false
	}

	var fmCopy []byte
	if had {
		fmCopy = append([]byte{}, fmRaw...)
	}

	return &ParsedDoc{
		original: append([]byte(nil), content...),
		fmRaw:    fmCopy,
		body:     append([]byte(nil), body...),
		hadFM:    had,
		style:    style,
	}, nil
}

// ParseFile reads a file from disk and parses it into a ParsedDoc.
func ParseFile(path string, opts Options) (*ParsedDoc, error) {
	// #nosec G304 -- path is resolved inside the vault by callers.
	content, err := os.ReadFile(path)
	if err != nil {
		category := errors.CategoryFileSystem
		if os.IsNotExist(err) {
			category = errors.CategoryNotFound
		}
		return nil, errors.WrapError(err, category, "failed to read document").
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(content, opts)
	if err != nil {
		return nil, errors.WrapError(err, errors.GetCategory(err), "failed to parse document").
			WithContext("path", path).
			Build()
	}
	return doc, nil
}

// Original returns a copy of the original bytes.
func (d *ParsedDoc) Original() []byte {
	return append([]byte(nil), d.original...)
}

// HadFrontmatter reports whether the original document contained a YAML frontmatter block.
func (d *ParsedDoc) HadFrontmatter() bool {
	return d.hadFM
}

// FrontmatterRaw returns the raw YAML frontmatter bytes (without delimiters).
//
// If the document had no frontmatter, FrontmatterRaw returns nil.
func (d *ParsedDoc) FrontmatterRaw() []byte {
	if !d.hadFM {
		return nil
	}
	return append([]byte{}, d.fmRaw...)
}

// Body returns the Markdown body bytes (frontmatter removed).
func (d *ParsedDoc) Body() []byte {
	return append([]byte{}, d.body...)
}
