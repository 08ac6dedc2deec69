// Package outline describes the structural summary of a Markdown document:
// its headings, top-level sections and list items, each with a line span.
//
// Outlines are read-only snapshots. Build derives one from file content; the
// rest of blockref only reads them.
package outline

import (
	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/util/sets"
)

// SectionType tags a top-level section.
type SectionType string

const (
	SectionHeading            SectionType = "heading"
	SectionParagraph          SectionType = "paragraph"
	SectionList               SectionType = "list"
	SectionBlockquote         SectionType = "blockquote"
	SectionCode               SectionType = "code"
	SectionTable              SectionType = "table"
	SectionComment            SectionType = "comment"
	SectionFootnoteDefinition SectionType = "footnoteDefinition"
	SectionHTML               SectionType = "html"
	SectionThematicBreak      SectionType = "thematicBreak"
)

// Span is an inclusive range of positions.
type Span struct {
	Start docmodel.Position `json:"start"`
	End   docmodel.Position `json:"end"`
}

// CoversLine reports whether line falls within the span, both ends inclusive.
func (s Span) CoversLine(line int) bool {
	return s.Start.Line <= line && line <= s.End.Line
}

// Heading is a heading entry. Text is the raw heading source without markers.
type Heading struct {
	Text  string `json:"heading"`
	Level int    `json:"level"`
	Span  Span   `json:"position"`
}

// Section is a top-level block. ID is the block id already written into the
// document, if any.
type Section struct {
	Type SectionType `json:"type"`
	ID   string      `json:"id,omitempty"`
	Span Span        `json:"position"`
}

// ListItem is a single list item, nested items included. Its span covers the
// item's own lines, not those of its nested items.
type ListItem struct {
	ID   string `json:"id,omitempty"`
	Span Span   `json:"position"`
}

// Outline is the ordered structural summary of one document.
//
// FrontmatterPosition covers the delimited YAML block, when there is one.
// Frontmatter holds its properties and stays nil when the YAML does not parse.
type Outline struct {
	Headings            []Heading      `json:"headings"`
	Sections            []Section      `json:"sections"`
	ListItems           []ListItem     `json:"listItems"`
	Frontmatter         map[string]any `json:"frontmatter,omitempty"`
	FrontmatterPosition *Span          `json:"frontmatterPosition,omitempty"`
}

// InFrontmatter reports whether line lies inside the frontmatter block.
func (o *Outline) InFrontmatter(line int) bool {
	return o != nil && o.FrontmatterPosition != nil && o.FrontmatterPosition.CoversLine(line)
}

// IDs returns every block id present in the outline.
func (o *Outline) IDs() sets.Set[string] {
	ids := sets.New[string]()
	if o == nil {
		return ids
	}
	for _, s := range o.Sections {
		if s.ID != "" {
			ids.Add(s.ID)
		}
	}
	for _, li := range o.ListItems {
		if li.ID != "" {
			ids.Add(li.ID)
		}
	}
	return ids
}
