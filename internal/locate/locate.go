// Package locate finds the structural unit of an outline that a cursor line
// belongs to.
package locate

import "git.home.luguber.info/inful/blockref/internal/outline"

// Kind tags which variant a Block holds.
type Kind int

const (
	KindHeading Kind = iota + 1
	KindSection
	KindListItem
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindSection:
		return "section"
	case KindListItem:
		return "list_item"
	default:
		return "unknown"
	}
}

// Block is the resolved addressable unit under a cursor. Section is always the
// top-level section that matched; Heading and Item are only meaningful for
// their own Kind.
type Block struct {
	Kind    Kind
	Section outline.Section
	Heading outline.Heading
	Item    outline.ListItem
}

// Span returns the span of the addressable unit itself.
func (b Block) Span() outline.Span {
	switch b.Kind {
	case KindHeading:
		return b.Heading.Span
	case KindListItem:
		return b.Item.Span
	default:
		return b.Section.Span
	}
}

// ID returns the block id already written for the unit. Headings never carry one.
func (b Block) ID() string {
	switch b.Kind {
	case KindListItem:
		return b.Item.ID
	case KindSection:
		return b.Section.ID
	default:
		return ""
	}
}

// Locate returns the block covering line. The first section in outline order
// whose span covers line wins, so overlapping or unsorted outlines still
// resolve to something deterministic. List sections are narrowed to their
// covering list item and heading sections to the heading starting on the same
// line; when that narrowing finds nothing the result is none.
func Locate(o *outline.Outline, line int) (Block, bool) {
	if o == nil {
		return Block{}, false
	}
	for _, s := range o.Sections {
		if !s.Span.CoversLine(line) {
			continue
		}
		switch s.Type {
		case outline.SectionList:
			for _, li := range o.ListItems {
				if li.Span.CoversLine(line) {
					return Block{Kind: KindListItem, Section: s, Item: li}, true
				}
			}
			return Block{}, false
		case outline.SectionHeading:
			for _, h := range o.Headings {
				if h.Span.Start.Line == s.Span.Start.Line {
					return Block{Kind: KindHeading, Section: s, Heading: h}, true
				}
			}
			return Block{}, false
		default:
			return Block{Kind: KindSection, Section: s}, true
		}
	}
	return Block{}, false
}
