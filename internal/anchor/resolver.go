// Package anchor derives anchor paths for located blocks and computes the text
// splice needed when a block has no id yet.
package anchor

import (
	"git.home.luguber.info/inful/blockref/internal/blockid"
	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/locate"
	"git.home.luguber.info/inful/blockref/internal/outline"
	"git.home.luguber.info/inful/blockref/internal/util/sets"
)

const (
	headingPrefix = "#"
	blockPrefix   = "#^"
)

// Splice is a single literal insertion at a position.
type Splice struct {
	At   docmodel.Position
	Text string
}

// Resolution is the result of resolving one block. Splice is nil when the
// document needs no change. MintedID is set only when a new id was generated.
type Resolution struct {
	Path     string
	Heading  bool
	Splice   *Splice
	MintedID string
}

// Resolver maps blocks to anchor paths.
type Resolver struct {
	ids *blockid.Generator
}

// NewResolver returns a resolver minting ids with g, or a default generator when g is nil.
func NewResolver(g *blockid.Generator) *Resolver {
	if g == nil {
		g = blockid.New()
	}
	return &Resolver{ids: g}
}

// Resolve dispatches on the block kind. known holds ids already present in
// the document; a nil set disables collision avoidance.
func (r *Resolver) Resolve(b locate.Block, known sets.Set[string]) Resolution {
	if b.Kind == locate.KindHeading {
		return Resolution{Path: r.ResolveHeading(b.Heading), Heading: true}
	}
	return r.ResolveBlock(b, known)
}

// ResolveHeading returns "#" followed by the sanitized heading text.
func (r *Resolver) ResolveHeading(h outline.Heading) string {
	return headingPrefix + Sanitize(h.Text)
}

// ResolveBlock returns the existing "#^id" path, or mints a new id and the
// splice that writes it after the block's end position. Each call mints at
// most one id.
func (r *Resolver) ResolveBlock(b locate.Block, known sets.Set[string]) Resolution {
	if id := b.ID(); id != "" {
		return Resolution{Path: blockPrefix + id}
	}

	id := r.ids.Unique(known)
	sep := inlineSeparator
	if b.Kind == locate.KindSection {
		sep = separatorFor(b.Section.Type)
	}
	return Resolution{
		Path: blockPrefix + id,
		Splice: &Splice{
			At:   b.Span().End,
			Text: sep + "^" + id,
		},
		MintedID: id,
	}
}
