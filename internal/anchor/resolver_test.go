package anchor

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"git.home.luguber.info/inful/blockref/internal/blockid"
	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/locate"
	"git.home.luguber.info/inful/blockref/internal/outline"
	"git.home.luguber.info/inful/blockref/internal/util/sets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blockIDToken = regexp.MustCompile(`\^[0-9a-z]{6}\b`)

func codeBlock() locate.Block {
	return locate.Block{
		Kind: locate.KindSection,
		Section: outline.Section{
			Type: outline.SectionCode,
			Span: outline.Span{
				Start: docmodel.Position{Line: 3},
				End:   docmodel.Position{Line: 7, Col: 3},
			},
		},
	}
}

func TestResolveHeading_StableAndSanitized(t *testing.T) {
	r := NewResolver(nil)
	h := outline.Heading{Text: "Foo/Bar: Baz!", Level: 2}

	first := r.ResolveHeading(h)
	assert.Equal(t, "#Foo Bar Baz", first)
	for range 5 {
		assert.Equal(t, first, r.ResolveHeading(h))
	}
}

func TestResolve_HeadingNeverSplices(t *testing.T) {
	r := NewResolver(nil)
	res := r.Resolve(locate.Block{Kind: locate.KindHeading, Heading: outline.Heading{Text: "Intro"}}, nil)

	assert.Equal(t, "#Intro", res.Path)
	assert.True(t, res.Heading)
	assert.Nil(t, res.Splice)
	assert.Empty(t, res.MintedID)
}

func TestResolveBlock_ExistingIDFastPath(t *testing.T) {
	r := NewResolver(nil)

	sec := locate.Block{Kind: locate.KindSection, Section: outline.Section{Type: outline.SectionParagraph, ID: "keep01"}}
	res := r.ResolveBlock(sec, nil)
	assert.Equal(t, "#^keep01", res.Path)
	assert.Nil(t, res.Splice)
	assert.False(t, res.Heading)

	item := locate.Block{Kind: locate.KindListItem, Item: outline.ListItem{ID: "item02"}}
	res = r.ResolveBlock(item, nil)
	assert.Equal(t, "#^item02", res.Path)
	assert.Nil(t, res.Splice)
}

func TestResolveBlock_CodeBlockGetsSeparatedID(t *testing.T) {
	r := NewResolver(nil)
	res := r.ResolveBlock(codeBlock(), nil)

	require.NotNil(t, res.Splice)
	require.Len(t, res.MintedID, blockid.Length)
	assert.Equal(t, "#^"+res.MintedID, res.Path)
	assert.Equal(t, docmodel.Position{Line: 7, Col: 3}, res.Splice.At)
	assert.Equal(t, "\n\n^"+res.MintedID, res.Splice.Text)
}

func TestResolveBlock_ParagraphAndListItemInline(t *testing.T) {
	r := NewResolver(nil)
	end := docmodel.Position{Line: 2, Col: 11}

	para := locate.Block{Kind: locate.KindSection, Section: outline.Section{
		Type: outline.SectionParagraph,
		Span: outline.Span{Start: docmodel.Position{Line: 2}, End: end},
	}}
	res := r.ResolveBlock(para, nil)
	require.NotNil(t, res.Splice)
	assert.Equal(t, " ^"+res.MintedID, res.Splice.Text)
	assert.Equal(t, end, res.Splice.At)

	// List items are inline even though their section is a list.
	item := locate.Block{
		Kind:    locate.KindListItem,
		Section: outline.Section{Type: outline.SectionList},
		Item:    outline.ListItem{Span: outline.Span{End: end}},
	}
	res = r.ResolveBlock(item, nil)
	require.NotNil(t, res.Splice)
	assert.Equal(t, " ^"+res.MintedID, res.Splice.Text)
}

func TestResolveBlock_MintsFreshIDPerCall(t *testing.T) {
	r := NewResolver(blockid.NewWithSource(rand.New(rand.NewPCG(3, 4))))
	a := r.ResolveBlock(codeBlock(), nil)
	b := r.ResolveBlock(codeBlock(), nil)
	assert.NotEqual(t, a.MintedID, b.MintedID)
}

func TestResolveBlock_AvoidsKnownIDs(t *testing.T) {
	collide := blockid.NewWithSource(rand.New(rand.NewPCG(9, 9))).Generate()

	r := NewResolver(blockid.NewWithSource(rand.New(rand.NewPCG(9, 9))))
	res := r.ResolveBlock(codeBlock(), sets.New(collide))
	assert.NotEqual(t, collide, res.MintedID)
}

func TestResolveBlock_SpliceAppliedOnceAddsOneToken(t *testing.T) {
	content := "# Notes\n\nSome paragraph text.\n\n```go\nfmt.Println()\n```\n"
	ol, err := outline.Build([]byte(content), outline.Options{})
	require.NoError(t, err)

	for _, line := range []int{2, 5} {
		blk, ok := locate.Locate(ol, line)
		require.True(t, ok)

		res := NewResolver(nil).Resolve(blk, ol.IDs())
		require.NotNil(t, res.Splice)

		doc, err := docmodel.Parse([]byte(content), docmodel.Options{})
		require.NoError(t, err)
		updated, err := doc.InsertAt(res.Splice.At, res.Splice.Text)
		require.NoError(t, err)

		tokens := blockIDToken.FindAllString(string(updated), -1)
		require.Equal(t, []string{"^" + res.MintedID}, tokens)
		assert.Equal(t, len(content)+len(res.Splice.Text), len(updated))

		// The rebuilt outline sees the id on the same block.
		reparsed, err := outline.Build(updated, outline.Options{})
		require.NoError(t, err)
		again, ok := locate.Locate(reparsed, line)
		require.True(t, ok)
		assert.Equal(t, res.MintedID, again.ID())
		assert.True(t, strings.HasSuffix(res.Path, again.ID()))
	}
}
