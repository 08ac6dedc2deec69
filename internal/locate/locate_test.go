package locate

import (
	"testing"

	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(startLine, endLine, endCol int) outline.Span {
	return outline.Span{
		Start: docmodel.Position{Line: startLine},
		End:   docmodel.Position{Line: endLine, Col: endCol},
	}
}

func sampleOutline() *outline.Outline {
	return &outline.Outline{
		Headings: []outline.Heading{
			{Text: "Title", Level: 1, Span: span(0, 0, 7)},
			{Text: "Foo/Bar: Baz!", Level: 2, Span: span(6, 6, 16)},
		},
		Sections: []outline.Section{
			{Type: outline.SectionHeading, Span: span(0, 0, 7)},
			{Type: outline.SectionParagraph, ID: "abc123", Span: span(2, 2, 20)},
			{Type: outline.SectionList, Span: span(4, 5, 8)},
			{Type: outline.SectionHeading, Span: span(6, 6, 16)},
			{Type: outline.SectionCode, Span: span(8, 12, 3)},
		},
		ListItems: []outline.ListItem{
			{Span: span(4, 4, 7)},
			{ID: "item22", Span: span(5, 5, 8)},
		},
	}
}

func TestLocate(t *testing.T) {
	o := sampleOutline()

	tests := []struct {
		name     string
		line     int
		wantOK   bool
		wantKind Kind
		wantID   string
		wantSpan outline.Span
	}{
		{"heading", 0, true, KindHeading, "", span(0, 0, 7)},
		{"blank line between blocks", 1, false, 0, "", outline.Span{}},
		{"paragraph with id", 2, true, KindSection, "abc123", span(2, 2, 20)},
		{"first list item", 4, true, KindListItem, "", span(4, 4, 7)},
		{"second list item", 5, true, KindListItem, "item22", span(5, 5, 8)},
		{"second heading", 6, true, KindHeading, "", span(6, 6, 16)},
		{"code start", 8, true, KindSection, "", span(8, 12, 3)},
		{"code middle", 10, true, KindSection, "", span(8, 12, 3)},
		{"code end inclusive", 12, true, KindSection, "", span(8, 12, 3)},
		{"past end", 13, false, 0, "", outline.Span{}},
		{"negative", -1, false, 0, "", outline.Span{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Locate(o, tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantKind, b.Kind)
			assert.Equal(t, tt.wantID, b.ID())
			assert.Equal(t, tt.wantSpan, b.Span())
		})
	}
}

func TestLocate_HeadingCarriesText(t *testing.T) {
	b, ok := Locate(sampleOutline(), 6)
	require.True(t, ok)
	assert.Equal(t, "Foo/Bar: Baz!", b.Heading.Text)
	assert.Equal(t, outline.SectionHeading, b.Section.Type)
}

func TestLocate_ListItemKeepsSection(t *testing.T) {
	b, ok := Locate(sampleOutline(), 4)
	require.True(t, ok)
	assert.Equal(t, outline.SectionList, b.Section.Type)
}

func TestLocate_NilAndEmpty(t *testing.T) {
	_, ok := Locate(nil, 0)
	assert.False(t, ok)

	_, ok = Locate(&outline.Outline{}, 0)
	assert.False(t, ok)
}

func TestLocate_ListWithoutCoveringItem(t *testing.T) {
	o := &outline.Outline{
		Sections:  []outline.Section{{Type: outline.SectionList, Span: span(0, 4, 3)}},
		ListItems: []outline.ListItem{{Span: span(0, 0, 3)}, {Span: span(4, 4, 3)}},
	}
	_, ok := Locate(o, 2)
	assert.False(t, ok)
}

func TestLocate_HeadingSectionWithoutHeadingEntry(t *testing.T) {
	o := &outline.Outline{
		Sections: []outline.Section{{Type: outline.SectionHeading, Span: span(3, 3, 5)}},
	}
	_, ok := Locate(o, 3)
	assert.False(t, ok)
}

func TestLocate_MalformedOutlineFirstMatchWins(t *testing.T) {
	o := &outline.Outline{
		Sections: []outline.Section{
			{Type: outline.SectionTable, Span: span(5, 9, 4)},
			{Type: outline.SectionParagraph, ID: "second", Span: span(2, 6, 4)},
			{Type: outline.SectionCode, Span: span(0, 3, 3)},
		},
	}

	b, ok := Locate(o, 6)
	require.True(t, ok)
	assert.Equal(t, outline.SectionTable, b.Section.Type)

	b, ok = Locate(o, 3)
	require.True(t, ok)
	assert.Equal(t, "second", b.ID())

	b, ok = Locate(o, 1)
	require.True(t, ok)
	assert.Equal(t, outline.SectionCode, b.Section.Type)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "heading", KindHeading.String())
	assert.Equal(t, "section", KindSection.String())
	assert.Equal(t, "list_item", KindListItem.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
