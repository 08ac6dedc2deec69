package outline

import (
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blockref/internal/docmodel"
	"git.home.luguber.info/inful/blockref/internal/frontmatter"
	"git.home.luguber.info/inful/blockref/internal/markdown"
	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

var (
	trailingIDPattern   = regexp.MustCompile(`(?:^|\s)\^([A-Za-z0-9-]+)\s*$`)
	standaloneIDPattern = regexp.MustCompile(`^\s*\^([A-Za-z0-9-]+)\s*$`)
	setextUnderline     = regexp.MustCompile(`^ {0,3}(?:=+|-+)[ \t]*$`)
	thematicBreakLine   = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	emptyHeadingLine    = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]+#*)?[ \t]*$`)
	codeFenceLine       = regexp.MustCompile("^ {0,3}(?:`{3,}|~{3,})")
	closingFenceLine    = regexp.MustCompile("^ {0,3}(?:`{3,}|~{3,})[ \t]*$")
	footnoteDefLine     = regexp.MustCompile(`^ {0,3}\[\^[^\]\s]+\]:`)
)

// Options controls outline building.
type Options struct {
	Markdown markdown.Options
}

// Build parses content (frontmatter allowed) and returns its outline.
//
// Lines are 0-based file lines and columns are byte offsets within a line.
// Frontmatter lines never belong to a section.
func Build(content []byte, opts Options) (*Outline, error) {
	doc, err := docmodel.Parse(content, docmodel.Options{Lenient: true})
	if err != nil {
		return nil, err
	}

	body := doc.Body()
	b := &builder{
		src:    body,
		starts: docmodel.LineStarts(body),
		offset: doc.LineOffset(),
	}
	root := markdown.ParseBody(body, opts.Markdown)

	blocks := b.blocks(root)
	o := &Outline{
		Headings:  b.headings(root),
		Sections:  b.sections(blocks),
		ListItems: b.listItems(root, blocks),
	}
	if doc.HadFrontmatter() {
		o.FrontmatterPosition = frontmatterSpan(doc)
		if fields, err := frontmatter.ParseYAML(doc.FrontmatterRaw()); err == nil {
			o.Frontmatter = fields
		}
	}
	return o, nil
}

// frontmatterSpan covers both delimiter lines and everything between them.
func frontmatterSpan(doc *docmodel.ParsedDoc) *Span {
	original := doc.Original()
	starts := docmodel.LineStarts(original)
	closing := doc.LineOffset() - 1
	return &Span{
		Start: docmodel.Position{Line: 0, Col: 0},
		End:   docmodel.Position{Line: closing, Col: docmodel.LineLen(original, starts, closing)},
	}
}

// block is a top-level node with its body line range.
type block struct {
	node       gmast.Node
	kind       SectionType
	start, end int
}

type builder struct {
	src    []byte
	starts []int
	offset int
}

func (b *builder) lineOf(off int) int {
	return sort.Search(len(b.starts), func(i int) bool { return b.starts[i] > off }) - 1
}

func (b *builder) line(i int) string {
	s := b.starts[i]
	return string(b.src[s : s+docmodel.LineLen(b.src, b.starts, i)])
}

func (b *builder) blank(i int) bool {
	return strings.TrimSpace(b.line(i)) == ""
}

func (b *builder) span(start, end int) Span {
	first := b.line(start)
	return Span{
		Start: docmodel.Position{Line: start + b.offset, Col: len(first) - len(strings.TrimLeft(first, " \t"))},
		End:   docmodel.Position{Line: end + b.offset, Col: len(b.line(end))},
	}
}

func (b *builder) blocks(root gmast.Node) []block {
	var out []block
	floor := -1

	add := func(n gmast.Node, kind SectionType) {
		start, ok := b.firstLine(n, floor)
		if !ok {
			return
		}
		out = append(out, block{node: n, kind: kind, start: start})
		if last := b.lastLine(n, start); last > floor {
			floor = last
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*east.FootnoteList); ok {
			for fn := list.FirstChild(); fn != nil; fn = fn.NextSibling() {
				add(fn, SectionFootnoteDefinition)
			}
			continue
		}
		if kind, ok := kindOf(n); ok {
			add(n, kind)
		}
	}

	out = append(out, b.orphanFootnotes(out)...)

	// Footnote definitions are moved to the end of the tree by the parser.
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })

	for i := range out {
		upper := len(b.starts)
		if i+1 < len(out) {
			upper = out[i+1].start
		}
		out[i].end = b.blockEnd(out[i], upper)
	}
	return b.mergeComments(out)
}

// orphanFootnotes finds the footnote definitions the parser drops because
// nothing references them. They have no node.
func (b *builder) orphanFootnotes(blocks []block) []block {
	covered := make([]bool, len(b.starts))
	for _, blk := range blocks {
		last := min(b.lastLine(blk.node, blk.start), len(covered)-1)
		for i := blk.start; i <= last; i++ {
			covered[i] = true
		}
	}

	var out []block
	for i := range b.starts {
		if !covered[i] && footnoteDefLine.MatchString(b.line(i)) {
			out = append(out, block{kind: SectionFootnoteDefinition, start: i})
		}
	}
	return out
}

// mergeComments tags `%%` paragraphs as comments and folds the blocks between
// an unclosed `%%` and its closing `%%` into the opening one.
func (b *builder) mergeComments(blocks []block) []block {
	out := make([]block, 0, len(blocks))
	for i := 0; i < len(blocks); i++ {
		blk := blocks[i]
		if blk.kind == SectionParagraph && strings.HasPrefix(strings.TrimSpace(b.line(blk.start)), "%%") {
			blk.kind = SectionComment
			open := b.commentMarkers(blk)%2 == 1
			for open && i+1 < len(blocks) {
				i++
				blk.end = blocks[i].end
				open = b.commentMarkers(blocks[i])%2 == 0
			}
		}
		out = append(out, blk)
	}
	return out
}

func (b *builder) commentMarkers(blk block) int {
	n := 0
	for i := blk.start; i <= blk.end; i++ {
		n += strings.Count(b.line(i), "%%")
	}
	return n
}

func kindOf(n gmast.Node) (SectionType, bool) {
	switch n.(type) {
	case *gmast.Heading:
		return SectionHeading, true
	case *gmast.Paragraph:
		return SectionParagraph, true
	case *gmast.List:
		return SectionList, true
	case *gmast.Blockquote:
		return SectionBlockquote, true
	case *gmast.FencedCodeBlock, *gmast.CodeBlock:
		return SectionCode, true
	case *gmast.HTMLBlock:
		return SectionHTML, true
	case *gmast.ThematicBreak:
		return SectionThematicBreak, true
	case *east.Table:
		return SectionTable, true
	case *east.Footnote:
		return SectionFootnoteDefinition, true
	}
	return "", false
}

// blockEnd returns the last line of blk given that the next block starts at upper.
func (b *builder) blockEnd(blk block, upper int) int {
	if blk.node == nil {
		end := upper - 1
		for end > blk.start && b.blank(end) {
			end--
		}
		return max(end, blk.start)
	}
	last := b.lastLine(blk.node, blk.start)

	switch blk.kind {
	case SectionList, SectionBlockquote, SectionFootnoteDefinition:
		// Containers own everything up to the next block, minus trailing blank lines.
		end := upper - 1
		for end > blk.start && b.blank(end) {
			end--
		}
		return max(end, last)
	case SectionCode:
		if _, fenced := blk.node.(*gmast.FencedCodeBlock); fenced && last+1 < upper && closingFenceLine.MatchString(b.line(last+1)) {
			return last + 1
		}
	case SectionTable:
		// The delimiter row carries no text.
		return max(last, min(blk.start+1, upper-1))
	}
	return last
}

// firstLine returns the body line a node starts on. Nodes that carry no
// source segments are found by scanning forward from floor.
func (b *builder) firstLine(n gmast.Node, floor int) (int, bool) {
	if l, ok := b.firstSegmentLine(n); ok {
		return l, true
	}

	var pattern *regexp.Regexp
	switch n.(type) {
	case *gmast.ThematicBreak:
		pattern = thematicBreakLine
	case *gmast.Heading:
		pattern = emptyHeadingLine
	case *gmast.FencedCodeBlock:
		pattern = codeFenceLine
	default:
		return 0, false
	}
	for i := floor + 1; i < len(b.starts); i++ {
		if pattern.MatchString(b.line(i)) {
			return i, true
		}
	}
	return 0, false
}

func (b *builder) firstSegmentLine(n gmast.Node) (int, bool) {
	if fc, ok := n.(*gmast.FencedCodeBlock); ok {
		if fc.Info != nil {
			return b.lineOf(fc.Info.Segment.Start), true
		}
		if fc.Lines().Len() > 0 {
			return b.lineOf(fc.Lines().At(0).Start) - 1, true
		}
		return 0, false
	}
	if n.Type() == gmast.TypeBlock && n.Lines().Len() > 0 {
		return b.lineOf(n.Lines().At(0).Start), true
	}
	if t, ok := n.(*gmast.Text); ok {
		return b.lineOf(t.Segment.Start), true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := b.firstSegmentLine(c); ok {
			return l, true
		}
	}
	return 0, false
}

// lastLine returns the last body line holding source of n, at least start.
func (b *builder) lastLine(n gmast.Node, start int) int {
	last := start
	note := func(from, to int) {
		if to > from {
			to--
		}
		if l := b.lineOf(to); l > last {
			last = l
		}
	}

	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *gmast.Text:
			note(c.Segment.Start, c.Segment.Stop)
		case *gmast.HTMLBlock:
			if c.HasClosure() {
				note(c.ClosureLine.Start, c.ClosureLine.Stop)
			}
		}
		if c.Type() == gmast.TypeBlock {
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				note(seg.Start, seg.Stop)
			}
		}
		return gmast.WalkContinue, nil
	})

	if _, ok := n.(*gmast.Heading); ok && b.isSetext(start, last) {
		last++
	}
	return last
}

func (b *builder) isSetext(start, last int) bool {
	if last+1 >= len(b.starts) {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(b.line(start)), "#") && setextUnderline.MatchString(b.line(last+1))
}

func (b *builder) sections(blocks []block) []Section {
	sections := make([]Section, 0, len(blocks))
	for _, blk := range blocks {
		kind := blk.kind
		if kind == SectionParagraph {
			first := strings.TrimSpace(b.line(blk.start))
			if m := standaloneIDPattern.FindStringSubmatch(first); m != nil && blk.start == blk.end && len(sections) > 0 {
				// A lone `^id` line names the block above it.
				prev := &sections[len(sections)-1]
				if prev.ID == "" {
					prev.ID = m[1]
				}
				prev.Span = b.span(prev.Span.Start.Line-b.offset, blk.end)
				continue
			}
		}

		s := Section{Type: kind, Span: b.span(blk.start, blk.end)}
		switch kind {
		case SectionParagraph, SectionComment, SectionBlockquote, SectionFootnoteDefinition, SectionHTML:
			s.ID = trailingID(b.line(blk.end))
		}
		sections = append(sections, s)
	}
	return sections
}

func (b *builder) headings(root gmast.Node) []Heading {
	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		h, ok := n.(*gmast.Heading)
		if !entering || !ok {
			return gmast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return gmast.WalkSkipChildren, nil
		}
		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, strings.TrimSpace(string(seg.Value(b.src))))
		}
		start := b.lineOf(lines.At(0).Start)
		headings = append(headings, Heading{
			Text:  strings.Join(parts, " "),
			Level: h.Level,
			Span:  b.span(start, b.lastLine(h, start)),
		})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

func (b *builder) listItems(root gmast.Node, blocks []block) []ListItem {
	var starts []int
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if _, ok := n.(*gmast.ListItem); ok && entering {
			if l, ok := b.firstSegmentLine(n); ok {
				starts = append(starts, l)
			}
		}
		return gmast.WalkContinue, nil
	})

	items := make([]ListItem, 0, len(starts))
	for i, start := range starts {
		container, ok := containing(blocks, start)
		if !ok {
			continue
		}
		upper := container.end + 1
		if i+1 < len(starts) && starts[i+1] <= container.end {
			upper = starts[i+1]
		}
		end := upper - 1
		for end > start && b.blank(end) {
			end--
		}
		end = max(end, start)
		items = append(items, ListItem{
			ID:   trailingID(b.line(end)),
			Span: b.span(start, end),
		})
	}
	return items
}

func containing(blocks []block, line int) (block, bool) {
	for _, blk := range blocks {
		if blk.start <= line && line <= blk.end {
			return blk, true
		}
	}
	return block{}, false
}

func trailingID(line string) string {
	if m := trailingIDPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}
