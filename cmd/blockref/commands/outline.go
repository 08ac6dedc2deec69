package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/blockref/internal/outline"
)

// OutlineCmd implements the 'outline' command.
type OutlineCmd struct {
	File   string `arg:"" type:"existingfile" help:"Markdown file to outline"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

// Run prints the outline the locator works from.
func (c *OutlineCmd) Run(g *Global, root *CLI) error {
	e, err := root.open(g.Context, openOptions{})
	if err != nil {
		return err
	}
	defer e.close()

	id, _, err := e.document(c.File)
	if err != nil {
		return err
	}
	ol, err := e.outlines.Outline(id)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(ol)
	}
	return writeOutline(g.Out, ol)
}

func writeOutline(w io.Writer, ol *outline.Outline) error {
	headings := make(map[int]outline.Heading, len(ol.Headings))
	for _, h := range ol.Headings {
		headings[h.Span.Start.Line] = h
	}

	var sb strings.Builder
	if ol.FrontmatterPosition != nil {
		fmt.Fprintf(&sb, "%-18s %s  %d properties\n", "frontmatter", formatSpan(*ol.FrontmatterPosition), len(ol.Frontmatter))
	}
	for _, s := range ol.Sections {
		fmt.Fprintf(&sb, "%-18s %s", s.Type, formatSpan(s.Span))
		if h, ok := headings[s.Span.Start.Line]; ok && s.Type == outline.SectionHeading {
			fmt.Fprintf(&sb, "  %s %s", strings.Repeat("#", h.Level), h.Text)
		}
		if s.ID != "" {
			fmt.Fprintf(&sb, "  ^%s", s.ID)
		}
		sb.WriteString("\n")

		if s.Type != outline.SectionList {
			continue
		}
		for _, li := range ol.ListItems {
			if li.Span.Start.Line < s.Span.Start.Line || li.Span.Start.Line > s.Span.End.Line {
				continue
			}
			fmt.Fprintf(&sb, "  %-16s %s", "item", formatSpan(li.Span))
			if li.ID != "" {
				fmt.Fprintf(&sb, "  ^%s", li.ID)
			}
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func formatSpan(s outline.Span) string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Col, s.End.Line, s.End.Col)
}
