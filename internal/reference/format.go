package reference

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blockref/internal/foundation/normalization"
)

const embedMarker = "!"

// LinkFormatter builds link syntax for one markdown dialect. target and source
// are vault-relative slash paths; source may be empty when no destination
// document exists yet. subpath starts with "#".
type LinkFormatter interface {
	FormatLink(target, source, subpath, alias string) string
}

// Style names a link dialect.
type Style string

const (
	StyleWikilink Style = "wikilink"
	StyleMarkdown Style = "markdown"
)

var styleNormalizer = normalization.NewNormalizer("link style", map[string]Style{
	"wikilink": StyleWikilink,
	"wiki":     StyleWikilink,
	"markdown": StyleMarkdown,
	"md":       StyleMarkdown,
}, StyleWikilink)

// ParseStyle normalizes a configured link style. Empty means wikilink.
func ParseStyle(s string) (Style, error) {
	return styleNormalizer.Parse(s)
}

// FormatterFor returns the formatter for style.
func FormatterFor(style Style) LinkFormatter {
	if style == StyleMarkdown {
		return MarkdownLinkFormatter{}
	}
	return WikiLinkFormatter{}
}

// Format renders t as link text for a reference placed in destination. The
// embed marker is added when asEmbed is set; the target's own Embed flag only
// records how it was copied.
func Format(t Target, destination string, asEmbed bool, f LinkFormatter) string {
	link := f.FormatLink(t.Document, destination, t.AnchorPath, "")
	if asEmbed {
		return embedMarker + link
	}
	return link
}

// WikiLinkFormatter renders [[note#subpath]] links.
type WikiLinkFormatter struct{}

func (WikiLinkFormatter) FormatLink(target, source, subpath, alias string) string {
	var sb strings.Builder
	sb.WriteString("[[")
	if target != source {
		sb.WriteString(strings.TrimSuffix(target, ".md"))
	}
	sb.WriteString(subpath)
	if alias != "" {
		sb.WriteString("|")
		sb.WriteString(alias)
	}
	sb.WriteString("]]")
	return sb.String()
}

// MarkdownLinkFormatter renders [alias](relative/path.md#subpath) links with
// percent-encoded destinations.
type MarkdownLinkFormatter struct{}

func (MarkdownLinkFormatter) FormatLink(target, source, subpath, alias string) string {
	dest := ""
	if target != source {
		dest = (&url.URL{Path: relativeTo(target, source)}).EscapedPath()
	}
	if frag, ok := strings.CutPrefix(subpath, "#"); ok {
		dest += "#" + (&url.URL{Fragment: frag}).EscapedFragment()
	}
	return "[" + alias + "](" + dest + ")"
}

// relativeTo expresses target relative to the directory of source. An empty
// source leaves target vault-relative.
func relativeTo(target, source string) string {
	if source == "" {
		return target
	}
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(source)), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
