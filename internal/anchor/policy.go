package anchor

import "git.home.luguber.info/inful/blockref/internal/outline"

const (
	blockSeparator  = "\n\n"
	inlineSeparator = " "
)

// NeedsBlockSeparation reports whether an id appended to a section of type t
// must go on its own blank-separated line. Delimited blocks would swallow or
// be broken by a trailing inline `^id`.
func NeedsBlockSeparation(t outline.SectionType) bool {
	switch t {
	case outline.SectionBlockquote,
		outline.SectionCode,
		outline.SectionTable,
		outline.SectionComment,
		outline.SectionFootnoteDefinition:
		return true
	default:
		return false
	}
}

func separatorFor(t outline.SectionType) string {
	if NeedsBlockSeparation(t) {
		return blockSeparator
	}
	return inlineSeparator
}
