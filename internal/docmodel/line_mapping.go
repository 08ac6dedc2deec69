package docmodel

import "strings"

// LineOffset returns the number of file lines that precede the body.
//
// If the document has YAML frontmatter, this accounts for the opening
// delimiter line, all raw frontmatter lines and the closing delimiter line.
// Lines are 0-based, so fileLine = LineOffset() + bodyLine.
func (d *ParsedDoc) LineOffset() int {
	if !d.hadFM {
		return 0
	}
	return 2 + strings.Count(string(d.fmRaw), "\n")
}
