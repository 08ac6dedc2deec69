package docmodel

import (
	"bytes"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
)

// Position addresses a point in a document: a 0-based line and a 0-based byte
// column within that line, both in file coordinates (frontmatter included).
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// LineStarts returns the byte offset at which each line of content begins.
// A trailing newline yields a final empty line.
func LineStarts(content []byte) []int {
	starts := make([]int, 1, bytes.Count(content, []byte("\n"))+1)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// LineLen returns the byte length of line i excluding its line terminator.
func LineLen(content []byte, starts []int, i int) int {
	end := len(content)
	if i+1 < len(starts) {
		end = starts[i+1] - 1
	}
	if end > starts[i] && content[end-1] == '\r' {
		end--
	}
	return end - starts[i]
}

// Offset maps pos to a byte offset into the original content.
//
// Columns may address any byte up to and including the end of the line, not
// past the line terminator.
func (d *ParsedDoc) Offset(pos Position) (int, error) {
	starts := LineStarts(d.original)
	if pos.Line < 0 || pos.Line >= len(starts) {
		return 0, errors.ValidationError("line out of range").
			WithContext("line", pos.Line).
			WithContext("lines", len(starts)).
			Build()
	}
	if pos.Col < 0 || pos.Col > LineLen(d.original, starts, pos.Line) {
		return 0, errors.ValidationError("column out of range").
			WithContext("line", pos.Line).
			WithContext("col", pos.Col).
			Build()
	}
	return starts[pos.Line] + pos.Col, nil
}
