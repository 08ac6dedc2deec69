package docmodel

import (
	"strings"

	"git.home.luguber.info/inful/blockref/internal/foundation/errors"
	"git.home.luguber.info/inful/blockref/internal/markdown"
)

// InsertAt inserts text at pos and returns the full, updated document bytes.
//
// Line breaks in text follow the document's newline style, so CRLF files stay CRLF.
// The ParsedDoc itself is not modified.
func (d *ParsedDoc) InsertAt(pos Position, text string) ([]byte, error) {
	offset, err := d.Offset(pos)
	if err != nil {
		return nil, err
	}

	if nl := d.style.Newline; nl != "" && nl != "\n" {
		text = strings.ReplaceAll(text, "\n", nl)
	}

	out, err := markdown.ApplyEdits(d.original, []markdown.Edit{markdown.Insert(offset, []byte(text))})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to apply insertion").Build()
	}
	return out, nil
}
