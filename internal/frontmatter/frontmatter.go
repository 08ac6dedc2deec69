// Package frontmatter splits `---` delimited YAML frontmatter from a Markdown body.
//
// Notes carry frontmatter that is never part of the document outline; callers
// split it off before parsing and use the captured Style when writing back.
// ParseYAML decodes the split-off block into properties.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Style captures the newline shape of a document so rewrites keep it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates YAML frontmatter from the Markdown body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. The returned frontmatter excludes both delimiter lines.
func Split(content []byte) (fm []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	delim := []byte("---" + style.Newline)

	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, style, nil
	}

	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		return []byte{}, rest[len(delim):], true, style, nil
	}

	closing := append([]byte(style.Newline), delim...)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	fmEnd := idx + len(style.Newline)
	return rest[:fmEnd], rest[idx+len(closing):], true, style, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if idx := bytes.IndexByte(content, '\n'); idx > 0 && content[idx-1] == '\r' {
		newline = "\r\n"
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
