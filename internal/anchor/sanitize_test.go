package anchor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo/Bar: Baz!", "Foo Bar Baz"},
		{"Plain heading", "Plain heading"},
		{"  padded\t\ttabs  ", "padded tabs"},
		{"a.b,c;d", "a b c d"},
		{"[[wiki]] link", "wiki link"},
		{"C# & F#", "C F"},
		{`back\slash`, "back slash"},
		{"keep-dashes_and'quotes", "keep-dashes_and'quotes"},
		{"Ünïcödé stays", "Ünïcödé stays"},
		{"", ""},
		{illegalHeadingChars, ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_IdempotentAndClean(t *testing.T) {
	inputs := []string{
		"Foo/Bar: Baz!",
		"## nested ## hashes",
		"  (parens)   and {braces}  ",
		"a non-breaking space",
		"x" + illegalHeadingChars + "y",
		"^block-looking",
		"",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "not idempotent for %q", in)
		assert.False(t, strings.ContainsAny(once, illegalHeadingChars), "illegal char left in %q", once)
		assert.NotContains(t, once, "  ")
		assert.Equal(t, strings.TrimSpace(once), once)
	}
}
