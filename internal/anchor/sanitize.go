package anchor

import "strings"

// illegalHeadingChars are replaced by a space before whitespace is collapsed.
const illegalHeadingChars = "!\"#$%&()*+,.:;<=>?@^`{|}~/[]\\"

// Sanitize turns heading text into a fragment usable after "#". Illegal
// characters become spaces, whitespace runs collapse to one space and the
// result is trimmed. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(heading string) string {
	replaced := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalHeadingChars, r) {
			return ' '
		}
		return r
	}, heading)
	return strings.Join(strings.Fields(replaced), " ")
}
