package sanitizer

import (
	"strings"
	"unicode"
)

// Email trims and lower-cases an address. Nothing else is rewritten:
// the backend matches accounts on the exact address, so dots and plus tags
// must reach it as typed.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Text makes s a single line: control characters are dropped and runs of
// whitespace become one space.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Key is Text lower-cased, for case-insensitive lookups.
func Key(s string) string {
	return strings.ToLower(Text(s))
}
