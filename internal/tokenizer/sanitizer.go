// Package tokenizer turns raw user queries into independent symptom mentions.
// Sanitize cleans the text, Chunker splits it.
package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Sanitize normalizes raw input to NFKC, blanks out control/format characters and
// anything outside the allowed set (Hangul syllables, ASCII letters and digits,
// whitespace and the delimiters '#', ',', '/', '&'), then collapses whitespace.
// It never fails; empty input yields "".
func Sanitize(input string) string {
	if input == "" {
		return ""
	}

	s := norm.NFKC.String(input)

	cleaned := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.C, r) || !isAllowed(r) {
			return ' '
		}
		return r
	}, s)

	return strings.Join(strings.Fields(cleaned), " ")
}

func isAllowed(r rune) bool {
	switch {
	case r >= '가' && r <= '힣':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '#', r == ',', r == '/', r == '&':
		return true
	default:
		return unicode.IsSpace(r)
	}
}
