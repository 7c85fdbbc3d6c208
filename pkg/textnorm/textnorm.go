// Package textnorm canonicalizes free text for comparison. ASR transcripts
// arrive with inconsistent case, accents and the occasional Latin-1
// re-encoding of UTF-8, so everything is funneled through Normalize before
// any matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mojibake repairs UTF-8 sequences that were once decoded as Latin-1 and
// re-encoded, as the menu export used to produce.
var mojibake = strings.NewReplacer(
	"Ã©", "e", // é
	"Ã¡", "a", // á
	"Ã­", "i", // í
	"Ã³", "o", // ó
	"Ãº", "u", // ú
	"Ã±", "n", // ñ
	"Â®", "", // ®
	"Â©", "", // ©
	"Â´", "", // ´
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, repairs mojibake, strips diacritics and
// trademark symbols, replaces punctuation with spaces and collapses
// whitespace. It is pure and idempotent.
func Normalize(text string) string {
	// repair before lowering, ToLower would mangle the broken bytes
	s := mojibake.Replace(text)
	s = strings.ToLower(s)

	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '®' || r == '©' || r == '™':
			// registered/copyright/trademark, dropped outright
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// StripSpaces removes every space from an already normalized string, for
// the space-insensitive comparison tier.
func StripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Tokens splits a normalized string into words of at least minLen runes.
func Tokens(s string, minLen int) []string {
	var out []string
	for _, tok := range strings.Fields(s) {
		if len([]rune(tok)) >= minLen {
			out = append(out, tok)
		}
	}
	return out
}
