package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonWord matches anything that is not a letter, digit or underscore in any script.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]`)

// stripDiacritics decomposes s and drops combining marks.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// sanitizeName makes s safe as a path component: diacritics stripped,
// spaces become underscores, other non-word characters dropped, lowercased.
func sanitizeName(s string) string {
	s = stripDiacritics(sanitizeUTF8(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = nonWord.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

// normalizeToken is the fingerprint normalization: case-folded, no diacritics,
// no non-word characters.
func normalizeToken(s string) string {
	s = strings.ToLower(stripDiacritics(sanitizeUTF8(s)))
	return nonWord.ReplaceAllString(s, "")
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// sanitizeUTF8 removes invalid UTF-8 sequences from string
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}
