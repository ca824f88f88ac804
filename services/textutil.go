package services

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTextLength is the most characters one stored text field holds.
const MaxTextLength = 100_000

// TooLong reports whether s has more than MaxTextLength characters.
func TooLong(s string) bool {
	return utf8.RuneCountInString(s) > MaxTextLength
}

// CleanText trims, collapses inner whitespace and NFKC-normalises a typed
// value so full-width digits and stray spaces from pasted text compare as
// their plain forms.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	return norm.NFKC.String(s)
}

// CleanMultiline normalises a textarea value but keeps its line breaks.
func CleanMultiline(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, CleanText(l))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
