package analysis

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	dashReplacer = strings.NewReplacer(
		"\u2014", "-", // em dash
		"\u2013", "-", // en dash
		"\u2212", "-", // minus sign
		"\u2012", "-", // figure dash
	)
	spaceReplacer = strings.NewReplacer(
		"\u00a0", " ", // no-break space
		"\u2009", " ", // thin space
		"\u200a", " ", // hair space
		"\u200b", " ", // zero-width space
	)
)

// Normalize canonicalizes copy-pasted answer text: NFKD compatibility
// decomposition, typographic dashes to '-', odd spaces to ' ', whitespace runs
// collapsed and the ends trimmed. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = norm.NFKD.String(s)
	s = dashReplacer.Replace(s)
	s = spaceReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeNullable propagates a missing value instead of inventing one
func NormalizeNullable(s *string) *string {
	if s == nil {
		return nil
	}
	out := Normalize(*s)
	return &out
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
