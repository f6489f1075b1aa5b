// Package translit adapts script transliteration for lyric ingest and
// query normalization. The transliteration engine itself is an external
// collaborator supplied as a pure function.
package translit

import "strings"

// Script identifies a writing system understood by the transliterator.
type Script string

const (
	Devanagari Script = "devanagari"
	Gujarati   Script = "gujarati"
	// Latin is the optitrans Latin phonetic scheme.
	Latin Script = "optitrans"
)

// Func transliterates text between two scripts. Implementations must be
// pure: same input, same output, no I/O.
type Func func(text string, from, to Script) string

// Identity is a Func that returns text unchanged. It is the default when
// no transliteration engine is wired, which degrades search to plain
// matching but keeps everything else working.
func Identity(text string, _, _ Script) string { return text }

// CleanQuery strips characters outside the search whitelist: ASCII
// alphanumerics, the Devanagari block, the Gujarati block and spaces.
func CleanQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0x0900 && r <= 0x097F: // Devanagari
			b.WriteRune(r)
		case r >= 0x0A80 && r <= 0x0AFF: // Gujarati
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasLatin reports whether s contains any ASCII letter.
func HasLatin(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// NormalizeQuery canonicalizes a query for ranked search by round-tripping
// it through all three scripts. Whatever script the user typed in, the
// result lands in the Latin phonetic scheme, which is what the per-song
// search text uses.
func NormalizeQuery(q string, t Func) string {
	q = strings.ToLower(q)
	q = t(q, Latin, Devanagari)
	q = t(q, Devanagari, Gujarati)
	q = t(q, Gujarati, Latin)
	return strings.ToLower(q)
}
