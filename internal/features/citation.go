package features

import "regexp"

// citationPattern matches an innermost parenthesised group mentioning PubMed,
// e.g. "(PubMed:12345, PubMed:67890)".
var citationPattern = regexp.MustCompile(`\([^()]*PubMed[^()]*\)`)

// StripCitations removes PubMed evidence groups; other parentheses and the
// surrounding text, spaces included, are kept.
func StripCitations(s string) string {
	return citationPattern.ReplaceAllLiteralString(s, "")
}
