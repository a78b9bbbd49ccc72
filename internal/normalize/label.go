package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	uuidToken    = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)
	hexToken     = regexp.MustCompile(`(?i)\b[0-9a-f]{32}\b`)
	longRefToken = regexp.MustCompile(`\b\d{10,}\b`)
	cardToken    = regexp.MustCompile(`\b(?:X|CB\*?)\d{4}\b`)
	shortDate    = regexp.MustCompile(`\b\d{2}/\d{2}(?:/\d{2,4})?\b`)
	cardPrefix   = regexp.MustCompile(`^(?:PAIEMENT PAR CARTE|PAIEMENT CB|CARTE|CB|PRLV SEPA|PRELEVEMENT|VIR SEPA|VIREMENT)\s+`)
)

// Rewrite replaces a verbose bank-specific label preamble with a short form.
type Rewrite struct {
	Pattern *regexp.Regexp
	Replace string
}

// CollapseSpaces trims s and folds every run of whitespace (including line
// breaks from wrapped labels) into a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitCaseBoundaries separates words that text extraction glued together:
// "VirementDe" -> "Virement De". Only a lower-case rune followed by an
// upper-then-lower pair is split, so acronyms and all-caps labels are kept.
func SplitCaseBoundaries(s string) string {
	r := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, c := range r {
		if i > 0 && i+1 < len(r) &&
			unicode.IsLower(r[i-1]) && unicode.IsUpper(c) && unicode.IsLower(r[i+1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// StripIdentifiers removes opaque identifiers that carry no meaning for a
// reader: UUID-like tokens and reference numbers of ten digits or more.
func StripIdentifiers(s string) string {
	s = uuidToken.ReplaceAllString(s, " ")
	s = hexToken.ReplaceAllString(s, " ")
	s = longRefToken.ReplaceAllString(s, " ")
	return CollapseSpaces(s)
}

// CleanLabel reduces a raw statement label to the words worth matching
// against the category table: upper-cased, without card numbers, dates,
// references or payment-method preambles.
func CleanLabel(s string) string {
	s = strings.ToUpper(CollapseSpaces(s))
	s = StripIdentifiers(s)
	s = cardToken.ReplaceAllString(s, " ")
	s = shortDate.ReplaceAllString(s, " ")
	s = CollapseSpaces(s)
	for {
		trimmed := cardPrefix.ReplaceAllString(s, "")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return s
}

// CleanDocumentLabel tidies a label assembled from extracted document lines
// and applies the first matching bank rewrite.
func CleanDocumentLabel(s string, rewrites []Rewrite) string {
	s = CollapseSpaces(s)
	s = SplitCaseBoundaries(s)
	s = StripIdentifiers(s)
	s = strings.Trim(s, " -/:")
	for _, rw := range rewrites {
		if rw.Pattern.MatchString(s) {
			s = rw.Pattern.ReplaceAllString(s, rw.Replace)
			break
		}
	}
	return CollapseSpaces(s)
}
