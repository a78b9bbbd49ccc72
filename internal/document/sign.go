package document

import "strings"

// ResolveSign decides the direction of a record. The cues are tried in
// order: the banner section, keywords in the label, then the glyph printed
// before the amount. With no cue at all the record is taken as a debit and
// defaulted is true.
//
// The glyph tier depends on how the extractor lays out the amount column
// and is the least reliable of the three.
func ResolveSign(section Section, label, glyph string, cues Cues) (dir Section, defaulted bool) {
	if section != SectionUnknown {
		return section, false
	}

	l := strings.ToLower(label)
	for _, kw := range cues.Credit {
		if strings.Contains(l, kw) {
			return SectionCredit, false
		}
	}
	for _, kw := range cues.Debit {
		if strings.Contains(l, kw) {
			return SectionDebit, false
		}
	}

	switch glyph {
	case "+":
		return SectionCredit, false
	case "-", "\u2212":
		return SectionDebit, false
	}
	return SectionDebit, true
}
