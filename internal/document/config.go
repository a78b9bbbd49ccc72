// Package document parses the text extracted from page-oriented statements
// (PDF). Every bank is a Config run through the same line reducer.
package document

import (
	"regexp"

	"github.com/cleared-dev/releve/internal/normalize"
)

// amountPattern captures an optional sign glyph and a French-formatted
// magnitude, with an optional trailing currency.
const amountPattern = `([+\-\x{2212}])?\s?(\d+(?:[ .\x{00a0}\x{202f}]\d{3})*,\d{2})\s*(?:€|EUR)?`

// Cues are lower-case label fragments that imply a direction.
type Cues struct {
	Credit []string
	Debit  []string
}

// Config holds the constants of one bank's document layout.
type Config struct {
	DateSep       byte   // operation date separator: "01.02" or "01/02"
	ValueLayout   string // layout of the full value date
	CreditBanners []string
	DebitBanners  []string
	Noise         []*regexp.Regexp
	Cues          Cues
	Rewrites      []normalize.Rewrite

	credit     []*regexp.Regexp
	debit      []*regexp.Regexp
	complete   *regexp.Regexp
	dateOnly   *regexp.Regexp
	amountOnly *regexp.Regexp
}

// commonNoise is discarded for every bank.
var commonNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^page\s+\d+(\s*(/|sur)\s*\d+)?$`),
	regexp.MustCompile(`^\d+\s*/\s*\d+$`),
	regexp.MustCompile(`(?i)^date\s.*(libell|montant|valeur)`),
	regexp.MustCompile(`(?i)^total\b`),
	regexp.MustCompile(`(?i)^solde\b`),
	regexp.MustCompile(`(?i)^(iban|bic)\b`),
}

// NewConfig compiles the line patterns of c.
func NewConfig(c Config) *Config {
	sep := regexp.QuoteMeta(string(c.DateSep))
	op := `(\d{2}` + sep + `\d{2})`
	value := `(\d{2}` + sep + `\d{2}` + sep + `\d{4})`

	c.complete = regexp.MustCompile(`^` + op + `\s+` + value + `\s+(.+?)\s+` + amountPattern + `$`)
	c.dateOnly = regexp.MustCompile(`^` + op + `\s+` + value + `(?:\s+(.*))?$`)
	c.amountOnly = regexp.MustCompile(`^(?:(.*?)\s+)??` + amountPattern + `$`)
	c.credit = banners(c.CreditBanners)
	c.debit = banners(c.DebitBanners)
	c.Noise = append(append([]*regexp.Regexp{}, commonNoise...), c.Noise...)
	return &c
}

// banners matches a banner alone on its line, optionally followed by a
// count or a colon: "Virements reçus (3)".
func banners(names []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(names))
	for _, n := range names {
		out = append(out, regexp.MustCompile(`(?i)^`+regexp.QuoteMeta(n)+`(?:\s*\(\d+\))?\s*:?$`))
	}
	return out
}

func (c *Config) isNoise(line string) bool {
	for _, re := range c.Noise {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func (c *Config) banner(line string) (Section, bool) {
	for _, re := range c.credit {
		if re.MatchString(line) {
			return SectionCredit, true
		}
	}
	for _, re := range c.debit {
		if re.MatchString(line) {
			return SectionDebit, true
		}
	}
	return SectionUnknown, false
}
