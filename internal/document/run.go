package document

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/releve/internal/category"
	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

var errEmptyLabel = errors.New("record has no label")

// Run reduces the lines of one statement and converts every completed
// record. account is stamped on each transaction.
func Run(cfg *Config, lines []string, account string) model.Extraction {
	var ext model.Extraction
	var s State
	for _, line := range lines {
		var rec *Record
		s, rec = Step(cfg, s, line)
		if rec == nil {
			continue
		}
		txn, defaulted, err := cfg.transaction(*rec)
		if err != nil {
			ext.Skipped++
			continue
		}
		if defaulted {
			ext.SignDefaulted++
		}
		txn.AccountNumber = account
		ext.Transactions = append(ext.Transactions, txn)
	}
	ext.Incomplete = Finish(s).Incomplete
	return ext
}

func (c *Config) transaction(rec Record) (model.Transaction, bool, error) {
	value, err := normalize.ParseDate(rec.ValueDate, c.ValueLayout)
	if err != nil {
		return model.Transaction{}, false, fmt.Errorf("value date: %w", err)
	}
	date, err := normalize.ParseDayMonth(rec.OpDate, c.DateSep, value)
	if err != nil {
		return model.Transaction{}, false, fmt.Errorf("operation date: %w", err)
	}
	magnitude, err := normalize.ParseAmount(rec.Amount)
	if err != nil {
		return model.Transaction{}, false, err
	}

	raw := normalize.CollapseSpaces(strings.Join(rec.Fragments, " "))
	label := normalize.CleanDocumentLabel(raw, c.Rewrites)
	if label == "" {
		return model.Transaction{}, false, errEmptyLabel
	}

	dir, defaulted := ResolveSign(rec.Section, raw, rec.Glyph, c.Cues)
	amount := normalize.Debit(magnitude)
	if dir == SectionCredit {
		amount = normalize.Credit(magnitude)
	}

	return model.Transaction{
		Date:     date,
		Label:    label,
		Amount:   amount,
		Category: category.Guess(normalize.CleanLabel(label)),
	}, defaulted, nil
}

var (
	amountRe = regexp.MustCompile(amountPattern)
	ibanRe   = regexp.MustCompile(`(?i:iban)\s*:?\s*([A-Z]{2}\d{2}(?:\s?[A-Z0-9]{4}){2,7}(?:\s?[A-Z0-9]{1,3})?)`)
)

// lastAmount returns the last signed amount printed on line.
func lastAmount(line string) (decimal.Decimal, bool) {
	all := amountRe.FindAllStringSubmatch(line, -1)
	if len(all) == 0 {
		return decimal.Zero, false
	}
	m := all[len(all)-1]
	d, err := normalize.ParseAmount(m[2])
	if err != nil {
		return decimal.Zero, false
	}
	if m[1] != "" && m[1] != "+" {
		d = d.Neg()
	}
	return d, true
}

// statementAccount reads the single account a neobank statement covers:
// the IBAN printed in the header and the closing balance.
func statementAccount(text, bank string, balance *regexp.Regexp) (model.AccountDescriptor, bool) {
	var acct model.AccountDescriptor
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if acct.Number == "" {
			if m := ibanRe.FindStringSubmatch(line); m != nil {
				acct.Number = strings.ReplaceAll(m[1], " ", "")
				continue
			}
		}
		if acct.KnownBalance == nil && balance.MatchString(line) {
			if bal, ok := lastAmount(line); ok {
				acct.KnownBalance = &bal
			}
		}
	}
	if acct.Number == "" {
		return model.AccountDescriptor{}, false
	}
	acct.MaskedNumber = model.MaskNumber(acct.Number)
	acct.DisplayLabel = bank + " " + acct.MaskedNumber
	acct.Kind = model.AccountKindBusiness
	return acct, true
}

// splitLines splits extracted text into lines without carriage returns.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
