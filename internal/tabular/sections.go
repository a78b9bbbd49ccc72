package tabular

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/releve/internal/category"
	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/normalize"
)

// columns locates the fields of one bank's transaction record.
type columns struct {
	date          int
	label         int
	labelFallback int // -1 = none
	debit         int
	credit        int
	balance       int // -1 = none
	min           int // fewer fields than this = malformed
}

// layout is the set of constants one bank's export is parsed with.
type layout struct {
	marker      *regexp.Regexp // account marker; last submatch is the number
	header      *regexp.Regexp
	terminal    *regexp.Regexp
	recordStart *regexp.Regexp
	dateLayout  string
	cols        columns
}

// section is the record region of one account.
type section struct {
	number string
	lines  []string
}

// splitLines splits decoded text into physical lines without carriage returns.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}

// bare strips the trailing delimiters spreadsheet exports append to
// non-tabular lines.
func bare(line string) string {
	return strings.TrimRight(strings.TrimSpace(line), "; ")
}

// markerNumber returns the account number on a marker line.
func (l layout) markerNumber(line string) (string, bool) {
	m := l.marker.FindStringSubmatch(bare(line))
	if m == nil {
		return "", false
	}
	return m[len(m)-1], true
}

// sections splits an export into account-scoped record regions. A section
// opens at an account marker; its records start after the column header and
// run until the next marker or the terminal line. A header with no marker
// before it opens an anonymous section. Marker and terminal lines inside an
// open quote are label text.
func (l layout) sections(text string) []section {
	var out []section
	var cur *section
	inRecords := false
	open := false

	closeCur := func() {
		if cur != nil {
			out = append(out, *cur)
		}
		cur = nil
		inRecords = false
	}

	for _, line := range splitLines(text) {
		if !open {
			if number, ok := l.markerNumber(line); ok {
				closeCur()
				cur = &section{number: number}
				continue
			}
			if l.terminal.MatchString(bare(line)) {
				closeCur()
				continue
			}
			if l.header.MatchString(strings.TrimSpace(line)) {
				if cur == nil {
					cur = &section{}
				}
				inRecords = true
				continue
			}
		}
		if cur == nil || !inRecords {
			continue
		}
		cur.lines = append(cur.lines, line)
		open = quoteOpen(line, open)
	}
	closeCur()
	return out
}

// records tokenizes the grouped records of one section. Spans that cannot
// be tokenized or are too short are counted in skipped.
func (l layout) records(sec section) (recs [][]string, skipped int) {
	for _, span := range GroupRecords(sec.lines, l.recordStart) {
		fields, err := TokenizeRecord(span)
		if err != nil || len(fields) < l.cols.min {
			skipped++
			continue
		}
		recs = append(recs, fields)
	}
	return recs, skipped
}

// extract runs the shared record pipeline over every section.
func (l layout) extract(text string) model.Extraction {
	var ext model.Extraction
	for _, sec := range l.sections(text) {
		recs, skipped := l.records(sec)
		ext.Skipped += skipped
		for _, fields := range recs {
			txn, ok, err := l.transaction(fields, sec.number)
			if err != nil {
				ext.Skipped++
				continue
			}
			if ok {
				ext.Transactions = append(ext.Transactions, txn)
			}
		}
	}
	return ext
}

// transaction converts one tokenized record. ok is false for administrative
// records with neither a debit nor a credit.
func (l layout) transaction(fields []string, number string) (model.Transaction, bool, error) {
	date, err := normalize.ParseDate(field(fields, l.cols.date), l.dateLayout)
	if err != nil {
		return model.Transaction{}, false, err
	}

	amount, ok, err := signedAmount(field(fields, l.cols.debit), field(fields, l.cols.credit))
	if err != nil || !ok {
		return model.Transaction{}, false, err
	}

	label := normalize.CollapseSpaces(field(fields, l.cols.label))
	if label == "" && l.cols.labelFallback >= 0 {
		label = normalize.CollapseSpaces(field(fields, l.cols.labelFallback))
	}
	if label == "" {
		return model.Transaction{}, false, errEmptyLabel
	}

	return model.Transaction{
		Date:          date,
		Label:         label,
		Amount:        amount,
		Category:      category.Guess(normalize.CleanLabel(label)),
		AccountNumber: number,
	}, true, nil
}

// lastAmount parses the last non-blank cell of a summary line such as
// "Solde en fin de periode;;;;1 234,56;".
func lastAmount(line string) (decimal.Decimal, bool) {
	fields, err := TokenizeRecord(strings.TrimSpace(line))
	if err != nil {
		return decimal.Zero, false
	}
	for i := len(fields) - 1; i >= 0; i-- {
		s := strings.TrimSpace(fields[i])
		if normalize.IsBlankAmount(s) {
			continue
		}
		d, err := normalize.ParseAmount(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}
