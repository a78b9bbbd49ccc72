package tabular

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/releve/internal/normalize"
)

var (
	errEmptyLabel  = errors.New("record has no label")
	errBothColumns = errors.New("record has both a debit and a credit")
)

// signedAmount resolves a record's amount from its debit and credit cells.
// The sign comes from the column, never from the cell text: some banks
// print debits as "-5,99", others as "5,99". ok is false when neither
// column carries a non-zero value.
func signedAmount(debit, credit string) (decimal.Decimal, bool, error) {
	d, hasDebit, err := cell(debit)
	if err != nil {
		return decimal.Zero, false, err
	}
	c, hasCredit, err := cell(credit)
	if err != nil {
		return decimal.Zero, false, err
	}

	switch {
	case hasDebit && hasCredit:
		return decimal.Zero, false, errBothColumns
	case hasDebit:
		return normalize.Debit(d), true, nil
	case hasCredit:
		return normalize.Credit(c), true, nil
	default:
		return decimal.Zero, false, nil
	}
}

// cell parses an amount cell; present is false for blank or zero cells.
func cell(s string) (decimal.Decimal, bool, error) {
	if normalize.IsBlankAmount(s) {
		return decimal.Zero, false, nil
	}
	d, err := normalize.ParseAmount(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	if d.IsZero() {
		return decimal.Zero, false, nil
	}
	return d, true, nil
}
