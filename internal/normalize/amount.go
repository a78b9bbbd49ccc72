// Package normalize parses the French-locale amounts, dates and labels found
// in bank statement exports into canonical forms.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for strings that are not a locale amount.
var ErrInvalidAmount = errors.New("invalid amount")

var (
	plainNumber     = regexp.MustCompile(`^\d+(\.\d+)?$`)
	dottedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
)

// amountNoise is removed before parsing: currency markers and the
// thousands-separator spaces PDF and spreadsheet exports emit.
var amountNoise = strings.NewReplacer(
	"€", "",
	"EUR", "",
	"eur", "",
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// ParseAmount parses a French-locale amount such as "1 234,56", "-5,99" or
// "+ 1.200,00 €". Comma is the decimal separator; space, NBSP, narrow NBSP
// and '.' are accepted as thousands separators. The result is rounded to
// two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = amountNoise.Replace(strings.TrimSpace(s))

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "\u2212"):
		neg = true
		s = strings.TrimPrefix(s, "\u2212")
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		if strings.Count(s, ",") != 1 {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
		s = strings.Replace(s, ",", ".", 1)
	} else if dottedThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, raw, err)
	}
	if neg {
		d = d.Neg()
	}
	return d.Round(2), nil
}

// IsBlankAmount reports whether an amount cell carries no value.
func IsBlankAmount(s string) bool {
	return amountNoise.Replace(strings.TrimSpace(s)) == ""
}

// Debit returns -|d|.
func Debit(d decimal.Decimal) decimal.Decimal {
	return d.Abs().Neg()
}

// Credit returns |d|.
func Credit(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}
