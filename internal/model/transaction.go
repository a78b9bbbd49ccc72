package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the canonical record every statement parser converges on.
type Transaction struct {
	Date          time.Time       // calendar date, UTC midnight
	Label         string
	Amount        decimal.Decimal // negative = debit, positive = credit
	Category      string          // advisory; may be empty
	AccountNumber string
}

// DateString returns the ISO calendar date of the transaction.
func (t Transaction) DateString() string {
	return t.Date.Format("2006-01-02")
}
