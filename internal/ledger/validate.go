package ledger

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/releve/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Index       int // position of the transaction in the batch
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [txn %d]: %s", e.Invariant, e.Index, e.Description)
}

// Validate enforces 4 invariants on a batch of parsed transactions.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	for i, t := range txns {
		// Invariant 1: Date is set.
		if t.Date.IsZero() {
			errs = append(errs, ValidationError{Invariant: 1, Index: i, Description: "missing date"})
		}

		// Invariant 2: Exact decimals, no more than 2 decimal places.
		if !t.Amount.Equal(t.Amount.Round(2)) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Index:       i,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", t.Amount),
			})
		}

		// Invariant 3: Label is present.
		if strings.TrimSpace(t.Label) == "" {
			errs = append(errs, ValidationError{Invariant: 3, Index: i, Description: "empty label"})
		}

		// Invariant 4: Account is attributed.
		if t.AccountNumber == "" {
			errs = append(errs, ValidationError{Invariant: 4, Index: i, Description: "no account number"})
		}
	}
	return errs
}
