// Package accounts reads and writes the account listing CSV.
package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/reconcile"
)

// Header is the CSV header of an account listing.
const Header = "account_id,bank_id,number,masked_number,kind,display_label,known_balance"

const (
	numFields  = 7
	colID      = 0
	colBank    = 1
	colNumber  = 2
	colMasked  = 3
	colKind    = 4
	colLabel   = 5
	colBalance = 6
)

// ReadAccounts reads an account listing. Owner is not part of the listing
// and is left empty.
func ReadAccounts(r io.Reader) ([]reconcile.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []reconcile.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes an account listing, header first.
func WriteAccounts(w io.Writer, accounts []reconcile.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row. An unknown balance is
// an empty cell.
func MarshalAccount(acct reconcile.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colBank] = acct.BankID
	row[colNumber] = acct.Number
	row[colMasked] = acct.MaskedNumber
	row[colKind] = string(acct.Kind)
	row[colLabel] = acct.DisplayLabel
	if acct.KnownBalance != nil {
		row[colBalance] = acct.KnownBalance.StringFixed(2)
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (reconcile.Account, error) {
	if len(record) != numFields {
		return reconcile.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var balance *decimal.Decimal
	if record[colBalance] != "" {
		d, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return reconcile.Account{}, fmt.Errorf("parsing known_balance %q: %w", record[colBalance], err)
		}
		balance = &d
	}

	return reconcile.Account{
		ID:     record[colID],
		BankID: record[colBank],
		AccountDescriptor: model.AccountDescriptor{
			Number:       record[colNumber],
			DisplayLabel: record[colLabel],
			Kind:         model.AccountKind(record[colKind]),
			MaskedNumber: record[colMasked],
			KnownBalance: balance,
		},
	}, nil
}
