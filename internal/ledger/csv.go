// Package ledger writes canonical transactions as CSV and checks the
// invariants every batch must hold before it is stored.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/releve/internal/fingerprint"
	"github.com/cleared-dev/releve/internal/model"
)

// Header is the CSV header of an exported ledger.
const Header = "date,account_number,label,amount,category,fingerprint"

const (
	numFields      = 6
	dateFormat     = "2006-01-02"
	colDate        = 0
	colAccount     = 1
	colLabel       = 2
	colAmount      = 3
	colCategory    = 4
	colFingerprint = 5
)

// WriteTransactions writes txns to w, header first.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.Date.Format(dateFormat)
	row[colAccount] = t.AccountNumber
	row[colLabel] = t.Label
	row[colAmount] = t.Amount.StringFixed(2)
	row[colCategory] = t.Category
	row[colFingerprint] = fingerprint.Of(t)
	return row
}

// ReadTransactions reads a ledger written by WriteTransactions. The
// fingerprint column is checked against the row it sits on.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// UnmarshalTransaction converts a CSV row to a transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	t := model.Transaction{
		Date:          date,
		Label:         record[colLabel],
		Amount:        amount,
		Category:      record[colCategory],
		AccountNumber: record[colAccount],
	}
	if fp := record[colFingerprint]; fp != "" && fp != fingerprint.Of(t) {
		return model.Transaction{}, fmt.Errorf("fingerprint %s does not match row", fp)
	}
	return t, nil
}
