package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/releve/internal/fingerprint"
	"github.com/cleared-dev/releve/internal/ledger"
	"github.com/cleared-dev/releve/internal/model"
)

type accountJSON struct {
	Number       string           `json:"number"`
	DisplayLabel string           `json:"display_label"`
	Kind         string           `json:"kind"`
	MaskedNumber string           `json:"masked_number"`
	KnownBalance *decimal.Decimal `json:"known_balance,omitempty"`
}

type transactionJSON struct {
	Date          string          `json:"date"`
	AccountNumber string          `json:"account_number"`
	Label         string          `json:"label"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category,omitempty"`
	Fingerprint   string          `json:"fingerprint"`
}

type resultJSON struct {
	Success       bool              `json:"success"`
	BankID        string            `json:"bank_id,omitempty"`
	BankName      string            `json:"bank_name,omitempty"`
	Encoding      string            `json:"encoding,omitempty"`
	Accounts      []accountJSON     `json:"accounts"`
	Transactions  []transactionJSON `json:"transactions"`
	Skipped       int               `json:"skipped"`
	Incomplete    int               `json:"incomplete"`
	SignDefaulted int               `json:"sign_defaulted"`
	Error         string            `json:"error,omitempty"`
}

func newResultJSON(r model.Result) resultJSON {
	out := resultJSON{
		Success:       r.Success,
		BankID:        r.BankID,
		BankName:      r.BankDisplayName,
		Encoding:      r.Encoding,
		Accounts:      make([]accountJSON, 0, len(r.Accounts)),
		Transactions:  make([]transactionJSON, 0, len(r.Transactions)),
		Skipped:       r.Skipped,
		Incomplete:    r.Incomplete,
		SignDefaulted: r.SignDefaulted,
		Error:         r.Error,
	}
	for _, a := range r.Accounts {
		out.Accounts = append(out.Accounts, accountJSON{
			Number:       a.Number,
			DisplayLabel: a.DisplayLabel,
			Kind:         string(a.Kind),
			MaskedNumber: a.MaskedNumber,
			KnownBalance: a.KnownBalance,
		})
	}
	for _, t := range r.Transactions {
		out.Transactions = append(out.Transactions, transactionJSON{
			Date:          t.DateString(),
			AccountNumber: t.AccountNumber,
			Label:         t.Label,
			Amount:        t.Amount,
			Category:      t.Category,
			Fingerprint:   fingerprint.Of(t),
		})
	}
	return out
}

func newParseCommand(a *app) *cobra.Command {
	var kindFlag string
	var format string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement and print its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}
			kind, err := inputKind(args[0], kindFlag)
			if err != nil {
				return err
			}
			in, err := readInput(args[0], kind)
			if err != nil {
				return err
			}

			res := a.registry.Parse(cmd.Context(), in)
			if err := writeResult(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("parsing %s: %w", in.Name, res.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "input kind (tabular or document); default from extension")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json or csv)")

	return cmd
}

func writeResult(w io.Writer, format string, res model.Result) error {
	if format == "csv" {
		if !res.Success {
			return nil
		}
		return ledger.WriteTransactions(w, res.Transactions)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newResultJSON(res))
}
