package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/releve/internal/accounts"
	"github.com/cleared-dev/releve/internal/ledger"
	"github.com/cleared-dev/releve/internal/model"
)

func newAccountsCommand(a *app) *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List stored accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), ownerFlag, func(ctx context.Context, st store, owner string) error {
				accts, err := st.Accounts(ctx, owner)
				if err != nil {
					return err
				}
				return accounts.WriteAccounts(cmd.OutOrStdout(), accts)
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "owner whose accounts to list")

	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var ownerFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored transactions as ledger CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), ownerFlag, func(ctx context.Context, st store, owner string) error {
				return exportTransactions(ctx, cmd.OutOrStdout(), st, owner)
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "owner whose transactions to export")

	return cmd
}

func (a *app) withStore(ctx context.Context, ownerFlag string, fn func(context.Context, store, string) error) error {
	owner, err := a.owner(ownerFlag)
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	st, err := openStore(ctx, a.cfg.Store)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()
	return fn(ctx, st, owner)
}

func exportTransactions(ctx context.Context, w io.Writer, st store, owner string) error {
	rows, err := st.Transactions(ctx, owner)
	if err != nil {
		return err
	}
	txns := make([]model.Transaction, 0, len(rows))
	for _, r := range rows {
		txns = append(txns, r.Txn)
	}
	slices.SortStableFunc(txns, func(x, y model.Transaction) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return strings.Compare(x.AccountNumber, y.AccountNumber)
	})
	return ledger.WriteTransactions(w, txns)
}
