// Package reconcile writes parsed statements to a store without ever
// recording the same operation twice.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/cleared-dev/releve/internal/fingerprint"
	"github.com/cleared-dev/releve/internal/ledger"
	"github.com/cleared-dev/releve/internal/logger"
	"github.com/cleared-dev/releve/internal/model"
)

var (
	// ErrNoAccount is returned for a batch with no account to attach
	// transactions to.
	ErrNoAccount = errors.New("statement has no account")
	// ErrNoOwner is returned when the owner is empty.
	ErrNoOwner = errors.New("owner is required")
	// ErrInvalidBatch wraps ledger invariant violations.
	ErrInvalidBatch = errors.New("invalid transaction batch")
)

// Outcome summarises one reconcile call.
type Outcome struct {
	Inserted   int
	Duplicates int
	AccountID  string            // ID of the statement's first account
	AccountIDs map[string]string // account number -> account ID
}

// Reconciler imports parsed statements into a Store.
type Reconciler struct {
	store Store
}

// New creates a Reconciler writing to store.
func New(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile stores the accounts and transactions of one parsed statement
// for owner. Transactions without a known account number go to the first
// account. The batch is atomic: on error nothing is stored. Importing the
// same batch again inserts nothing and reports every transaction as a
// duplicate.
func (r *Reconciler) Reconcile(ctx context.Context, owner, bankID string, accounts []model.AccountDescriptor, txns []model.Transaction) (Outcome, error) {
	log := logger.FromContext(ctx).With().Str("owner", owner).Str("bank", bankID).Logger()

	if owner == "" {
		return Outcome{}, ErrNoOwner
	}
	if len(accounts) == 0 {
		return Outcome{}, ErrNoAccount
	}

	batch := attribute(accounts, txns)
	if errs := ledger.Validate(batch); len(errs) > 0 {
		return Outcome{}, fmt.Errorf("%w: %d violations, first: %v", ErrInvalidBatch, len(errs), errs[0])
	}

	out := Outcome{AccountIDs: make(map[string]string, len(accounts))}
	err := r.store.WithinTx(ctx, func(tx Tx) error {
		for _, a := range accounts {
			id, err := tx.ResolveAccount(ctx, owner, bankID, a)
			if err != nil {
				return fmt.Errorf("resolving account %s: %w", a.MaskedNumber, err)
			}
			out.AccountIDs[a.Number] = id
		}
		out.AccountID = out.AccountIDs[accounts[0].Number]

		for i, t := range batch {
			inserted, err := tx.InsertTransaction(ctx, owner, out.AccountIDs[t.AccountNumber], fingerprint.Of(t), t)
			if err != nil {
				return fmt.Errorf("inserting transaction %d: %w", i, err)
			}
			if inserted {
				out.Inserted++
			} else {
				out.Duplicates++
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("reconcile rolled back")
		return Outcome{}, err
	}

	log.Info().
		Int("inserted", out.Inserted).
		Int("duplicates", out.Duplicates).
		Int("accounts", len(out.AccountIDs)).
		Msg("statement reconciled")
	return out, nil
}

// attribute returns a copy of txns where every transaction names one of
// accounts.
func attribute(accounts []model.AccountDescriptor, txns []model.Transaction) []model.Transaction {
	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a.Number] = true
	}
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		if !known[t.AccountNumber] {
			t.AccountNumber = accounts[0].Number
		}
		out[i] = t
	}
	return out
}
