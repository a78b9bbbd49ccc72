package reconcile

import (
	"context"

	"github.com/cleared-dev/releve/internal/model"
)

// Account is an account as persisted by a Store.
type Account struct {
	ID     string
	Owner  string
	BankID string
	model.AccountDescriptor
}

// Row is a persisted transaction.
type Row struct {
	Owner       string
	AccountID   string
	Fingerprint string
	Txn         model.Transaction
}

// Store persists accounts and transactions. Implementations enforce
// uniqueness of (owner, fingerprint) themselves; the reconciler never
// checks before inserting.
type Store interface {
	// WithinTx runs fn as one atomic unit: if fn returns an error nothing
	// it did is kept.
	WithinTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of writes available inside Store.WithinTx.
type Tx interface {
	// ResolveAccount returns the ID of the (owner, bankID, d.Number)
	// account, creating it if needed. Descriptive fields and a non-nil
	// known balance overwrite what is stored.
	ResolveAccount(ctx context.Context, owner, bankID string, d model.AccountDescriptor) (string, error)
	// InsertTransaction stores t unless (owner, fingerprint) already
	// exists. inserted is false for a duplicate.
	InsertTransaction(ctx context.Context, owner, accountID, fingerprint string, t model.Transaction) (inserted bool, err error)
}
