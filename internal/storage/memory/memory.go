// Package memory is an in-process reconcile.Store.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/reconcile"
)

type accountKey struct{ owner, bank, number string }

type rowKey struct{ owner, fingerprint string }

// Store keeps accounts and transactions in maps. Transactions are
// serialised by a mutex and their writes staged until fn returns.
type Store struct {
	mu       sync.Mutex
	accounts map[accountKey]reconcile.Account
	seen     map[rowKey]bool
	rows     []reconcile.Row
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[accountKey]reconcile.Account),
		seen:     make(map[rowKey]bool),
	}
}

type tx struct {
	s        *Store
	accounts map[accountKey]reconcile.Account
	seen     map[rowKey]bool
	rows     []reconcile.Row
}

// WithinTx implements reconcile.Store.
func (s *Store) WithinTx(ctx context.Context, fn func(reconcile.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	t := &tx{
		s:        s,
		accounts: make(map[accountKey]reconcile.Account),
		seen:     make(map[rowKey]bool),
	}
	if err := fn(t); err != nil {
		return err
	}

	for k, a := range t.accounts {
		s.accounts[k] = a
	}
	for k := range t.seen {
		s.seen[k] = true
	}
	s.rows = append(s.rows, t.rows...)
	return nil
}

func (t *tx) ResolveAccount(_ context.Context, owner, bankID string, d model.AccountDescriptor) (string, error) {
	k := accountKey{owner, bankID, d.Number}
	a, ok := t.accounts[k]
	if !ok {
		a, ok = t.s.accounts[k]
	}
	if !ok {
		a = reconcile.Account{ID: uuid.NewString(), Owner: owner, BankID: bankID}
	}

	balance := a.KnownBalance
	a.AccountDescriptor = d
	if d.KnownBalance == nil {
		a.KnownBalance = balance
	}
	t.accounts[k] = a
	return a.ID, nil
}

func (t *tx) InsertTransaction(_ context.Context, owner, accountID, fp string, txn model.Transaction) (bool, error) {
	k := rowKey{owner, fp}
	if t.s.seen[k] || t.seen[k] {
		return false, nil
	}
	t.seen[k] = true
	t.rows = append(t.rows, reconcile.Row{Owner: owner, AccountID: accountID, Fingerprint: fp, Txn: txn})
	return true, nil
}

// Transactions returns owner's rows in insertion order.
func (s *Store) Transactions(_ context.Context, owner string) ([]reconcile.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []reconcile.Row
	for _, r := range s.rows {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	return out, nil
}

// Accounts returns owner's accounts sorted by bank then number.
func (s *Store) Accounts(_ context.Context, owner string) ([]reconcile.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []reconcile.Account
	for _, a := range s.accounts {
		if a.Owner == owner {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BankID != out[j].BankID {
			return out[i].BankID < out[j].BankID
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
