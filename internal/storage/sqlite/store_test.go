package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/reconcile"
	"github.com/cleared-dev/releve/internal/seal"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	sealer, err := seal.New(bytes.Repeat([]byte{1}, seal.KeySize))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "data", "releve.db")
	s, err := Open(context.Background(), path, sealer)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func statement() ([]model.AccountDescriptor, []model.Transaction) {
	bal := decimal.RequireFromString("1856.51")
	accts := []model.AccountDescriptor{{
		Number:       "FR7616958000011234567890123",
		DisplayLabel: "Qonto ••••0123",
		Kind:         model.AccountKindBusiness,
		MaskedNumber: "••••0123",
		KnownBalance: &bal,
	}}
	txns := []model.Transaction{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Label: "Transfer from: CLIENT SA", Amount: decimal.RequireFromString("2400.00"), Category: "transfers"},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Label: "CARTE NETFLIX.COM", Amount: decimal.RequireFromString("-13.49"), Category: "subscriptions"},
		{Date: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), Label: "CARTE NETFLIX.COM", Amount: decimal.RequireFromString("-13.49"), Category: "subscriptions"},
	}
	return accts, txns
}

func TestStore_ReconcileRoundTrip(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	accts, txns := statement()
	r := reconcile.New(s)

	out, err := r.Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Inserted)

	again, err := r.Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)
	assert.Equal(t, 3, again.Duplicates)
	assert.Equal(t, out.AccountID, again.AccountID)

	rows, err := s.Transactions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Transfer from: CLIENT SA", rows[0].Txn.Label)
	assert.Equal(t, "2400.00", rows[0].Txn.Amount.StringFixed(2))
	assert.Equal(t, "FR7616958000011234567890123", rows[0].Txn.AccountNumber)
	assert.Equal(t, out.AccountID, rows[0].AccountID)
	assert.Equal(t, "2024-02-03", rows[2].Txn.DateString())

	n, err := s.CountByLabelHash(ctx, "alice", "CB NETFLIX.COM")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_LabelsAreSealed(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	accts, txns := statement()
	_, err := reconcile.New(s).Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)

	var sealed []byte
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT label_sealed FROM transactions LIMIT 1`).Scan(&sealed))
	assert.NotContains(t, string(sealed), "CLIENT")
}

func TestStore_Accounts(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	accts, txns := statement()
	r := reconcile.New(s)

	_, err := r.Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)

	accts[0].KnownBalance = nil
	accts[0].DisplayLabel = "Qonto Pro"
	_, err = r.Reconcile(ctx, "alice", "qonto", accts, nil)
	require.NoError(t, err)

	stored, err := s.Accounts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Qonto Pro", stored[0].DisplayLabel)
	assert.Equal(t, model.AccountKindBusiness, stored[0].Kind)
	require.NotNil(t, stored[0].KnownBalance, "a missing balance keeps the stored one")
	assert.Equal(t, "1856.51", stored[0].KnownBalance.StringFixed(2))
}

func TestStore_Rollback(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	accts, txns := statement()

	err := s.WithinTx(ctx, func(tx reconcile.Tx) error {
		id, err := tx.ResolveAccount(ctx, "alice", "qonto", accts[0])
		require.NoError(t, err)
		_, err = tx.InsertTransaction(ctx, "alice", id, "fp", txns[0])
		require.NoError(t, err)
		return errors.New("abort")
	})
	require.Error(t, err)

	rows, err := s.Transactions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rows)
	stored, err := s.Accounts(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()
	accts, txns := statement()
	_, err := reconcile.New(s).Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	sealer, err := seal.New(bytes.Repeat([]byte{1}, seal.KeySize))
	require.NoError(t, err)
	s2, err := Open(ctx, path, sealer)
	require.NoError(t, err)
	defer s2.Close()

	out, err := reconcile.New(s2).Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)
	assert.Zero(t, out.Inserted)
}

func TestStore_WrongKeyCannotRead(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()
	accts, txns := statement()
	_, err := reconcile.New(s).Reconcile(ctx, "alice", "qonto", accts, txns)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	other, err := seal.New(bytes.Repeat([]byte{2}, seal.KeySize))
	require.NoError(t, err)
	s2, err := Open(ctx, path, other)
	require.NoError(t, err)
	defer s2.Close()

	_, err = s2.Transactions(ctx, "alice")
	assert.ErrorIs(t, err, seal.ErrCorrupt)
}

func TestStore_ConcurrentImports(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()
	accts, txns := statement()
	r := reconcile.New(s)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		inserted int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Reconcile(ctx, "alice", "qonto", accts, txns)
			assert.NoError(t, err)
			mu.Lock()
			inserted += out.Inserted
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, len(txns), inserted)
	rows, err := s.Transactions(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, rows, len(txns))
}

func TestOpen_RequiresSealer(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), nil)
	assert.Error(t, err)
}
