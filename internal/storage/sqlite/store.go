// Package sqlite is a reconcile.Store backed by an SQLite database file.
// Labels are stored sealed; only their keyed hash is queryable.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/cleared-dev/releve/internal/model"
	"github.com/cleared-dev/releve/internal/reconcile"
	"github.com/cleared-dev/releve/internal/seal"
)

const dateFormat = "2006-01-02"

// Store implements reconcile.Store.
type Store struct {
	db     *sql.DB
	sealer *seal.Sealer
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, sealer *seal.Sealer) (*Store, error) {
	if sealer == nil {
		return nil, errors.New("sqlite store needs a label sealer")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if err := RunMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway and this keeps
	// busy errors out of concurrent imports.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, sealer: sealer}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx implements reconcile.Store with one SQL transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(reconcile.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&tx{tx: sqlTx, sealer: s.sealer}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type tx struct {
	tx     *sql.Tx
	sealer *seal.Sealer
}

func nullBalance(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.StringFixed(2), Valid: true}
}

func (t *tx) ResolveAccount(ctx context.Context, owner, bankID string, d model.AccountDescriptor) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var id string
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE owner = ? AND bank_id = ? AND number = ?`,
		owner, bankID, d.Number).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = t.tx.ExecContext(ctx,
			`INSERT INTO accounts (id, owner, bank_id, number, display_label, kind, masked_number, known_balance, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, owner, bankID, d.Number, d.DisplayLabel, string(d.Kind), d.MaskedNumber, nullBalance(d.KnownBalance), now, now)
		if err != nil {
			return "", fmt.Errorf("insert account: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("select account: %w", err)
	default:
		_, err = t.tx.ExecContext(ctx,
			`UPDATE accounts
			 SET display_label = ?, kind = ?, masked_number = ?,
			     known_balance = COALESCE(?, known_balance), updated_at = ?
			 WHERE id = ?`,
			d.DisplayLabel, string(d.Kind), d.MaskedNumber, nullBalance(d.KnownBalance), now, id)
		if err != nil {
			return "", fmt.Errorf("update account: %w", err)
		}
	}
	return id, nil
}

func (t *tx) InsertTransaction(ctx context.Context, owner, accountID, fp string, txn model.Transaction) (bool, error) {
	sealed, err := t.sealer.Seal(owner, txn.Label)
	if err != nil {
		return false, err
	}
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO transactions (owner, account_id, fingerprint, date, label_sealed, label_hash, amount, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (owner, fingerprint) DO NOTHING`,
		owner, accountID, fp, txn.Date.Format(dateFormat), sealed, t.sealer.Hash(txn.Label), txn.Amount.StringFixed(2), txn.Category)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// Transactions returns owner's rows with their labels unsealed, oldest first.
func (s *Store) Transactions(ctx context.Context, owner string) ([]reconcile.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.account_id, a.number, t.fingerprint, t.date, t.label_sealed, t.amount, t.category
		 FROM transactions t JOIN accounts a ON a.id = t.account_id
		 WHERE t.owner = ?
		 ORDER BY t.date, t.id`, owner)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []reconcile.Row
	for rows.Next() {
		var (
			r            reconcile.Row
			date, amount string
			sealed       []byte
		)
		if err := rows.Scan(&r.AccountID, &r.Txn.AccountNumber, &r.Fingerprint, &date, &sealed, &amount, &r.Txn.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if r.Txn.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		if r.Txn.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", amount, err)
		}
		if r.Txn.Label, err = s.sealer.Open(owner, sealed); err != nil {
			return nil, fmt.Errorf("transaction %s: %w", r.Fingerprint, err)
		}
		r.Owner = owner
		out = append(out, r)
	}
	return out, rows.Err()
}

// Accounts returns owner's accounts sorted by bank then number.
func (s *Store) Accounts(ctx context.Context, owner string) ([]reconcile.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bank_id, number, display_label, kind, masked_number, known_balance
		 FROM accounts WHERE owner = ? ORDER BY bank_id, number`, owner)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []reconcile.Account
	for rows.Next() {
		var (
			a       reconcile.Account
			kind    string
			balance sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.BankID, &a.Number, &a.DisplayLabel, &kind, &a.MaskedNumber, &balance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Owner = owner
		a.Kind = model.AccountKind(kind)
		if balance.Valid {
			d, err := decimal.NewFromString(balance.String)
			if err != nil {
				return nil, fmt.Errorf("parsing balance %q: %w", balance.String, err)
			}
			a.KnownBalance = &d
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountByLabelHash returns how many of owner's transactions share the
// cleaned label of label.
func (s *Store) CountByLabelHash(ctx context.Context, owner, label string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE owner = ? AND label_hash = ?`,
		owner, s.sealer.Hash(label)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by label hash: %w", err)
	}
	return n, nil
}
