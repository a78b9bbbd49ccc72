package commands

import (
	"context"
	"fmt"

	"github.com/cleared-dev/releve/internal/config"
	"github.com/cleared-dev/releve/internal/reconcile"
	"github.com/cleared-dev/releve/internal/seal"
	"github.com/cleared-dev/releve/internal/storage/memory"
	"github.com/cleared-dev/releve/internal/storage/sqlite"
)

type store interface {
	reconcile.Store
	Accounts(ctx context.Context, owner string) ([]reconcile.Account, error)
	Transactions(ctx context.Context, owner string) ([]reconcile.Row, error)
	Close() error
}

// openStore opens the store named by cfg.Store.Driver.
func openStore(ctx context.Context, cfg config.StoreConfig) (store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		key, err := seal.ParseKey(cfg.LabelKey)
		if err != nil {
			return nil, fmt.Errorf("store.label_key: %w", err)
		}
		sealer, err := seal.New(key)
		if err != nil {
			return nil, fmt.Errorf("store.label_key: %w", err)
		}
		return sqlite.Open(ctx, cfg.Path, sealer)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
