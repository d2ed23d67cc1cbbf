package datastore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Luq02/lab6/datastores"
)

type StoreOptions struct {
	StoreDriver string `doc:"contacts store: inmem, sqlite or postgres" default:"inmem"`
	StoreDSN    string `doc:"sqlite file path or postgres connection string"`
	StoreSeed   string `doc:"YAML file of contacts loaded into an empty store"`
}

// Store is a [datastores.ContactsStore] that must be closed after use.
type Store interface {
	datastores.ContactsStore
	io.Closer
}

type inmem struct{ *datastores.ContactsInmem }

func (inmem) Close() error { return nil }

// Open opens the store selected by options and seeds it.
func Open(ctx context.Context, options *StoreOptions, logger *slog.Logger) (Store, error) {
	store, err := open(ctx, options)
	if err != nil {
		return nil, err
	}

	if options.StoreSeed != "" {
		n, err := seed(ctx, store, options.StoreSeed)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		logger.Info("contacts store seeded", "file", options.StoreSeed, "created", n)
	}

	logger.Info("contacts store opened", "driver", options.StoreDriver)
	return store, nil
}

func open(ctx context.Context, options *StoreOptions) (Store, error) {
	switch strings.ToLower(options.StoreDriver) {
	case "", "inmem":
		return inmem{datastores.NewContactsInmem()}, nil
	case "sqlite":
		return datastores.OpenContactsSQLite(ctx, options.StoreDSN)
	case "postgres":
		return datastores.OpenContactsPostgres(ctx, options.StoreDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", options.StoreDriver)
	}
}

func seed(ctx context.Context, store datastores.ContactsStore, file string) (int, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	contacts, err := datastores.LoadSeed(f)
	if err != nil {
		return 0, err
	}
	return datastores.Seed(ctx, store, contacts)
}
