package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookledger/internal/config"
	"github.com/lepinkainen/bookledger/internal/datastore"
)

// OpenDatastore returns the configured mirror, or nil when mirroring is
// disabled. A non-empty URL selects the remote Datasette client over the
// local SQLite file.
func OpenDatastore(cfg config.Datasette) (datastore.Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var store datastore.Store
	if cfg.URL != "" {
		store = datastore.NewDatasetteClient(cfg.URL, cfg.Token)
	} else {
		store = datastore.NewSQLiteStore(cfg.DBFile)
	}
	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to datastore: %w", err)
	}
	return store, nil
}

// WriteToDatastore creates table from schema and upserts records into it.
// label names the records in log output.
func WriteToDatastore[T any](store datastore.Store, records []T, schema, table, label string, toMap func(T) map[string]any) error {
	if store == nil {
		return nil
	}

	if err := store.CreateTable(schema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = toMap(record)
	}

	if err := store.BatchInsert(datastore.Database, table, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", label, err)
	}

	slog.Info("Mirrored records to datastore", "table", table, "count", len(rows), "label", label)
	return nil
}
