package cache

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// InvalidateCacheCmd represents the cache invalidate subcommand
type InvalidateCacheCmd struct {
	Source  string `arg:"" help:"Cache source to invalidate: openlibrary_search" required:""`
	Expired bool   `help:"Only remove entries older than cache.ttl"`
}

func (i *InvalidateCacheCmd) Run() error {
	tableName, ok := sources[i.Source]
	if !ok {
		return fmt.Errorf("invalid cache source '%s'; valid sources are: %s", i.Source, strings.Join(sourceNames(), ", "))
	}

	dbPath := viper.GetString("cache.dbfile")
	slog.Info("Invalidating cache", "source", i.Source, "database", dbPath, "expired_only", i.Expired)

	c, err := Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			slog.Warn("Failed to close cache database", "error", cerr)
		}
	}()

	var rowsDeleted int64
	if i.Expired {
		rowsDeleted, err = c.ClearExpired(tableName, viper.GetDuration("cache.ttl"))
	} else {
		rowsDeleted, err = c.InvalidateSource(tableName)
	}
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	slog.Info("Cache invalidated", "source", i.Source, "rows_deleted", rowsDeleted)
	return nil
}

func sourceNames() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
