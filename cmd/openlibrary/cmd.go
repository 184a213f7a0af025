// Package openlibrary implements "import openlibrary": fetch one search
// batch, reconcile it into the CSV tables and report what changed.
package openlibrary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lepinkainen/bookledger/internal/cache"
	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/cmdutil"
	"github.com/lepinkainen/bookledger/internal/config"
	"github.com/lepinkainen/bookledger/internal/errors"
	"github.com/lepinkainen/bookledger/internal/normalize"
	ol "github.com/lepinkainen/bookledger/internal/openlibrary"
	"github.com/lepinkainen/bookledger/internal/pricing"
	"github.com/lepinkainen/bookledger/internal/reconcile"
	"github.com/lepinkainen/bookledger/internal/tablestore"
)

// Params are the per-run options of an import. Search and Limit are sent
// to Open Library as given; the CLI supplies their defaults.
type Params struct {
	Search     string
	Limit      int
	WriteJSON  bool
	JSONOutput string
	Report     string
	NoCache    bool
	// Now drives pricing and report timestamps. Defaults to time.Now.
	Now func() time.Time
}

// ImportWithParams runs one ingestion. A failed fetch is logged and
// processed as an empty batch; only persistence failures are returned.
// The run summary is written to out.
func ImportWithParams(ctx context.Context, cfg config.Config, params Params, out io.Writer) error {
	if params.Now == nil {
		params.Now = time.Now
	}

	runID := uuid.NewString()
	logger := slog.Default().With("run_id", runID)
	report := newReport(runID, params)

	outputs := &cmdutil.OutputConfig{
		OutputDir:    cfg.OutputDir,
		WriteJSON:    params.WriteJSON,
		JSONOutput:   params.JSONOutput,
		ReportOutput: params.Report,
	}
	if err := cmdutil.SetupOutputDir(outputs); err != nil {
		return err
	}

	store := tablestore.New(cfg.TablePaths())
	if err := store.EnsureHeaders(); err != nil {
		return fmt.Errorf("failed to prepare tables: %w", err)
	}
	state, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	docs := fetch(ctx, cfg, params, logger, report)

	logger.Info("Reconciling records", "count", len(docs))
	reconciler := reconcile.New(state, reconcile.Options{
		Pricer: pricing.New(params.Now),
		Logger: logger,
	})
	stats := reconciler.Run(normalize.FromMaps(docs))

	if err := store.Save(state); err != nil {
		return fmt.Errorf("failed to write tables: %w", err)
	}
	logger.Info("Tables written",
		"authors", len(state.Authors),
		"books", len(state.Books),
		"book_subjects", len(state.BookSubjects),
	)

	for _, problem := range state.Validate() {
		logger.Warn("Table consistency problem", "problem", problem)
		report.Problems = append(report.Problems, problem.Error())
	}

	// The CSV tables are the source of truth; a failed mirror or export
	// does not fail the run.
	if err := mirrorToDatastore(cfg.Datasette, state); err != nil {
		logger.Error("Failed to mirror tables to datastore", "error", err)
	}
	if outputs.WriteJSON {
		if err := writeBooksJSON(state, outputs.JSONOutput); err != nil {
			logger.Error("Failed to write JSON export", "error", err)
		}
	}

	report.finish(params.Now(), stats, state)
	if params.Report != "" {
		if err := writeReport(report, params.Report); err != nil {
			logger.Error("Failed to write run report", "error", err)
		}
	}

	return stats.WriteSummary(out)
}

func fetch(ctx context.Context, cfg config.Config, params Params, logger *slog.Logger, report *Report) []map[string]any {
	searchCache := openSearchCache(cfg.Cache, params.NoCache, logger)
	if searchCache != nil {
		defer func() {
			if err := searchCache.Close(); err != nil {
				logger.Warn("Failed to close cache database", "error", err)
			}
		}()
	}

	client := ol.NewClient(ol.Options{
		BaseURL:           cfg.OpenLibrary.BaseURL,
		UserAgent:         cfg.OpenLibrary.UserAgent,
		Timeout:           cfg.OpenLibrary.Timeout,
		RequestsPerSecond: cfg.OpenLibrary.RateLimit,
		Cache:             searchCache,
		CacheTTL:          cfg.Cache.TTL,
	})

	logger.Info("Fetching books from Open Library", "query", params.Search, "limit", params.Limit)
	docs, err := client.Search(ctx, params.Search, params.Limit)
	if err != nil {
		if errors.IsRateLimitError(err) {
			logger.Error("Open Library rate limit hit, continuing with an empty batch", "error", err)
		} else {
			logger.Error("Failed to fetch from Open Library, continuing with an empty batch", "error", err)
		}
		report.FetchError = err.Error()
		return nil
	}
	logger.Info("Fetched books", "count", len(docs))
	return docs
}

// openSearchCache returns nil when caching is off or the database cannot
// be opened; the search then always goes to the network.
func openSearchCache(cfg config.Cache, noCache bool, logger *slog.Logger) *cache.CacheDB {
	if !cfg.Enabled || noCache {
		return nil
	}
	c, err := cache.Open(cfg.DBFile)
	if err != nil {
		logger.Warn("Failed to open cache, fetching directly", "database", cfg.DBFile, "error", err)
		return nil
	}
	logger.Debug("Using search cache", "database", c.Path(), "ttl", cfg.TTL)
	return c
}

func authorNames(state *catalog.State) map[int]string {
	names := make(map[int]string, len(state.Authors))
	for _, a := range state.Authors {
		names[a.ID] = a.Name
	}
	return names
}
