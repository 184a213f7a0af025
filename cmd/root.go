package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/bookledger/cmd/openlibrary"
	"github.com/lepinkainen/bookledger/internal/cache"
	"github.com/lepinkainen/bookledger/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	importOpenLibrary = openlibrary.ImportWithParams
	loadConfig        = config.Load
)

// CLI represents the complete command structure for the bookledger application
type CLI struct {
	LogLevel  string `help:"Log level: DEBUG, INFO, WARN, ERROR" default:"INFO"`
	OutputDir string `help:"Directory holding authors.csv, books.csv and book_subjects.csv (overrides output.dir)"`

	// Datasette flags
	Datasette   bool   `help:"Mirror the tables into SQLite/Datasette after each run"`
	DatasetteDB string `help:"Path to SQLite mirror database file (overrides datasette.dbfile)"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file (overrides cache.dbfile)"`
	CacheTTL    string `help:"Cache time-to-live duration, e.g. 24h (overrides cache.ttl)"`

	Import ImportCmd `cmd:"" help:"Import books from external sources"`
	Cache  CacheCmd  `cmd:"" help:"Manage the API response cache"`
}

// ImportCmd represents the import command and its subcommands
type ImportCmd struct {
	OpenLibrary OpenLibraryCmd `cmd:"" name:"openlibrary" help:"Import one Open Library search batch into the CSV tables"`
}

// OpenLibraryCmd represents the openlibrary import command
type OpenLibraryCmd struct {
	Search     string `short:"s" help:"Open Library search query" default:"subject:horses"`
	Limit      int    `short:"n" help:"Number of results to request" default:"20"`
	JSON       bool   `help:"Also write the books table to JSON"`
	JSONOutput string `help:"Path to JSON output file (defaults to books.json in the output directory)"`
	Report     string `help:"Write a YAML run report to this path"`
	NoCache    bool   `help:"Bypass the search response cache"`
}

// CacheCmd groups cache maintenance subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Remove cached responses for a source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookledger"),
		kong.Description("Ingest Open Library search results into deduplicated author, book and subject tables."),
		kong.UsageOnError(),
	)

	initLogging(cli.LogLevel)

	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// initConfig registers defaults, environment overrides (BOOKLEDGER_*) and
// config.yaml in the working directory. A missing config file is written
// out with the defaults and the run continues.
func initConfig() error {
	config.SetDefaults()

	viper.SetEnvPrefix("bookledger")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		slog.Info("Config file not found, writing default config file...")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}
	return nil
}

// updateGlobalConfig applies flags that were given on the command line.
// Unset flags leave config file and environment values alone.
func updateGlobalConfig(cli *CLI) {
	if cli.OutputDir != "" {
		viper.Set("output.dir", cli.OutputDir)
	}
	if cli.Datasette {
		viper.Set("datasette.enabled", true)
	}
	if cli.DatasetteDB != "" {
		viper.Set("datasette.dbfile", cli.DatasetteDB)
	}
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
}

func (o *OpenLibraryCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return importOpenLibrary(ctx, cfg, openlibrary.Params{
		Search:     o.Search,
		Limit:      o.Limit,
		WriteJSON:  o.JSON,
		JSONOutput: o.JSONOutput,
		Report:     o.Report,
		NoCache:    o.NoCache,
	}, os.Stdout)
}

// parseLogLevel maps a level name to slog; unknown names mean INFO.
func parseLogLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func initLogging(level string) {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: parseLogLevel(level),
	})

	slog.SetDefault(slog.New(handler))
}
