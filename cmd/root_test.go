package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/bookledger/cmd/openlibrary"
	"github.com/lepinkainen/bookledger/internal/config"
	"github.com/lepinkainen/bookledger/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"bookledger"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("bookledger"),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestOpenLibraryCommandDefaults(t *testing.T) {
	testutil.ResetConfig(t)

	cli, ctx := parseCLI(t, "import", "openlibrary")

	assert.Equal(t, "import openlibrary", ctx.Command())
	assert.Equal(t, "INFO", cli.LogLevel)
	assert.Empty(t, cli.OutputDir)
	assert.False(t, cli.Datasette)
	assert.Equal(t, "subject:horses", cli.Import.OpenLibrary.Search)
	assert.Equal(t, 20, cli.Import.OpenLibrary.Limit)
	assert.False(t, cli.Import.OpenLibrary.JSON)
	assert.False(t, cli.Import.OpenLibrary.NoCache)
}

func TestOpenLibraryCommandFlags(t *testing.T) {
	testutil.ResetConfig(t)

	cli, _ := parseCLI(t,
		"--log-level", "debug",
		"--output-dir", "/data/ledger",
		"--datasette",
		"--datasette-db", "/data/ledger.db",
		"--cache-db-file", "/data/cache.db",
		"--cache-ttl", "1h",
		"import", "openlibrary",
		"--search", "subject:dogs",
		"--limit", "5",
		"--json",
		"--json-output", "/data/books.json",
		"--report", "/data/run.yaml",
		"--no-cache",
	)

	assert.Equal(t, "debug", cli.LogLevel)
	assert.Equal(t, "/data/ledger", cli.OutputDir)
	assert.True(t, cli.Datasette)
	assert.Equal(t, "/data/ledger.db", cli.DatasetteDB)
	assert.Equal(t, "/data/cache.db", cli.CacheDBFile)
	assert.Equal(t, "1h", cli.CacheTTL)

	ol := cli.Import.OpenLibrary
	assert.Equal(t, "subject:dogs", ol.Search)
	assert.Equal(t, 5, ol.Limit)
	assert.True(t, ol.JSON)
	assert.Equal(t, "/data/books.json", ol.JSONOutput)
	assert.Equal(t, "/data/run.yaml", ol.Report)
	assert.True(t, ol.NoCache)
}

func TestCacheInvalidateParsing(t *testing.T) {
	testutil.ResetConfig(t)

	cli, ctx := parseCLI(t, "cache", "invalidate", "openlibrary_search", "--expired")

	assert.Equal(t, "cache invalidate <source>", ctx.Command())
	assert.Equal(t, "openlibrary_search", cli.Cache.Invalidate.Source)
	assert.True(t, cli.Cache.Invalidate.Expired)
}

func TestUpdateGlobalConfigOnlyAppliesGivenFlags(t *testing.T) {
	testutil.ResetConfig(t)
	config.SetDefaults()
	viper.Set("datasette.enabled", true)

	updateGlobalConfig(&CLI{})

	assert.Equal(t, ".", viper.GetString("output.dir"))
	assert.True(t, viper.GetBool("datasette.enabled"))
	assert.Equal(t, "./cache.db", viper.GetString("cache.dbfile"))

	updateGlobalConfig(&CLI{
		OutputDir:   "/tmp/out",
		Datasette:   true,
		DatasetteDB: "/tmp/bookledger.db",
		CacheDBFile: "/tmp/cache.db",
		CacheTTL:    "12h",
	})

	assert.Equal(t, "/tmp/out", viper.GetString("output.dir"))
	assert.Equal(t, "/tmp/bookledger.db", viper.GetString("datasette.dbfile"))
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "12h", viper.GetString("cache.ttl"))
}

func TestInitConfigWritesDefaultFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")

	require.NoError(t, initConfig())

	env.RequireFileExists("config.yaml")
	env.AssertFileContains("config.yaml", "openlibrary")
	assert.Equal(t, config.DefaultBaseURL, viper.GetString("openlibrary.baseurl"))
}

func TestInitConfigReadsFileAndEnvironment(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")
	env.WriteFileString("config.yaml", "output:\n  dir: tables\nopenlibrary:\n  timeout: 10s\n")
	env.SetEnv("BOOKLEDGER_OPENLIBRARY_USERAGENT", "ledger-test/2.0")

	require.NoError(t, initConfig())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "tables", cfg.OutputDir)
	assert.Equal(t, "10s", cfg.OpenLibrary.Timeout.String())
	assert.Equal(t, "ledger-test/2.0", cfg.OpenLibrary.UserAgent)
}

func TestInitConfigRejectsBrokenFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")
	env.WriteFileString("config.yaml", "output: [unterminated\n")

	assert.Error(t, initConfig())
}

func TestOpenLibraryCmdRunPassesParams(t *testing.T) {
	testutil.ResetConfig(t)
	config.SetDefaults()
	viper.Set("output.dir", "/tmp/ledger")

	var gotCfg config.Config
	var gotParams openlibrary.Params
	orig := importOpenLibrary
	importOpenLibrary = func(_ context.Context, cfg config.Config, params openlibrary.Params, _ io.Writer) error {
		gotCfg = cfg
		gotParams = params
		return nil
	}
	t.Cleanup(func() { importOpenLibrary = orig })

	cmd := &OpenLibraryCmd{Search: "subject:dogs", Limit: 3, JSON: true, Report: "run.yaml", NoCache: true}
	require.NoError(t, cmd.Run())

	assert.Equal(t, "/tmp/ledger", gotCfg.OutputDir)
	assert.Equal(t, openlibrary.Params{
		Search:    "subject:dogs",
		Limit:     3,
		WriteJSON: true,
		Report:    "run.yaml",
		NoCache:   true,
	}, gotParams)
}

func TestOpenLibraryCmdRunConfigError(t *testing.T) {
	testutil.ResetConfig(t)
	config.SetDefaults()
	viper.Set("openlibrary.timeout", "0s")

	called := false
	orig := importOpenLibrary
	importOpenLibrary = func(context.Context, config.Config, openlibrary.Params, io.Writer) error {
		called = true
		return nil
	}
	t.Cleanup(func() { importOpenLibrary = orig })

	assert.Error(t, (&OpenLibraryCmd{}).Run())
	assert.False(t, called)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestInitLogging(t *testing.T) {
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	initLogging("WARN")

	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))
}
