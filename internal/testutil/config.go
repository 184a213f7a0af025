package testutil

import (
	"testing"

	"github.com/spf13/viper"
)

// ResetConfig clears viper now and again when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// SetViperValue sets a viper configuration value and restores the previous
// value on cleanup. viper has no Unset, so keys that were absent stay set
// until the next ResetConfig.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
	})
}

// SetupTestCache points the search cache at a database inside env and
// returns the database path.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	env.MkdirAll("cache")
	dbPath := env.Path("cache", "test-cache.db")

	SetViperValue(t, "cache.enabled", true)
	SetViperValue(t, "cache.dbfile", dbPath)
	SetViperValue(t, "cache.ttl", "24h")

	return dbPath
}

// SetupDatasetteDB enables the local SQLite mirror inside env and returns
// the database path.
func SetupDatasetteDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("bookledger.db")

	SetViperValue(t, "datasette.enabled", true)
	SetViperValue(t, "datasette.dbfile", dbPath)

	return dbPath
}

// SetupOutputDir writes the three tables into env's root.
func SetupOutputDir(t *testing.T, env *TestEnv) {
	t.Helper()

	SetViperValue(t, "output.dir", env.RootDir())
}
