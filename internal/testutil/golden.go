package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GoldenHelper compares output against files under goldenDir. Setting
// UPDATE_GOLDEN=true rewrites the files instead.
type GoldenHelper struct {
	t          *testing.T
	goldenDir  string
	updateMode bool
}

func NewGoldenHelper(t *testing.T, goldenDir string) *GoldenHelper {
	t.Helper()

	return &GoldenHelper{
		t:          t,
		goldenDir:  goldenDir,
		updateMode: os.Getenv("UPDATE_GOLDEN") == "true",
	}
}

// GoldenPath returns the full path to a golden file.
func (g *GoldenHelper) GoldenPath(name string) string {
	return filepath.Join(g.goldenDir, name)
}

// update writes actual to the golden file and reports whether it did.
func (g *GoldenHelper) update(name string, actual []byte) bool {
	g.t.Helper()

	if !g.updateMode {
		return false
	}

	goldenPath := g.GoldenPath(name)
	require.NoError(g.t, os.MkdirAll(filepath.Dir(goldenPath), 0o755))
	require.NoError(g.t, os.WriteFile(goldenPath, actual, 0o644))
	g.t.Logf("Updated golden file: %s", goldenPath)
	return true
}

func (g *GoldenHelper) read(name string) string {
	g.t.Helper()

	golden, err := os.ReadFile(g.GoldenPath(name))
	require.NoError(g.t, err, "failed to read golden file %s", name)
	return string(golden)
}

// AssertGolden compares actual byte for byte with the golden file.
func (g *GoldenHelper) AssertGolden(name string, actual []byte) {
	g.t.Helper()

	if g.update(name, actual) {
		return
	}
	assert.Equal(g.t, g.read(name), string(actual), "content does not match golden file %s", name)
}

func (g *GoldenHelper) AssertGoldenString(name, actual string) {
	g.t.Helper()
	g.AssertGolden(name, []byte(actual))
}

// AssertGoldenJSON compares JSON content, ignoring formatting differences.
func (g *GoldenHelper) AssertGoldenJSON(name string, actual []byte) {
	g.t.Helper()

	if g.update(name, actual) {
		return
	}
	assert.JSONEq(g.t, g.read(name), string(actual), "JSON content does not match golden file %s", name)
}
