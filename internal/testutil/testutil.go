// Package testutil holds sandboxed file helpers and config resets for bookledger tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnv is a temporary directory that every helper path is confined to.
// It is removed when the test ends.
type TestEnv struct {
	t       *testing.T
	rootDir string
}

// NewTestEnv creates a sandbox under t.TempDir.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{t: t, rootDir: t.TempDir()}
}

// RootDir returns the sandbox directory.
func (e *TestEnv) RootDir() string {
	return e.rootDir
}

// Path resolves elem inside the sandbox and fails the test if the result
// would escape it.
func (e *TestEnv) Path(elem ...string) string {
	e.t.Helper()

	p := filepath.Join(append([]string{e.rootDir}, elem...)...)
	rel, err := filepath.Rel(e.rootDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		e.t.Fatalf("path %q escapes test sandbox %q", p, e.rootDir)
	}
	return p
}

// WriteFile writes content, creating parent directories as needed.
func (e *TestEnv) WriteFile(path string, content []byte) {
	e.t.Helper()

	p := e.Path(path)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(e.t, os.WriteFile(p, content, 0o644))
}

func (e *TestEnv) WriteFileString(path, content string) {
	e.t.Helper()
	e.WriteFile(path, []byte(content))
}

// WriteLines writes lines terminated with CRLF, the line ending used by
// the CSV tables.
func (e *TestEnv) WriteLines(path string, lines ...string) {
	e.t.Helper()
	e.WriteFileString(path, crlf(lines))
}

// AssertLines checks that a file holds exactly the given CRLF-terminated lines.
func (e *TestEnv) AssertLines(path string, lines ...string) {
	e.t.Helper()
	e.AssertFileEquals(path, crlf(lines))
}

func crlf(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.String()
}

func (e *TestEnv) ReadFile(path string) []byte {
	e.t.Helper()

	content, err := os.ReadFile(e.Path(path))
	require.NoError(e.t, err)
	return content
}

func (e *TestEnv) ReadFileString(path string) string {
	e.t.Helper()
	return string(e.ReadFile(path))
}

func (e *TestEnv) MkdirAll(path string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.Path(path), 0o755))
}

// FileExists reports whether anything exists at path.
func (e *TestEnv) FileExists(path string) bool {
	e.t.Helper()
	_, err := os.Stat(e.Path(path))
	return err == nil
}

func (e *TestEnv) RequireFileExists(path string) {
	e.t.Helper()
	require.FileExists(e.t, e.Path(path))
}

// Chdir switches the working directory into the sandbox until the test ends.
func (e *TestEnv) Chdir(path string) {
	e.t.Helper()
	e.t.Chdir(e.Path(path))
}

func (e *TestEnv) AssertFileContains(path, expected string) {
	e.t.Helper()
	assert.Contains(e.t, e.ReadFileString(path), expected, "file %q", path)
}

func (e *TestEnv) AssertFileEquals(path, expected string) {
	e.t.Helper()
	assert.Equal(e.t, expected, e.ReadFileString(path), "file %q", path)
}

// SetEnv sets an environment variable for the rest of the test.
func (e *TestEnv) SetEnv(key, value string) {
	e.t.Helper()
	e.t.Setenv(key, value)
}

func (e *TestEnv) String() string {
	return fmt.Sprintf("TestEnv{rootDir: %q}", e.rootDir)
}
