package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultJSONName is used for --json when no --json-output is given.
const DefaultJSONName = "books.json"

// OutputConfig holds the output locations of an import run.
type OutputConfig struct {
	OutputDir    string
	WriteJSON    bool
	JSONOutput   string
	ReportOutput string
}

// SetupOutputDir fills in the default JSON path and creates every
// directory the run will write into.
func SetupOutputDir(cfg *OutputConfig) error {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	if cfg.WriteJSON && cfg.JSONOutput == "" {
		cfg.JSONOutput = filepath.Join(cfg.OutputDir, DefaultJSONName)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, file := range []string{cfg.jsonPath(), cfg.ReportOutput} {
		if file == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", file, err)
		}
	}

	return nil
}

func (cfg *OutputConfig) jsonPath() string {
	if !cfg.WriteJSON {
		return ""
	}
	return cfg.JSONOutput
}
