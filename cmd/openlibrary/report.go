package openlibrary

import (
	"fmt"
	"os"
	"time"

	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/fileutil"
	"github.com/lepinkainen/bookledger/internal/reconcile"
	"gopkg.in/yaml.v3"
)

// Report is the machine-readable record of one run.
type Report struct {
	RunID      string          `yaml:"run_id"`
	Query      string          `yaml:"query"`
	Limit      int             `yaml:"limit"`
	StartedAt  time.Time       `yaml:"started_at"`
	FinishedAt time.Time       `yaml:"finished_at"`
	FetchError string          `yaml:"fetch_error,omitempty"`
	Stats      reconcile.Stats `yaml:"stats"`
	Tables     TableCounts     `yaml:"tables"`
	Problems   []string        `yaml:"problems,omitempty"`
}

// TableCounts are the row counts after the run.
type TableCounts struct {
	Authors      int `yaml:"authors"`
	Books        int `yaml:"books"`
	BookSubjects int `yaml:"book_subjects"`
}

func newReport(runID string, params Params) *Report {
	return &Report{
		RunID:     runID,
		Query:     params.Search,
		Limit:     params.Limit,
		StartedAt: params.Now().UTC(),
	}
}

func (r *Report) finish(at time.Time, stats reconcile.Stats, state *catalog.State) {
	r.FinishedAt = at.UTC()
	r.Stats = stats
	r.Tables = TableCounts{
		Authors:      len(state.Authors),
		Books:        len(state.Books),
		BookSubjects: len(state.BookSubjects),
	}
}

func writeReport(r *Report, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := fileutil.EnsureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
