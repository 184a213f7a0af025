package reconcile

import (
	"fmt"
	"io"
)

// Stats summarizes one reconciliation run.
type Stats struct {
	Fetched         int `yaml:"fetched" json:"fetched"`
	NewAuthors      int `yaml:"new_authors" json:"new_authors"`
	ExistingAuthors int `yaml:"existing_authors" json:"existing_authors"`
	NewBooks        int `yaml:"new_books" json:"new_books"`
	DuplicateBooks  int `yaml:"duplicate_books" json:"duplicate_books"`
	FallbackMatches int `yaml:"fallback_matches" json:"fallback_matches"`
	Skipped         int `yaml:"skipped" json:"skipped"`
	NewSubjectLinks int `yaml:"new_subject_links" json:"new_subject_links"`
}

// WriteSummary prints the human-readable run summary.
func (s Stats) WriteSummary(w io.Writer) error {
	_, err := fmt.Fprintf(w, `Pipeline Summary:
- Fetched: %d books from API
- Authors: %d new, %d existing (deduplicated)
- Books: %d new, %d duplicates skipped
- Skipped: %d records with missing critical fields
- Subjects: %d subject associations created
`,
		s.Fetched,
		s.NewAuthors, s.ExistingAuthors,
		s.NewBooks, s.DuplicateBooks,
		s.Skipped,
		s.NewSubjectLinks,
	)
	return err
}
