// Package tablestore persists the catalog as three CSV tables, rewritten in
// full on every save.
package tablestore

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/csvutil"
	"github.com/lepinkainen/bookledger/internal/fileutil"
)

// Column sets of the three tables, in file order.
var (
	AuthorColumns      = []string{"author_id", "author_key", "name", "book_count"}
	BookColumns        = []string{"book_id", "handle", "title", "author_id", "author_key", "vendor", "price", "first_publish_year", "edition_count", "url"}
	BookSubjectColumns = []string{"book_id", "subject"}
)

// Paths locates the three table files.
type Paths struct {
	Authors      string
	Books        string
	BookSubjects string
}

// PathsIn places the tables under dir with their default file names.
func PathsIn(dir string) Paths {
	return Paths{
		Authors:      filepath.Join(dir, "authors.csv"),
		Books:        filepath.Join(dir, "books.csv"),
		BookSubjects: filepath.Join(dir, "book_subjects.csv"),
	}
}

// Store reads and writes the tables at fixed paths.
type Store struct {
	paths Paths
}

// New creates a Store for paths.
func New(paths Paths) *Store {
	return &Store{paths: paths}
}

// Paths returns the table locations.
func (s *Store) Paths() Paths {
	return s.paths
}

// EnsureHeaders creates any missing table file with just its header row.
func (s *Store) EnsureHeaders() error {
	tables := []struct {
		path    string
		columns []string
	}{
		{s.paths.Authors, AuthorColumns},
		{s.paths.Books, BookColumns},
		{s.paths.BookSubjects, BookSubjectColumns},
	}

	for _, table := range tables {
		if fileutil.FileExists(table.path) {
			continue
		}
		if err := fileutil.EnsureParentDir(table.path); err != nil {
			return err
		}
		if err := csvutil.WriteCSV(table.path, table.columns, nil); err != nil {
			return fmt.Errorf("failed to create %s: %w", table.path, err)
		}
		slog.Debug("Created table file", "path", table.path)
	}
	return nil
}

// Load reads all three tables into an indexed snapshot. Missing files load as
// empty tables; rows that cannot be parsed are an error.
func (s *Store) Load() (*catalog.State, error) {
	opts := csvutil.ProcessorOptions{AllowMissing: true}

	authors, err := csvutil.ProcessCSV(s.paths.Authors, parseAuthor, opts)
	if err != nil {
		return nil, fmt.Errorf("loading authors: %w", err)
	}
	books, err := csvutil.ProcessCSV(s.paths.Books, parseBook, opts)
	if err != nil {
		return nil, fmt.Errorf("loading books: %w", err)
	}
	subjects, err := csvutil.ProcessCSV(s.paths.BookSubjects, parseBookSubject, opts)
	if err != nil {
		return nil, fmt.Errorf("loading book subjects: %w", err)
	}

	slog.Info("Loaded existing tables",
		"authors", len(authors),
		"books", len(books),
		"book_subjects", len(subjects),
	)

	return catalog.NewState(authors, books, subjects), nil
}

// Save rewrites all three tables from state.
func (s *Store) Save(state *catalog.State) error {
	authorRecords := make([][]string, 0, len(state.Authors))
	for _, a := range state.Authors {
		authorRecords = append(authorRecords, formatAuthor(a))
	}
	bookRecords := make([][]string, 0, len(state.Books))
	for _, b := range state.Books {
		bookRecords = append(bookRecords, formatBook(b))
	}
	subjectRecords := make([][]string, 0, len(state.BookSubjects))
	for _, l := range state.BookSubjects {
		subjectRecords = append(subjectRecords, formatBookSubject(l))
	}

	if err := csvutil.WriteCSV(s.paths.Authors, AuthorColumns, authorRecords); err != nil {
		return fmt.Errorf("saving authors: %w", err)
	}
	if err := csvutil.WriteCSV(s.paths.Books, BookColumns, bookRecords); err != nil {
		return fmt.Errorf("saving books: %w", err)
	}
	if err := csvutil.WriteCSV(s.paths.BookSubjects, BookSubjectColumns, subjectRecords); err != nil {
		return fmt.Errorf("saving book subjects: %w", err)
	}

	slog.Info("Saved tables",
		"authors", len(authorRecords),
		"books", len(bookRecords),
		"book_subjects", len(subjectRecords),
	)
	return nil
}
