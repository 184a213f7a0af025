// Package reconcile merges a batch of search records into the catalog
// snapshot while keeping authors, books and subject links unique.
package reconcile

import (
	"log/slog"

	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/errors"
	"github.com/lepinkainen/bookledger/internal/normalize"
	"github.com/lepinkainen/bookledger/internal/pricing"
	"github.com/lepinkainen/bookledger/internal/resolve"
	"github.com/lepinkainen/bookledger/internal/slug"
)

// Options configures a Reconciler.
type Options struct {
	// Pricer prices new books. Defaults to a wall-clock pricer.
	Pricer *pricing.Pricer
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Reconciler applies records to a catalog.State. Surrogate ids continue from
// the largest id present when the Reconciler was created.
type Reconciler struct {
	state    *catalog.State
	resolver *resolve.Resolver
	pricer   *pricing.Pricer
	log      *slog.Logger

	nextAuthorID int
	nextBookID   int
}

// New creates a Reconciler that mutates state.
func New(state *catalog.State, opts Options) *Reconciler {
	if opts.Pricer == nil {
		opts.Pricer = pricing.New(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Reconciler{
		state:        state,
		resolver:     resolve.New(state),
		pricer:       opts.Pricer,
		log:          opts.Logger,
		nextAuthorID: state.NextAuthorID(),
		nextBookID:   state.NextBookID(),
	}
}

// Run makes one sequential pass over the batch. A rejected record is counted
// and leaves the state untouched; it never stops the pass.
func (r *Reconciler) Run(records []normalize.RawRecord) Stats {
	stats := Stats{Fetched: len(records)}

	for _, raw := range records {
		rec, err := normalize.Normalize(raw)
		if err != nil {
			stats.Skipped++
			field, _ := errors.MissingField(err)
			r.log.Warn("Skipping record due to missing critical field",
				"field", field,
				"title", deref(raw.Title),
				"key", deref(raw.Key),
				"error", err,
			)
			continue
		}

		author := r.resolveAuthor(rec, &stats)
		book := r.resolveBook(rec, author, &stats)
		r.linkSubjects(book.ID, rec.Subjects, &stats)
	}

	return stats
}

func (r *Reconciler) resolveAuthor(rec normalize.Record, stats *Stats) *catalog.Author {
	if author, ok := r.resolver.Author(rec); ok {
		stats.ExistingAuthors++
		return author
	}

	author := &catalog.Author{
		ID:   r.nextAuthorID,
		Key:  rec.AuthorKey,
		Name: rec.AuthorName,
	}
	r.nextAuthorID++
	r.state.AddAuthor(author)
	stats.NewAuthors++

	r.log.Debug("Created author", "author_id", author.ID, "author_key", author.Key, "name", author.Name)
	return author
}

// resolveBook reuses a matched book untouched, or creates one and bumps the
// owning author's book_count.
func (r *Reconciler) resolveBook(rec normalize.Record, author *catalog.Author, stats *Stats) *catalog.Book {
	match := r.resolver.Book(rec)
	if match.Found() {
		stats.DuplicateBooks++
		if match.By == resolve.MatchTitleAuthor {
			stats.FallbackMatches++
		}
		r.log.Debug("Book already present", "book_id", match.Book.ID, "title", rec.Title, "matched_by", match.By)
		return match.Book
	}

	book := &catalog.Book{
		ID:               r.nextBookID,
		Handle:           slug.Make(rec.Title),
		Title:            rec.Title,
		AuthorID:         author.ID,
		AuthorKey:        rec.AuthorKey,
		Vendor:           catalog.Vendor,
		Price:            r.pricer.Price(rec.FirstPublishYear, rec.EditionCount),
		FirstPublishYear: rec.FirstPublishYear,
		EditionCount:     rec.EditionCount,
		URL:              catalog.WorkURL(rec.WorkKey),
	}
	r.nextBookID++
	r.state.AddBook(book, rec.WorkKey)
	author.BookCount++
	stats.NewBooks++

	r.log.Debug("Created book", "book_id", book.ID, "title", book.Title, "price", book.Price.StringFixed(2))
	return book
}

func (r *Reconciler) linkSubjects(bookID int, subjects []string, stats *Stats) {
	for _, subject := range subjects {
		if r.state.AddLink(catalog.BookSubject{BookID: bookID, Subject: subject}) {
			stats.NewSubjectLinks++
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
