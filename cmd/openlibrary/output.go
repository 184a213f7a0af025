package openlibrary

import (
	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/cmdutil"
	"github.com/lepinkainen/bookledger/internal/config"
	"github.com/lepinkainen/bookledger/internal/datastore"
	"github.com/lepinkainen/bookledger/internal/fileutil"
)

func authorToMap(a *catalog.Author) map[string]any { return cmdutil.StructToMap(a) }

func bookToMap(b *catalog.Book) map[string]any { return cmdutil.StructToMap(b) }

func bookSubjectToMap(l catalog.BookSubject) map[string]any { return cmdutil.StructToMap(l) }

// mirrorToDatastore upserts all three tables when datasette output is
// enabled. Authors go first so book rows can reference them.
func mirrorToDatastore(cfg config.Datasette, state *catalog.State) (err error) {
	store, err := cmdutil.OpenDatastore(cfg)
	if err != nil || store == nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); err == nil {
			err = cerr
		}
	}()

	if err := cmdutil.WriteToDatastore(store, state.Authors, datastore.AuthorsSchema, datastore.AuthorsTable, "authors", authorToMap); err != nil {
		return err
	}
	if err := cmdutil.WriteToDatastore(store, state.Books, datastore.BooksSchema, datastore.BooksTable, "books", bookToMap); err != nil {
		return err
	}
	return cmdutil.WriteToDatastore(store, state.BookSubjects, datastore.BookSubjectsSchema, datastore.BookSubjectsTable, "book subjects", bookSubjectToMap)
}

// bookExport is a denormalized books row for the JSON export.
type bookExport struct {
	BookID           int      `json:"book_id"`
	Handle           string   `json:"handle"`
	Title            string   `json:"title"`
	AuthorID         int      `json:"author_id"`
	AuthorKey        string   `json:"author_key"`
	AuthorName       string   `json:"author_name"`
	Vendor           string   `json:"vendor"`
	Price            string   `json:"price"`
	FirstPublishYear *int     `json:"first_publish_year,omitempty"`
	EditionCount     int      `json:"edition_count"`
	URL              string   `json:"url"`
	Subjects         []string `json:"subjects"`
}

func exportBooks(state *catalog.State) []bookExport {
	names := authorNames(state)
	subjects := make(map[int][]string)
	for _, link := range state.BookSubjects {
		subjects[link.BookID] = append(subjects[link.BookID], link.Subject)
	}

	books := make([]bookExport, 0, len(state.Books))
	for _, b := range state.Books {
		bookSubjects := subjects[b.ID]
		if bookSubjects == nil {
			bookSubjects = []string{}
		}
		books = append(books, bookExport{
			BookID:           b.ID,
			Handle:           b.Handle,
			Title:            b.Title,
			AuthorID:         b.AuthorID,
			AuthorKey:        b.AuthorKey,
			AuthorName:       names[b.AuthorID],
			Vendor:           b.Vendor,
			Price:            b.Price.StringFixed(2),
			FirstPublishYear: b.FirstPublishYear,
			EditionCount:     b.EditionCount,
			URL:              b.URL,
			Subjects:         bookSubjects,
		})
	}
	return books
}

func writeBooksJSON(state *catalog.State, path string) error {
	return fileutil.WriteJSONFile(exportBooks(state), path)
}
