package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store := NewSQLiteStore(filepath.Join(t.TempDir(), "bookledger.db"))
	require.NoError(t, store.Connect())
	t.Cleanup(func() { _ = store.Close() })

	for _, schema := range []string{AuthorsSchema, BooksSchema, BookSubjectsSchema} {
		require.NoError(t, store.CreateTable(schema))
	}
	return store
}

func TestSQLiteStore_InsertAndReplace(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.BatchInsert(Database, AuthorsTable, []map[string]any{
		{"author_id": 1, "author_key": "OL1A", "name": "Anna Sewell", "book_count": 1},
		{"author_id": 2, "author_key": "OL2A", "name": "Mary O'Hara", "book_count": 1},
	}))
	require.NoError(t, store.BatchInsert(Database, AuthorsTable, []map[string]any{
		{"author_id": 1, "author_key": "OL1A", "name": "Anna Sewell", "book_count": 2},
	}))

	var count, bookCount int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM authors").Scan(&count))
	require.NoError(t, store.db.QueryRow("SELECT book_count FROM authors WHERE author_id = 1").Scan(&bookCount))
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, bookCount)
}

func TestSQLiteStore_CompositeKeyAndNulls(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.BatchInsert(Database, BooksTable, []map[string]any{{
		"book_id": 1, "handle": "black-beauty", "title": "Black Beauty", "author_id": 1,
		"author_key": "OL1A", "vendor": "Open Library", "price": "50.00",
		"first_publish_year": nil, "edition_count": 30, "url": "https://openlibrary.org/works/OL1W",
	}}))
	links := []map[string]any{{"book_id": 1, "subject": "Horses"}, {"book_id": 1, "subject": "Fiction"}}
	require.NoError(t, store.BatchInsert(Database, BookSubjectsTable, links))
	require.NoError(t, store.BatchInsert(Database, BookSubjectsTable, links))

	var price string
	var year any
	require.NoError(t, store.db.QueryRow("SELECT price, first_publish_year FROM books WHERE book_id = 1").Scan(&price, &year))
	assert.Equal(t, "50.00", price)
	assert.Nil(t, year)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM book_subjects").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteStore_EmptyBatch(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.BatchInsert(Database, AuthorsTable, nil))
}

func TestSQLiteStore_UnknownColumn(t *testing.T) {
	store := openTestStore(t)
	err := store.BatchInsert(Database, AuthorsTable, []map[string]any{{"nope": 1}})
	assert.Error(t, err)
}
