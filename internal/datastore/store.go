// Package datastore mirrors the ledger tables into SQLite or a remote
// Datasette instance.
package datastore

// Store is a destination the tables can be mirrored to.
type Store interface {
	// Connect establishes a connection to the data store
	Connect() error

	// CreateTable creates a new table with the given schema if it doesn't exist
	CreateTable(schema string) error

	// BatchInsert upserts records into table, replacing rows that share a
	// primary key.
	BatchInsert(database string, table string, records []map[string]any) error

	// Close closes the connection to the data store
	Close() error
}

// Database is the Datasette database name the tables are published under.
const Database = "bookledger"

const (
	AuthorsTable      = "authors"
	BooksTable        = "books"
	BookSubjectsTable = "book_subjects"
)

const AuthorsSchema = `
CREATE TABLE IF NOT EXISTS authors (
	author_id INTEGER PRIMARY KEY,
	author_key TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	book_count INTEGER NOT NULL
);
`

// BooksSchema keeps price as TEXT so the two-decimal form survives.
const BooksSchema = `
CREATE TABLE IF NOT EXISTS books (
	book_id INTEGER PRIMARY KEY,
	handle TEXT NOT NULL,
	title TEXT NOT NULL,
	author_id INTEGER NOT NULL REFERENCES authors(author_id),
	author_key TEXT NOT NULL,
	vendor TEXT NOT NULL,
	price TEXT NOT NULL,
	first_publish_year INTEGER,
	edition_count INTEGER NOT NULL,
	url TEXT NOT NULL
);
`

const BookSubjectsSchema = `
CREATE TABLE IF NOT EXISTS book_subjects (
	book_id INTEGER NOT NULL REFERENCES books(book_id),
	subject TEXT NOT NULL,
	PRIMARY KEY (book_id, subject)
);
`
