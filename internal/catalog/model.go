// Package catalog holds the normalized author/book/subject model and the
// in-memory snapshot a reconciliation run mutates.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Vendor is stamped on every book row.
	Vendor = "Open Library"
	// SiteURL prefixes work keys to form a book's canonical URL.
	SiteURL = "https://openlibrary.org"
	// WorkPrefix marks identifiers that refer to a work rather than an edition.
	WorkPrefix = "/works/"
)

// Author is one row of the authors table.
type Author struct {
	ID        int    `json:"author_id"`
	Key       string `json:"author_key"`
	Name      string `json:"name"`
	BookCount int    `json:"book_count"`
}

// Book is one row of the books table.
type Book struct {
	ID               int             `json:"book_id"`
	Handle           string          `json:"handle"`
	Title            string          `json:"title"`
	AuthorID         int             `json:"author_id"`
	AuthorKey        string          `json:"author_key"`
	Vendor           string          `json:"vendor"`
	Price            decimal.Decimal `json:"price"`
	FirstPublishYear *int            `json:"first_publish_year,omitempty"`
	EditionCount     int             `json:"edition_count"`
	URL              string          `json:"url"`
}

// WorkKey recovers the work identifier from the book's canonical URL.
func (b *Book) WorkKey() string {
	if b.URL == "" {
		return ""
	}
	return strings.TrimPrefix(b.URL, SiteURL)
}

// BookSubject links a book to one subject string.
type BookSubject struct {
	BookID  int    `json:"book_id"`
	Subject string `json:"subject"`
}

// WorkURL builds the canonical URL for a work key like "/works/OL1W".
func WorkURL(workKey string) string {
	return SiteURL + workKey
}
