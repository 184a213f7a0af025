// Package resolve answers whether a normalized record refers to an author or
// book that already exists in the snapshot. It never mutates the snapshot.
package resolve

import (
	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/normalize"
)

// MatchKind tells how an existing book was found.
type MatchKind int

const (
	// MatchNone means the book is new.
	MatchNone MatchKind = iota
	// MatchWorkKey means the work identifier matched.
	MatchWorkKey
	// MatchTitleAuthor means the (title, author key) fallback matched.
	MatchTitleAuthor
)

func (k MatchKind) String() string {
	switch k {
	case MatchWorkKey:
		return "work_key"
	case MatchTitleAuthor:
		return "title_author"
	default:
		return "none"
	}
}

// BookMatch is the outcome of a book lookup. Book is nil when By is MatchNone.
type BookMatch struct {
	By   MatchKind
	Book *catalog.Book
}

// Found reports whether an existing book was matched.
func (m BookMatch) Found() bool {
	return m.By != MatchNone
}

// Snapshot is the read side of catalog.State the resolver needs.
type Snapshot interface {
	AuthorByKey(key string) (*catalog.Author, bool)
	BookByWork(workKey string) (*catalog.Book, bool)
	BookByTitleAuthor(title, authorKey string) (*catalog.Book, bool)
}

// Resolver looks records up against a snapshot.
type Resolver struct {
	snap Snapshot
}

// New creates a Resolver over snap.
func New(snap Snapshot) *Resolver {
	return &Resolver{snap: snap}
}

// Author finds an author by exact external key.
func (r *Resolver) Author(rec normalize.Record) (*catalog.Author, bool) {
	return r.snap.AuthorByKey(rec.AuthorKey)
}

// Book tries the work key first and the (title, author key) pair second.
func (r *Resolver) Book(rec normalize.Record) BookMatch {
	if b, ok := r.snap.BookByWork(rec.WorkKey); ok {
		return BookMatch{By: MatchWorkKey, Book: b}
	}
	if b, ok := r.snap.BookByTitleAuthor(rec.Title, rec.AuthorKey); ok {
		return BookMatch{By: MatchTitleAuthor, Book: b}
	}
	return BookMatch{By: MatchNone}
}
