package catalog

import (
	"fmt"
	"strings"
)

// Validate checks the uniqueness and book_count invariants over the whole
// snapshot and returns one error per violation. Books without a usable
// work key must be unique by title and author key instead.
func (s *State) Validate() []error {
	var problems []error

	authorKeys := make(map[string]int, len(s.Authors))
	authorIDs := make(map[int]*Author, len(s.Authors))
	for _, a := range s.Authors {
		if prev, ok := authorKeys[a.Key]; ok {
			problems = append(problems, fmt.Errorf("author key %q used by author_id %d and %d", a.Key, prev, a.ID))
		} else {
			authorKeys[a.Key] = a.ID
		}
		authorIDs[a.ID] = a
	}

	linked := make(map[int]int, len(s.Authors))
	workKeys := make(map[string]int, len(s.Books))
	fallback := make(map[TitleAuthor]int)
	for _, b := range s.Books {
		linked[b.AuthorID]++
		if _, ok := authorIDs[b.AuthorID]; !ok {
			problems = append(problems, fmt.Errorf("book_id %d references unknown author_id %d", b.ID, b.AuthorID))
		}
		wk := b.WorkKey()
		if !strings.HasPrefix(wk, WorkPrefix) {
			pair := TitleAuthor{Title: b.Title, AuthorKey: b.AuthorKey}
			if prev, ok := fallback[pair]; ok {
				problems = append(problems, fmt.Errorf("title %q by %q used by book_id %d and %d without a work key", b.Title, b.AuthorKey, prev, b.ID))
			} else {
				fallback[pair] = b.ID
			}
		}
		if wk == "" {
			continue
		}
		if prev, ok := workKeys[wk]; ok {
			problems = append(problems, fmt.Errorf("work %q used by book_id %d and %d", wk, prev, b.ID))
		} else {
			workKeys[wk] = b.ID
		}
	}

	for _, a := range s.Authors {
		if a.BookCount != linked[a.ID] {
			problems = append(problems, fmt.Errorf("author_id %d has book_count %d but %d linked books", a.ID, a.BookCount, linked[a.ID]))
		}
	}

	seen := make(map[BookSubject]struct{}, len(s.BookSubjects))
	for _, l := range s.BookSubjects {
		if _, ok := seen[l]; ok {
			problems = append(problems, fmt.Errorf("duplicate subject link (%d, %q)", l.BookID, l.Subject))
			continue
		}
		seen[l] = struct{}{}
	}

	return problems
}
