package normalize

import (
	"strings"

	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/errors"
)

// WorkPrefix marks identifiers that refer to a work rather than an edition.
const WorkPrefix = catalog.WorkPrefix

// Record is a validated search result. Title, WorkKey and AuthorKey are
// always non-empty.
type Record struct {
	Title            string
	WorkKey          string
	AuthorKey        string
	AuthorName       string
	Subjects         []string
	FirstPublishYear *int
	EditionCount     int
}

// Normalize validates a raw record. It returns a *errors.MissingFieldError
// naming the first of title, author_key or work_key that is missing.
func Normalize(raw RawRecord) (Record, error) {
	rec := Record{
		WorkKey:          selectWorkKey(raw),
		Subjects:         cleanSubjects(raw.Subjects),
		FirstPublishYear: raw.FirstPublishYear,
	}
	if raw.Title != nil {
		rec.Title = *raw.Title
	}
	if len(raw.AuthorKeys) > 0 {
		rec.AuthorKey = raw.AuthorKeys[0]
	}
	if len(raw.AuthorNames) > 0 {
		rec.AuthorName = raw.AuthorNames[0]
	}
	if raw.EditionCount != nil && *raw.EditionCount > 0 {
		rec.EditionCount = *raw.EditionCount
	}
	if rec.FirstPublishYear != nil && *rec.FirstPublishYear == 0 {
		rec.FirstPublishYear = nil
	}

	switch {
	case rec.Title == "":
		return Record{}, errors.NewMissingFieldError("title")
	case rec.AuthorKey == "":
		return Record{}, errors.NewMissingFieldError("author_key")
	case rec.WorkKey == "":
		return Record{}, errors.NewMissingFieldError("work_key")
	}

	return rec, nil
}

func selectWorkKey(raw RawRecord) string {
	if raw.Key != nil && strings.HasPrefix(*raw.Key, WorkPrefix) {
		return *raw.Key
	}
	for _, k := range raw.WorkKeys {
		if strings.HasPrefix(k, WorkPrefix) {
			return k
		}
	}
	return ""
}

func cleanSubjects(subjects []string) []string {
	if len(subjects) == 0 {
		return nil
	}
	result := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}
