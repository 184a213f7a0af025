// Package normalize turns loosely-typed search documents into validated
// records the reconciler can trust.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RawRecord is a search document with every field optional. Nil pointers and
// nil slices mean the field was absent or had an unusable type.
type RawRecord struct {
	Title            *string
	Key              *string
	WorkKeys         []string
	AuthorKeys       []string
	AuthorNames      []string
	Subjects         []string
	FirstPublishYear *int
	EditionCount     *int
}

// FromMap reads the fields the pipeline uses from one decoded search doc.
func FromMap(doc map[string]any) RawRecord {
	return RawRecord{
		Title:            stringField(doc, "title"),
		Key:              stringField(doc, "key"),
		WorkKeys:         stringList(doc, "work_key"),
		AuthorKeys:       stringList(doc, "author_key"),
		AuthorNames:      stringList(doc, "author_name"),
		Subjects:         subjectList(doc, "subject"),
		FirstPublishYear: intField(doc, "first_publish_year"),
		EditionCount:     intField(doc, "edition_count"),
	}
}

// FromMaps converts a batch of decoded docs.
func FromMaps(docs []map[string]any) []RawRecord {
	records := make([]RawRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, FromMap(doc))
	}
	return records
}

func stringField(doc map[string]any, name string) *string {
	s, ok := doc[name].(string)
	if !ok {
		return nil
	}
	return &s
}

// stringList keeps list entries in position. Entries that are not strings
// become empty strings so "first element" keeps meaning the first element.
func stringList(doc map[string]any, name string) []string {
	items, ok := doc[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok {
			result[i] = s
		}
	}
	return result
}

// subjectList renders every element the way Python's str() would, so a
// null entry becomes "None" and booleans "True"/"False". Filtering happens
// in Normalize.
func subjectList(doc map[string]any, name string) []string {
	items, ok := doc[name].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, pyString(item))
	}
	return result
}

func pyString(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	case float64:
		return pyNumber(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// pyNumber formats a decoded JSON number. Integral values print as
// integers since the decoder cannot tell 1 from 1.0.
func pyNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f):
		return strconv.FormatFloat(f, 'f', -1, 64)
	case math.Abs(f) < 1e-4:
		return strconv.FormatFloat(f, 'e', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

func intField(doc map[string]any, name string) *int {
	var n int
	switch v := doc[name].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		n = int(v)
	case int:
		n = v
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}
