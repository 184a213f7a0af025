package normalize

import (
	"encoding/json"
	"testing"

	"github.com/lepinkainen/bookledger/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestNormalizeFullRecord(t *testing.T) {
	doc := decodeDoc(t, `{
		"title": "Black Beauty",
		"key": "/works/OL1W",
		"author_key": ["OL1A", "OL99A"],
		"author_name": ["Anna Sewell", "Someone Else"],
		"subject": ["Horses", "  Fiction ", "", "   ", 42],
		"first_publish_year": 1877,
		"edition_count": 30
	}`)

	rec, err := Normalize(FromMap(doc))
	require.NoError(t, err)

	assert.Equal(t, "Black Beauty", rec.Title)
	assert.Equal(t, "/works/OL1W", rec.WorkKey)
	assert.Equal(t, "OL1A", rec.AuthorKey)
	assert.Equal(t, "Anna Sewell", rec.AuthorName)
	assert.Equal(t, []string{"Horses", "Fiction", "42"}, rec.Subjects)
	require.NotNil(t, rec.FirstPublishYear)
	assert.Equal(t, 1877, *rec.FirstPublishYear)
	assert.Equal(t, 30, rec.EditionCount)
}

func TestNormalizeWorkKeySelection(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "direct key",
			doc:  `{"key": "/works/OL1W", "work_key": ["/works/OL2W"]}`,
			want: "/works/OL1W",
		},
		{
			name: "edition key falls back to alternates",
			doc:  `{"key": "/books/OL5M", "work_key": ["OL7W", "/works/OL2W", "/works/OL3W"]}`,
			want: "/works/OL2W",
		},
		{
			name: "non string alternates skipped",
			doc:  `{"work_key": [7, "/works/OL4W"]}`,
			want: "/works/OL4W",
		},
		{
			name: "no usable identifier",
			doc:  `{"key": "OL1W", "work_key": "/works/OL2W"}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := FromMap(decodeDoc(t, tt.doc))
			assert.Equal(t, tt.want, selectWorkKey(raw))
		})
	}
}

func TestNormalizeRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "title absent",
			doc:   `{"key": "/works/OL1W", "author_key": ["OL1A"]}`,
			field: "title",
		},
		{
			name:  "title empty",
			doc:   `{"title": "", "key": "/works/OL1W", "author_key": ["OL1A"]}`,
			field: "title",
		},
		{
			name:  "title not a string",
			doc:   `{"title": 12, "key": "/works/OL1W", "author_key": ["OL1A"]}`,
			field: "title",
		},
		{
			name:  "author key absent",
			doc:   `{"title": "Black Beauty", "key": "/works/OL1W", "author_name": ["Anna Sewell"]}`,
			field: "author_key",
		},
		{
			name:  "author key list empty",
			doc:   `{"title": "Black Beauty", "key": "/works/OL1W", "author_key": []}`,
			field: "author_key",
		},
		{
			name:  "work key absent",
			doc:   `{"title": "Black Beauty", "author_key": ["OL1A"]}`,
			field: "work_key",
		},
		{
			name:  "title checked first",
			doc:   `{}`,
			field: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(FromMap(decodeDoc(t, tt.doc)))
			require.Error(t, err)
			field, ok := errors.MissingField(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestNormalizeOptionalFields(t *testing.T) {
	base := `"title": "Misty", "key": "/works/OL3W", "author_key": ["OL3A"]`

	tests := []struct {
		name         string
		extra        string
		wantYear     *int
		wantEditions int
		wantSubjects []string
		wantName     string
	}{
		{name: "all absent"},
		{name: "subjects not a list", extra: `, "subject": "Horses"`},
		{name: "zero year treated as absent", extra: `, "first_publish_year": 0`},
		{name: "negative editions clamp", extra: `, "edition_count": -3`},
		{name: "null edition count", extra: `, "edition_count": null`},
		{name: "author name optional", extra: `, "author_name": ["Marguerite Henry"]`, wantName: "Marguerite Henry"},
		{name: "duplicate subjects kept", extra: `, "subject": ["Horses", "Horses"]`, wantSubjects: []string{"Horses", "Horses"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Normalize(FromMap(decodeDoc(t, "{"+base+tt.extra+"}")))
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, rec.FirstPublishYear)
			assert.Equal(t, tt.wantEditions, rec.EditionCount)
			assert.Equal(t, tt.wantSubjects, rec.Subjects)
			assert.Equal(t, tt.wantName, rec.AuthorName)
		})
	}
}

func TestFromMaps(t *testing.T) {
	docs := []map[string]any{
		{"title": "A"},
		{"title": "B"},
	}
	records := FromMaps(docs)
	require.Len(t, records, 2)
	assert.Equal(t, "B", *records[1].Title)
}

func TestSubjectStringForms(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{name: "null entry", json: `["Horses", null]`, want: []string{"Horses", "None"}},
		{name: "booleans", json: `[true, false]`, want: []string{"True", "False"}},
		{name: "integer", json: `[42, -7]`, want: []string{"42", "-7"}},
		{name: "fraction", json: `[1.5, 0.25]`, want: []string{"1.5", "0.25"}},
		{name: "tiny fraction", json: `[0.00001]`, want: []string{"1e-05"}},
		{name: "padded strings trimmed", json: `[" Ponies ", "\t"]`, want: []string{"Ponies"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decodeDoc(t, `{"title": "Misty", "key": "/works/OL9W", "author_key": ["OL9A"], "subject": `+tt.json+`}`)
			rec, err := Normalize(FromMap(doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Subjects)
		})
	}
}
