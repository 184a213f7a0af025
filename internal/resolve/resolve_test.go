package resolve

import (
	"testing"

	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() *catalog.State {
	return catalog.NewState(
		[]*catalog.Author{{ID: 1, Key: "OL1A", Name: "Anna Sewell", BookCount: 2}},
		[]*catalog.Book{
			{ID: 1, Title: "Black Beauty", AuthorID: 1, AuthorKey: "OL1A", URL: catalog.WorkURL("/works/OL1W")},
			{ID: 2, Title: "The Horse", AuthorID: 1, AuthorKey: "OL1A", URL: catalog.WorkURL("/works/OL2W")},
		},
		nil,
	)
}

func TestResolverAuthor(t *testing.T) {
	r := New(snapshot())

	a, ok := r.Author(normalize.Record{AuthorKey: "OL1A", AuthorName: "Somebody Else"})
	require.True(t, ok)
	assert.Equal(t, 1, a.ID)

	_, ok = r.Author(normalize.Record{AuthorKey: "ol1a", AuthorName: "Anna Sewell"})
	assert.False(t, ok, "author lookup is exact on key only")
}

func TestResolverBook(t *testing.T) {
	r := New(snapshot())

	tests := []struct {
		name   string
		rec    normalize.Record
		want   MatchKind
		wantID int
	}{
		{
			name:   "primary by work key",
			rec:    normalize.Record{Title: "Renamed", WorkKey: "/works/OL1W", AuthorKey: "OL9A"},
			want:   MatchWorkKey,
			wantID: 1,
		},
		{
			name:   "work key wins over fallback",
			rec:    normalize.Record{Title: "Black Beauty", WorkKey: "/works/OL2W", AuthorKey: "OL1A"},
			want:   MatchWorkKey,
			wantID: 2,
		},
		{
			name:   "fallback by title and author",
			rec:    normalize.Record{Title: "The Horse", WorkKey: "/works/OL77W", AuthorKey: "OL1A"},
			want:   MatchTitleAuthor,
			wantID: 2,
		},
		{
			name: "same title other author is new",
			rec:  normalize.Record{Title: "The Horse", WorkKey: "/works/OL77W", AuthorKey: "OL2A"},
			want: MatchNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := r.Book(tt.rec)
			assert.Equal(t, tt.want, m.By)
			if tt.want == MatchNone {
				assert.False(t, m.Found())
				assert.Nil(t, m.Book)
				return
			}
			require.True(t, m.Found())
			assert.Equal(t, tt.wantID, m.Book.ID)
		})
	}
}

func TestResolverDoesNotMutate(t *testing.T) {
	snap := snapshot()
	r := New(snap)

	r.Book(normalize.Record{Title: "New", WorkKey: "/works/OL5W", AuthorKey: "OL5A"})
	r.Author(normalize.Record{AuthorKey: "OL5A"})

	assert.Len(t, snap.Books, 2)
	assert.Len(t, snap.Authors, 1)
}

func TestMatchKindString(t *testing.T) {
	assert.Equal(t, "work_key", MatchWorkKey.String())
	assert.Equal(t, "title_author", MatchTitleAuthor.String())
	assert.Equal(t, "none", MatchNone.String())
}
