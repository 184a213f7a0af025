package catalog

// TitleAuthor is the fallback identity of a book.
type TitleAuthor struct {
	Title     string
	AuthorKey string
}

// State is the snapshot of all three tables plus the lookup indexes built
// over them. Rows are held by pointer so index entries and table rows stay
// the same object.
type State struct {
	Authors      []*Author
	Books        []*Book
	BookSubjects []BookSubject

	authorsByKey       map[string]*Author
	booksByWork        map[string]*Book
	booksByTitleAuthor map[TitleAuthor]*Book
	links              map[BookSubject]struct{}
}

// NewState indexes previously persisted rows. When persisted rows collide on
// a key the later row wins the index slot.
func NewState(authors []*Author, books []*Book, subjects []BookSubject) *State {
	s := &State{
		Authors:            authors,
		Books:              books,
		BookSubjects:       subjects,
		authorsByKey:       make(map[string]*Author, len(authors)),
		booksByWork:        make(map[string]*Book, len(books)),
		booksByTitleAuthor: make(map[TitleAuthor]*Book, len(books)),
		links:              make(map[BookSubject]struct{}, len(subjects)),
	}

	for _, a := range authors {
		if a.Key != "" {
			s.authorsByKey[a.Key] = a
		}
	}
	for _, b := range books {
		s.indexBook(b, b.WorkKey())
	}
	for _, l := range subjects {
		if l.Subject != "" {
			s.links[l] = struct{}{}
		}
	}

	return s
}

// NewEmptyState returns a state with no rows.
func NewEmptyState() *State {
	return NewState(nil, nil, nil)
}

// AuthorByKey looks an author up by external author key.
func (s *State) AuthorByKey(key string) (*Author, bool) {
	a, ok := s.authorsByKey[key]
	return a, ok
}

// BookByWork looks a book up by work key.
func (s *State) BookByWork(workKey string) (*Book, bool) {
	b, ok := s.booksByWork[workKey]
	return b, ok
}

// BookByTitleAuthor looks a book up by its fallback identity.
func (s *State) BookByTitleAuthor(title, authorKey string) (*Book, bool) {
	b, ok := s.booksByTitleAuthor[TitleAuthor{Title: title, AuthorKey: authorKey}]
	return b, ok
}

// HasLink reports whether the book-subject pair is already present.
func (s *State) HasLink(link BookSubject) bool {
	_, ok := s.links[link]
	return ok
}

// AddAuthor appends a new author row and indexes it.
func (s *State) AddAuthor(a *Author) {
	s.Authors = append(s.Authors, a)
	s.authorsByKey[a.Key] = a
}

// AddBook appends a new book row and indexes it under both identities.
func (s *State) AddBook(b *Book, workKey string) {
	s.Books = append(s.Books, b)
	s.indexBook(b, workKey)
}

// AddLink appends the link unless the pair already exists. It reports
// whether a row was added.
func (s *State) AddLink(link BookSubject) bool {
	if s.HasLink(link) {
		return false
	}
	s.BookSubjects = append(s.BookSubjects, link)
	s.links[link] = struct{}{}
	return true
}

// NextAuthorID is one past the largest author id.
func (s *State) NextAuthorID() int {
	maxID := 0
	for _, a := range s.Authors {
		maxID = max(maxID, a.ID)
	}
	return maxID + 1
}

// NextBookID is one past the largest book id.
func (s *State) NextBookID() int {
	maxID := 0
	for _, b := range s.Books {
		maxID = max(maxID, b.ID)
	}
	return maxID + 1
}

func (s *State) indexBook(b *Book, workKey string) {
	if workKey != "" {
		s.booksByWork[workKey] = b
	}
	if b.Title != "" && b.AuthorKey != "" {
		s.booksByTitleAuthor[TitleAuthor{Title: b.Title, AuthorKey: b.AuthorKey}] = b
	}
}
