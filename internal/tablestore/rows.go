package tablestore

import (
	"fmt"
	"strconv"

	"github.com/lepinkainen/bookledger/internal/catalog"
	"github.com/lepinkainen/bookledger/internal/csvutil"
	"github.com/shopspring/decimal"
)

func parseAuthor(row csvutil.Row) (*catalog.Author, error) {
	id, err := parseID(row, "author_id")
	if err != nil {
		return nil, err
	}
	count, err := parseCount(row, "book_count")
	if err != nil {
		return nil, err
	}
	return &catalog.Author{
		ID:        id,
		Key:       row.Get("author_key"),
		Name:      row.Get("name"),
		BookCount: count,
	}, nil
}

func formatAuthor(a *catalog.Author) []string {
	return []string{
		strconv.Itoa(a.ID),
		a.Key,
		a.Name,
		strconv.Itoa(a.BookCount),
	}
}

func parseBook(row csvutil.Row) (*catalog.Book, error) {
	id, err := parseID(row, "book_id")
	if err != nil {
		return nil, err
	}
	authorID, err := parseID(row, "author_id")
	if err != nil {
		return nil, err
	}
	editions, err := parseCount(row, "edition_count")
	if err != nil {
		return nil, err
	}

	price := decimal.Zero
	if v := row.Get("price"); v != "" {
		price, err = decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", v, err)
		}
	}

	var year *int
	if v := row.Get("first_publish_year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid first_publish_year %q: %w", v, err)
		}
		year = &y
	}

	return &catalog.Book{
		ID:               id,
		Handle:           row.Get("handle"),
		Title:            row.Get("title"),
		AuthorID:         authorID,
		AuthorKey:        row.Get("author_key"),
		Vendor:           row.Get("vendor"),
		Price:            price,
		FirstPublishYear: year,
		EditionCount:     editions,
		URL:              row.Get("url"),
	}, nil
}

func formatBook(b *catalog.Book) []string {
	year := ""
	if b.FirstPublishYear != nil {
		year = strconv.Itoa(*b.FirstPublishYear)
	}
	return []string{
		strconv.Itoa(b.ID),
		b.Handle,
		b.Title,
		strconv.Itoa(b.AuthorID),
		b.AuthorKey,
		b.Vendor,
		b.Price.StringFixed(2),
		year,
		strconv.Itoa(b.EditionCount),
		b.URL,
	}
}

func parseBookSubject(row csvutil.Row) (catalog.BookSubject, error) {
	id, err := parseID(row, "book_id")
	if err != nil {
		return catalog.BookSubject{}, err
	}
	return catalog.BookSubject{BookID: id, Subject: row.Get("subject")}, nil
}

func formatBookSubject(l catalog.BookSubject) []string {
	return []string{strconv.Itoa(l.BookID), l.Subject}
}

func parseID(row csvutil.Row, column string) (int, error) {
	v := row.Get(column)
	id, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", column, v, err)
	}
	return id, nil
}

// parseCount treats an empty cell as zero.
func parseCount(row csvutil.Row, column string) (int, error) {
	if row.Get(column) == "" {
		return 0, nil
	}
	return parseID(row, column)
}
