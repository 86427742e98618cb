// Package memorystore provides in-memory store implementations mirroring the
// Postgres stores' contracts. Tests for the services and the HTTP surface run
// against these instead of a database.
package memorystore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bookhaven/libraryapi/library"
)

// BookStore is an in-memory implementation of the book store contract.
type BookStore struct {
	mu     sync.Mutex
	nextID int64
	books  map[int64]library.Book
}

// NewBookStore creates an empty in-memory book store.
func NewBookStore() *BookStore {
	return &BookStore{books: make(map[int64]library.Book)}
}

func (s *BookStore) Save(_ context.Context, book library.Book) (library.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ID == 0 {
		s.nextID++
		book.ID = s.nextID
		s.books[book.ID] = book

		return book, nil
	}

	if _, exists := s.books[book.ID]; !exists {
		return library.Book{}, library.ErrNoRowsAffected
	}

	s.books[book.ID] = book

	return book, nil
}

func (s *BookStore) FindByID(_ context.Context, id int64) (library.Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, found := s.books[id]

	return book, found, nil
}

func (s *BookStore) FindByISBN(_ context.Context, isbn string) (library.Book, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, book := range s.books {
		if book.ISBN == isbn {
			return book, true, nil
		}
	}

	return library.Book{}, false, nil
}

func (s *BookStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	_, found, err := s.FindByISBN(ctx, isbn)
	return found, err
}

func (s *BookStore) Delete(_ context.Context, book library.Book) error {
	if book.ID == 0 {
		return library.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.books, book.ID)

	return nil
}

func (s *BookStore) FindAll(_ context.Context, filter library.BookFilter, page library.PageRequest) (library.Page[library.Book], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]library.Book, 0, len(s.books))

	for _, book := range s.books {
		if matchesBookFilter(book, filter) {
			matching = append(matching, book)
		}
	}

	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })

	return library.Page[library.Book]{
		Content:       pageSlice(matching, page),
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: int64(len(matching)),
	}, nil
}

// matchesBookFilter applies the filter-by-example contract: empty fields
// constrain nothing, non-empty fields match case-insensitive substrings.
func matchesBookFilter(book library.Book, filter library.BookFilter) bool {
	if filter.Title != "" && !containsFold(book.Title, filter.Title) {
		return false
	}

	if filter.Author != "" && !containsFold(book.Author, filter.Author) {
		return false
	}

	return true
}

func containsFold(haystack string, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func pageSlice[T any](items []T, page library.PageRequest) []T {
	from := page.Offset()
	if from >= len(items) {
		return []T{}
	}

	to := from + page.Size
	if to > len(items) {
		to = len(items)
	}

	return items[from:to]
}
