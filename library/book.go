package library

import (
	"strings"
)

// Book is a catalog entry. The ID is assigned by the store on first save and
// is immutable afterwards. The ISBN must be unique among all books; the
// BookService enforces this before handing the book to the store.
type Book struct {
	ID     int64
	Title  string
	Author string
	ISBN   string
}

// BookFilter is a filter-by-example for book searches: only non-empty fields
// constrain the result, each with case-insensitive contains-matching.
type BookFilter struct {
	Title  string
	Author string
}

// IsEmpty reports whether the filter constrains nothing.
func (f BookFilter) IsEmpty() bool {
	return f.Title == "" && f.Author == ""
}

// ValidateNewBook checks the required fields for book creation.
// It returns a *ValidationError listing every missing field, or nil.
func ValidateNewBook(book Book) error {
	ve := &ValidationError{}

	if strings.TrimSpace(book.Title) == "" {
		ve.add("title is required")
	}

	if strings.TrimSpace(book.Author) == "" {
		ve.add("author is required")
	}

	if strings.TrimSpace(book.ISBN) == "" {
		ve.add("isbn is required")
	}

	return ve.orNil()
}
