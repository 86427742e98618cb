package service

import (
	"context"

	"github.com/bookhaven/libraryapi/library"
)

// BookStore defines the persistence operations the BookService needs.
type BookStore interface {
	Save(ctx context.Context, book library.Book) (library.Book, error)
	FindByID(ctx context.Context, id int64) (library.Book, bool, error)
	FindByISBN(ctx context.Context, isbn string) (library.Book, bool, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Delete(ctx context.Context, book library.Book) error
	FindAll(ctx context.Context, filter library.BookFilter, page library.PageRequest) (library.Page[library.Book], error)
}

// BookService enforces the ISBN-uniqueness rule on creation and forwards the
// remaining operations to the store.
type BookService struct {
	books  BookStore
	logger library.Logger
}

// BookServiceOption configures a BookService.
type BookServiceOption func(*BookService)

// WithBookLogger sets the logger for the BookService.
func WithBookLogger(logger library.Logger) BookServiceOption {
	return func(s *BookService) {
		s.logger = logger
	}
}

// NewBookService creates a BookService with optional configuration.
func NewBookService(books BookStore, options ...BookServiceOption) *BookService {
	s := &BookService{books: books}

	for _, option := range options {
		option(s)
	}

	return s
}

// Create validates the book and persists it, failing with
// library.ErrDuplicateISBN when a book with the same ISBN already exists.
func (s *BookService) Create(ctx context.Context, book library.Book) (library.Book, error) {
	if err := library.ValidateNewBook(book); err != nil {
		return library.Book{}, err
	}

	exists, existsErr := s.books.ExistsByISBN(ctx, book.ISBN)
	if existsErr != nil {
		return library.Book{}, existsErr
	}

	if exists {
		return library.Book{}, library.ErrDuplicateISBN
	}

	book.ID = 0 // the store assigns the identity

	created, saveErr := s.books.Save(ctx, book)
	if saveErr != nil {
		return library.Book{}, saveErr
	}

	s.log("book created", "book_id", created.ID, "isbn", created.ISBN)

	return created, nil
}

// GetByID returns the book, or found=false when no book has this ID.
// Absence is a normal lookup outcome, not an error.
func (s *BookService) GetByID(ctx context.Context, id int64) (library.Book, bool, error) {
	return s.books.FindByID(ctx, id)
}

// GetByISBN returns the book with the exact ISBN, or found=false.
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (library.Book, bool, error) {
	return s.books.FindByISBN(ctx, isbn)
}

// Update overwrites the stored book. A zero ID is a caller bug and fails
// with library.ErrMissingID; the ISBN is never changed by an update.
func (s *BookService) Update(ctx context.Context, book library.Book) (library.Book, error) {
	if book.ID == 0 {
		return library.Book{}, library.ErrMissingID
	}

	return s.books.Save(ctx, book)
}

// Delete removes the book. A zero ID fails with library.ErrMissingID;
// deleting an already-absent book is accepted.
func (s *BookService) Delete(ctx context.Context, book library.Book) error {
	if book.ID == 0 {
		return library.ErrMissingID
	}

	if err := s.books.Delete(ctx, book); err != nil {
		return err
	}

	s.log("book deleted", "book_id", book.ID)

	return nil
}

// Find returns the page of books matching the filter-by-example.
func (s *BookService) Find(ctx context.Context, filter library.BookFilter, page library.PageRequest) (library.Page[library.Book], error) {
	return s.books.FindAll(ctx, filter, page)
}

func (s *BookService) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
