package httpapi

import (
	"github.com/bookhaven/libraryapi/library"
)

const loanDateFormat = "2006-01-02"

// BookDTO is the wire shape of a book.
type BookDTO struct {
	ID     int64  `json:"id,omitempty"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// LoanDTO is the wire shape of a loan. Listings embed the book; the create
// request only carries isbn, customer and an optional email.
type LoanDTO struct {
	ID       int64    `json:"id,omitempty"`
	ISBN     string   `json:"isbn,omitempty"`
	Customer string   `json:"customer"`
	Email    string   `json:"email,omitempty"`
	LoanDate string   `json:"loanDate,omitempty"`
	Returned bool     `json:"returned"`
	Book     *BookDTO `json:"book,omitempty"`
}

// returnedLoanDTO is the PATCH body for recording a return.
type returnedLoanDTO struct {
	Returned bool `json:"returned"`
}

// pageDTO is the wire shape of one result page.
type pageDTO[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// apiErrors is the error body for 4xx/5xx responses.
type apiErrors struct {
	Errors []string `json:"errors"`
}

func bookToDTO(book library.Book) BookDTO {
	return BookDTO{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		ISBN:   book.ISBN,
	}
}

func (dto BookDTO) toDomain() library.Book {
	return library.Book{
		ID:     dto.ID,
		Title:  dto.Title,
		Author: dto.Author,
		ISBN:   dto.ISBN,
	}
}

func loanToDTO(loan library.Loan) LoanDTO {
	book := bookToDTO(loan.Book)

	return LoanDTO{
		ID:       loan.ID,
		ISBN:     loan.Book.ISBN,
		Customer: loan.Customer,
		Email:    loan.CustomerEmail,
		LoanDate: loan.LoanDate.Format(loanDateFormat),
		Returned: loan.Status.Returned(),
		Book:     &book,
	}
}

func pageToDTO[T any, U any](page library.Page[T], mapItem func(T) U) pageDTO[U] {
	content := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, mapItem(item))
	}

	return pageDTO[U]{
		Content:       content,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
	}
}
