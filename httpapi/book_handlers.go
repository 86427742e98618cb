package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bookhaven/libraryapi/library"
)

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var dto BookDTO
	if decodeErr := json.NewDecoder(r.Body).Decode(&dto); decodeErr != nil {
		s.writeErrors(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	created, createErr := s.books.Create(r.Context(), dto.toDomain())
	if createErr != nil {
		s.writeDomainError(w, createErr)
		return
	}

	s.writeJSON(w, http.StatusCreated, bookToDTO(created))
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		s.writeNotFound(w)
		return
	}

	book, found, getErr := s.books.GetByID(r.Context(), id)
	if getErr != nil {
		s.writeDomainError(w, getErr)
		return
	}

	if !found {
		s.writeNotFound(w)
		return
	}

	s.writeJSON(w, http.StatusOK, bookToDTO(book))
}

// handleUpdateBook overwrites title and author of an existing book.
// The ISBN is not updatable; whatever the body carries for it is ignored.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		s.writeNotFound(w)
		return
	}

	var dto BookDTO
	if decodeErr := json.NewDecoder(r.Body).Decode(&dto); decodeErr != nil {
		s.writeErrors(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	book, found, getErr := s.books.GetByID(r.Context(), id)
	if getErr != nil {
		s.writeDomainError(w, getErr)
		return
	}

	if !found {
		s.writeNotFound(w)
		return
	}

	book.Title = dto.Title
	book.Author = dto.Author

	updated, updateErr := s.books.Update(r.Context(), book)
	if updateErr != nil {
		s.writeDomainError(w, updateErr)
		return
	}

	s.writeJSON(w, http.StatusOK, bookToDTO(updated))
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		s.writeNotFound(w)
		return
	}

	book, found, getErr := s.books.GetByID(r.Context(), id)
	if getErr != nil {
		s.writeDomainError(w, getErr)
		return
	}

	if !found {
		s.writeNotFound(w)
		return
	}

	if deleteErr := s.books.Delete(r.Context(), book); deleteErr != nil {
		s.writeDomainError(w, deleteErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFindBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := library.BookFilter{
		Title:  query.Get("title"),
		Author: query.Get("author"),
	}

	page, findErr := s.books.Find(r.Context(), filter, parsePageRequest(r))
	if findErr != nil {
		s.writeDomainError(w, findErr)
		return
	}

	s.writeJSON(w, http.StatusOK, pageToDTO(page, bookToDTO))
}

func (s *Server) handleLoansByBook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		s.writeNotFound(w)
		return
	}

	book, found, getErr := s.books.GetByID(r.Context(), id)
	if getErr != nil {
		s.writeDomainError(w, getErr)
		return
	}

	if !found {
		s.writeNotFound(w)
		return
	}

	page, findErr := s.loans.LoansByBook(r.Context(), book, parsePageRequest(r))
	if findErr != nil {
		s.writeDomainError(w, findErr)
		return
	}

	s.writeJSON(w, http.StatusOK, pageToDTO(page, loanToDTO))
}
