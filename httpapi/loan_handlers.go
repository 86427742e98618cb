package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bookhaven/libraryapi/library"
)

// handleCreateLoan resolves the ISBN to a book and creates the loan for it.
// An unknown ISBN is a client error, not a 404: the resource being created
// is the loan, and its request body is what is wrong.
func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var dto LoanDTO
	if decodeErr := json.NewDecoder(r.Body).Decode(&dto); decodeErr != nil {
		s.writeErrors(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	book, found, getErr := s.books.GetByISBN(r.Context(), dto.ISBN)
	if getErr != nil {
		s.writeDomainError(w, getErr)
		return
	}

	if !found {
		s.writeErrors(w, http.StatusBadRequest, library.ErrBookNotFoundForISBN.Error())
		return
	}

	loan := library.Loan{
		Book:          book,
		Customer:      dto.Customer,
		CustomerEmail: dto.Email,
	}

	created, createErr := s.loans.Create(r.Context(), loan)
	if createErr != nil {
		s.writeDomainError(w, createErr)
		return
	}

	s.writeJSON(w, http.StatusCreated, created.ID)
}

// handleReturnLoan records a return by flipping the loan's status. Setting
// returned on an already-returned loan is accepted and changes nothing.
func (s *Server) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		s.writeNotFound(w)
		return
	}

	var dto returnedLoanDTO
	if decodeErr := json.NewDecoder(r.Body).Decode(&dto); decodeErr != nil {
		s.writeErrors(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	loan, found, getErr := s.loans.GetByID(r.Context(), id)
	if getErr != nil {
		s.writeDomainError(w, getErr)
		return
	}

	if !found {
		s.writeNotFound(w)
		return
	}

	loan.Status = library.StatusFromReturned(dto.Returned)

	if _, updateErr := s.loans.Update(r.Context(), loan); updateErr != nil {
		s.writeDomainError(w, updateErr)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleFindLoans(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := library.LoanFilter{
		ISBN:     query.Get("isbn"),
		Customer: query.Get("customer"),
	}

	page, findErr := s.loans.Find(r.Context(), filter, parsePageRequest(r))
	if findErr != nil {
		s.writeDomainError(w, findErr)
		return
	}

	s.writeJSON(w, http.StatusOK, pageToDTO(page, loanToDTO))
}
