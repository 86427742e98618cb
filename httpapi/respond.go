package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookhaven/libraryapi/library"
)

var json = jsoniter.ConfigFastest

const (
	msgNotFound    = "not found"
	msgInvalidBody = "invalid request body"
	msgInternal    = "internal server error"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if encodeErr := json.NewEncoder(w).Encode(v); encodeErr != nil {
		if s.logger != nil {
			s.logger.Warn("failed to encode response body", "error", encodeErr.Error())
		}
	}
}

func (s *Server) writeErrors(w http.ResponseWriter, status int, messages ...string) {
	s.writeJSON(w, status, apiErrors{Errors: messages})
}

func (s *Server) writeNotFound(w http.ResponseWriter) {
	s.writeErrors(w, http.StatusNotFound, msgNotFound)
}

// writeDomainError maps a service-layer error onto the HTTP contract.
// Validation failures and business-rule violations are client errors;
// everything else is a server fault and only logged in detail.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *library.ValidationError
	if errors.As(err, &validationErr) {
		s.writeErrors(w, http.StatusBadRequest, validationErr.Messages...)
		return
	}

	if library.IsBusinessRuleViolation(err) || errors.Is(err, library.ErrMissingID) {
		s.writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.logger != nil {
		s.logger.Error("request failed", "error", err.Error())
	}

	s.writeErrors(w, http.StatusInternalServerError, msgInternal)
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// parsePageRequest reads ?page= and ?size= with the domain defaults for
// anything absent or unparseable.
func parsePageRequest(r *http.Request) library.PageRequest {
	query := r.URL.Query()

	number, numberErr := strconv.Atoi(query.Get("page"))
	if numberErr != nil {
		number = 0
	}

	size, sizeErr := strconv.Atoi(query.Get("size"))
	if sizeErr != nil {
		size = library.DefaultPageSize
	}

	return library.NewPageRequest(number, size)
}
