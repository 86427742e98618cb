package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/bookhaven/libraryapi/library"
	"github.com/bookhaven/libraryapi/service"
)

// Server routes HTTP requests to the book and loan services.
type Server struct {
	books  *service.BookService
	loans  *service.LoanService
	logger library.Logger
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger receiving request logs and handler errors.
func WithLogger(logger library.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the HTTP server surface with optional configuration.
func NewServer(books *service.BookService, loans *service.LoanService, options ...Option) *Server {
	s := &Server{
		books: books,
		loans: loans,
	}

	for _, option := range options {
		option(s)
	}

	s.router = s.buildRouter()

	return s
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestLogging)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/books", s.handleCreateBook).Methods(http.MethodPost)
	api.HandleFunc("/books", s.handleFindBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", s.handleGetBook).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", s.handleUpdateBook).Methods(http.MethodPut)
	api.HandleFunc("/books/{id:[0-9]+}", s.handleDeleteBook).Methods(http.MethodDelete)
	api.HandleFunc("/books/{id:[0-9]+}/loans", s.handleLoansByBook).Methods(http.MethodGet)

	api.HandleFunc("/loans", s.handleCreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans", s.handleFindLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id:[0-9]+}", s.handleReturnLoan).Methods(http.MethodPatch)

	return router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusRecorder captures the status a handler wrote so the request log can
// include it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging tags every request with a correlation ID and logs method,
// path, status and duration once the handler is done.
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(recorder, r)
		duration := time.Since(start)

		if s.logger != nil {
			s.logger.Info("request handled",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration_ms", float64(duration.Microseconds())/1000,
			)
		}
	})
}
