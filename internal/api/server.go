// Package api wires the HTTP routes and middleware of the books server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/metric"

	"bookshelf/internal/catalog"
	"bookshelf/internal/http/response"
	"bookshelf/internal/telemetry"
)

const booksPath = "/api/books"

// Options tunes the server beyond its required dependencies.
type Options struct {
	AllowedOrigins  []string
	EnableTestReset bool
	// Meter records HTTP metrics when set.
	Meter metric.Meter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	books   catalog.Service
	handler *catalog.Handler
	router  *chi.Mux
	logger  *slog.Logger
	opts    Options
}

// NewServer creates a server with all routes configured.
func NewServer(books catalog.Service, logger *slog.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		books:   books,
		handler: catalog.NewHandler(books, logger),
		router:  chi.NewRouter(),
		logger:  logger,
		opts:    opts,
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() error {
	s.router.Use(requestID)
	s.router.Use(s.recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	s.router.Use(s.requestLogger)

	if s.opts.Meter != nil {
		mw, err := telemetry.HTTPMetrics(s.opts.Meter)
		if err != nil {
			return err
		}
		s.router.Use(mw)
	}
	return nil
}

func (s *Server) setupRoutes() {
	// Must precede Route so the mounted subrouter inherits them. A method
	// the path does not support is reported as a missing route, not 405.
	s.router.NotFound(s.handleRouteNotFound)
	s.router.MethodNotAllowed(s.handleRouteNotFound)

	s.router.Get("/", s.handleWelcome)
	s.router.Get("/health", s.handleHealth)

	s.router.Route(booksPath, s.handler.Register)

	if s.opts.EnableTestReset {
		s.router.Post("/api/test/reset", s.handleReset)
	}
}

// WelcomeResponse describes the API at the root path.
type WelcomeResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

func (s *Server) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, WelcomeResponse{
		Message: "Welcome to the Books API",
		Endpoints: map[string]string{
			"getAllBooks": "GET " + booksPath,
			"getBook":     "GET " + booksPath + "/:id",
			"createBook":  "POST " + booksPath,
			"updateBook":  "PUT " + booksPath + "/:id",
			"deleteBook":  "DELETE " + booksPath + "/:id",
		},
	}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.books.Reset(r.Context())
	s.logger.Info("Book collection reset to seed")
	response.Success(w, response.MessageBody{Message: "Books reset"}, s.logger)
}

func (s *Server) handleRouteNotFound(w http.ResponseWriter, _ *http.Request) {
	response.NotFound(w, "Route not found", s.logger)
}
