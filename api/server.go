package api

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/graceworks/concord/core"
	"github.com/graceworks/concord/search"
	"github.com/graceworks/concord/translation"
)

// Server serves the search API.
type Server struct {
	app      *fiber.App
	searcher *search.Searcher
	source   *translation.LocalSource
	primary  string
	apiKey   string
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithAPIKey enables bearer-token authentication for every route except
// /health. An empty key leaves the API open.
func WithAPIKey(key string) Option {
	return func(s *Server) error {
		s.apiKey = key
		return nil
	}
}

// NewServer creates the HTTP server around an initialized searcher.
// primary is the translation code of the stored corpus; it is the default
// for searches that do not name a translation.
func NewServer(searcher *search.Searcher, source *translation.LocalSource, primary string, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if source == nil {
		return nil, ErrSourceRequired
	}
	primary = core.NormalizeTranslationCode(primary)
	if err := core.ValidateTranslationCode(primary); err != nil {
		return nil, err
	}

	s := &Server{
		searcher: searcher,
		source:   source,
		primary:  primary,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "concord",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	s.routes()

	return s, nil
}

// routes wires the middleware and handlers. /health comes before the auth
// middleware so probes work without a key.
func (s *Server) routes() {
	s.app.Use(s.logRequests)

	s.app.Get("/health", s.handleHealth)

	if s.apiKey != "" {
		s.app.Use(s.requireKey)
	}

	s.app.Get("/search", s.handleSearch)
	s.app.Get("/translations", s.handleTranslations)
}

// Listen serves until the listener fails or Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App returns the underlying fiber app, used by tests to issue requests
// without a listener.
func (s *Server) App() *fiber.App {
	return s.app
}

// logRequests logs one line per request. Errors have not reached the
// ErrorHandler yet when this runs, so the final status is derived the same
// way the handler will derive it.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status, _ = classify(err)
	}
	s.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start))
	return err
}

// requireKey rejects requests without the configured bearer key.
func (s *Server) requireKey(c *fiber.Ctx) error {
	auth := c.Get(fiber.HeaderAuthorization)
	want := "Bearer " + s.apiKey
	if subtle.ConstantTimeCompare([]byte(auth), []byte(want)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(errorBody{
			Error: errorDetail{Code: "unauthorized", Message: "missing or invalid API key"},
		})
	}
	return c.Next()
}
