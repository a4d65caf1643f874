// Package web provides the HTTP API and inventory page.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JonMunkholm/bookinv/internal/config"
	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/spreadsheet"
	"github.com/JonMunkholm/bookinv/internal/web/middleware"
)

// Server is the HTTP server for the inventory.
type Server struct {
	service   *inventory.Service
	cfg       *config.Config
	router    *chi.Mux
	server    *http.Server
	imports   *ImportLimiter
	reader    spreadsheet.Reader
	validator *requestValidator

	limiters []*keyedLimiter
	draining atomic.Bool
}

// NewServer wires routes and middleware around service.
func NewServer(service *inventory.Service, cfg *config.Config) *Server {
	s := &Server{
		service:   service,
		cfg:       cfg,
		router:    chi.NewRouter(),
		imports:   NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		validator: newRequestValidator(),
		reader: spreadsheet.Reader{
			Labels:  service.Labels(),
			Sheet:   cfg.Import.Sheet,
			MaxSize: cfg.Import.MaxFileSize,
		},
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Server.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders)

	if len(s.cfg.Server.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
			MaxAge:         300,
		}))
	}

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst).middleware)
	}
}

// setupRoutes registers every route. The import route has no request
// timeout: a batch always runs to the end once started.
func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		s.useTimeout(r)
		r.Get("/", s.handlePage)
		r.Get("/healthz", s.handleHealth)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			s.useTimeout(r)
			r.Get("/books", s.handleListBooks)
			r.Post("/books", s.handleCreateBook)
			r.Get("/books/{id}", s.handleGetBook)
			r.Put("/books/{id}", s.handleUpdateBook)
			r.Delete("/books/{id}", s.handleDeleteBook)
			r.Get("/summary", s.handleSummary)
			r.Get("/search", s.handleListBooks)
		})

		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(s.newLimiter(s.cfg.Rate.ImportPerMinute, 1).middleware)
			}
			r.Post("/books/import", s.handleImport)
		})
	})
}

func (s *Server) useTimeout(r chi.Router) {
	if s.cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}
}

func (s *Server) newLimiter(perMinute, burst int) *keyedLimiter {
	l := newKeyedLimiter(perMinute, burst)
	s.limiters = append(s.limiters, l)
	return l
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	sc := s.cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}

	slog.Info("starting server", "addr", sc.Addr())
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting imports, waits for running ones, then stops the
// listener. Both waits share ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.draining.Store(true)
	for _, l := range s.limiters {
		l.stop()
	}

	if n := s.imports.Active(); n > 0 {
		slog.Info("waiting for imports to finish", "active", n)
	}
	drainErr := s.imports.WaitForDrain(ctx)
	if drainErr != nil {
		slog.Warn("imports still running at shutdown", "active", s.imports.Active())
	}

	if s.server == nil {
		return drainErr
	}
	return errors.Join(drainErr, s.server.Shutdown(ctx))
}

// Router returns the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Imports exposes the import limiter.
func (s *Server) Imports() *ImportLimiter {
	return s.imports
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
