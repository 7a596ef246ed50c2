// Package web serves the locale editor: HTML pages driven by htmx, a JSON
// API over the same engine and health endpoints.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/localedit/pkg/health"
	"github.com/dmitrymomot/localedit/pkg/locale"
)

const defaultShutdownTimeout = 10 * time.Second

// Server wires an Engine to HTTP.
type Server struct {
	engine          *locale.Engine
	logger          *slog.Logger
	router          chi.Router
	validate        *validator.Validate
	checks          health.Checks
	addr            string
	shutdownTimeout time.Duration
	requireWatch    bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAddress sets the listen address used by Run.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithShutdownTimeout bounds graceful shutdown in Run.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithRequireWatch makes the readiness endpoint fail while the engine runs
// without live reload.
func WithRequireWatch(required bool) Option {
	return func(s *Server) {
		s.requireWatch = required
	}
}

// WithCheck adds a named readiness check.
func WithCheck(name string, fn health.CheckFunc) Option {
	return func(s *Server) {
		s.checks[name] = fn
	}
}

// New creates a Server for engine.
func New(engine *locale.Engine, opts ...Option) *Server {
	s := &Server{
		engine:          engine,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate:        validator.New(),
		checks:          health.Checks{},
		addr:            ":8080",
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.checks["locales_root"] = health.DirReadable(engine.Root())
	if s.requireWatch {
		s.checks["watcher"] = func(context.Context) error {
			if !engine.Watching() {
				return errWatchDisabled
			}
			return nil
		}
	}

	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RouteEscaped, RequestID, Recoverer(s.logger), AccessLog(s.logger))

	info := health.WithInfo(s.engineInfo)
	r.Get("/health/live", health.LivenessHandler(info))
	r.Get("/health/ready", health.ReadinessHandler(s.checks, info, health.WithLogger(s.logger)))

	r.Get("/", s.handleIndex)
	r.Route("/locales/{locale}", func(r chi.Router) {
		r.Get("/", s.handleLocalePage)
		r.Get("/entries", s.handleEntryRows)
		r.Post("/entries", s.handleAddEntry)
		r.Delete("/entries/{namespace}/{key}", s.handleDeleteEntry)
	})

	r.Route("/api/locales", func(r chi.Router) {
		r.Get("/", s.apiLocales)
		r.Get("/{locale}", s.apiLocale)
		r.Get("/{locale}/entries", s.apiEntries)
		r.Get("/{locale}/{namespace}/{key}", s.apiGetField)
		r.Put("/{locale}/{namespace}/{key}", s.apiSetField)
		r.Delete("/{locale}/{namespace}/{key}", s.apiDeleteField)
	})

	return r
}

// engineInfo describes the engine for health responses.
func (s *Server) engineInfo(context.Context) map[string]string {
	mode := "scan-only"
	if s.engine.Watching() {
		mode = "watching"
	}
	return map[string]string{
		"root":    s.engine.Root(),
		"mode":    mode,
		"locales": strconv.Itoa(len(s.engine.Locales())),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// A nil return means a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown failed", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("shutdown completed")
	return nil
}
