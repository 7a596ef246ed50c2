package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusUnhealthy indicates one or more checks failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether one dependency is usable.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named health check functions.
type Checks map[string]CheckFunc

// Response represents a health check response.
type Response struct {
	Checks map[string]Check  `json:"checks,omitempty"`
	Info   map[string]string `json:"info,omitempty"`
	Status string            `json:"status"`
}

// Check represents the status of a single health check.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	logger  *slog.Logger
	info    InfoFunc
	timeout time.Duration
}

// InfoFunc reports service state included in JSON health responses, such as
// whether live reload is active.
type InfoFunc func(ctx context.Context) map[string]string

// Option configures health check behavior.
type Option func(*config)

// WithTimeout sets the timeout shared by all checks of one request.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInfo adds the result of fn to JSON health responses.
func WithInfo(fn InfoFunc) Option {
	return func(c *config) {
		c.info = fn
	}
}

// details returns the configured info, or nil.
func (c *config) details(ctx context.Context) map[string]string {
	if c.info == nil {
		return nil
	}
	return c.info(ctx)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes all checks concurrently and aggregates their results.
// It returns ErrCheckFailed together with the response if any check failed.
func Run(ctx context.Context, checks Checks, opts ...Option) (*Response, error) {
	resp := runChecks(ctx, checks, newConfig(opts...))
	if resp.Status == StatusUnhealthy {
		return resp, ErrCheckFailed
	}
	return resp, nil
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]Check, len(checks))
		g       errgroup.Group
	)

	for name, check := range checks {
		g.Go(func() error {
			err := runOne(ctx, check)

			result := Check{Status: StatusHealthy}
			if err != nil {
				result = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			mu.Unlock()
			return err
		})
	}

	status := StatusHealthy
	if err := g.Wait(); err != nil {
		status = StatusUnhealthy
	}
	return &Response{Status: status, Checks: results}
}

// runOne stops waiting for a check once ctx expires. The check itself is
// expected to honour ctx and return shortly after.
func runOne(ctx context.Context, check CheckFunc) error {
	done := make(chan error, 1)
	go func() { done <- check(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrCheckTimeout
	}
}

// DirReadable returns a check that fails unless path is a readable directory.
func DirReadable(path string) CheckFunc {
	return func(context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", path, errors.New("not a directory"))
		}
		if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
}
