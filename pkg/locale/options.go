package locale

import (
	"log/slog"
	"time"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithChangeListener registers a callback invoked after a watched file
// was reloaded or evicted. It runs on the watcher goroutine.
func WithChangeListener(fn ChangeFunc) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// WithoutWatch disables live reload; the engine only serves the initial scan.
func WithoutWatch() Option {
	return func(e *Engine) {
		e.watch = false
	}
}

// WithDebounce sets how long bursts of events for one file are coalesced.
// Default: DefaultDebounce. Zero disables coalescing.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithEvictOnDelete controls whether removing a file evicts its namespace.
// When false the last loaded content stays cached after the file is gone.
// Default: true.
func WithEvictOnDelete(evict bool) Option {
	return func(e *Engine) {
		e.evictOnDelete = evict
	}
}
