package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/lmittmann/tint"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds logger configuration.
type Config struct {
	// Output defaults to os.Stdout.
	Output            io.Writer
	Level             string    `env:"LOG_LEVEL"          envDefault:"info"`
	Format            string    `env:"LOG_FORMAT"         envDefault:"json"`
	SentryDSN         string    `env:"SENTRY_DSN"`
	SentryEnvironment string    `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a logger from cfg with optional context extractors.
// Unknown levels fall back to info and unknown formats to JSON.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	level := ParseLevel(cfg.Level)

	var base slog.Handler
	if strings.EqualFold(cfg.Format, FormatText) {
		base = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		base = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	}

	if cfg.SentryDSN == "" {
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(base, extractors...))
	}

	// Errors become Sentry issues; warnings are kept as searchable logs.
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(newMultiHandler(base, sentryHandler), extractors...))
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a slog
// level, case-insensitively. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Flush waits up to timeout for buffered Sentry events to be sent.
// It is a no-op when Sentry was never initialised.
func Flush(timeout time.Duration) {
	if sentry.CurrentHub().Client() != nil {
		sentry.Flush(timeout)
	}
}
