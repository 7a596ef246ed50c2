// Package logger builds the application's slog.Logger.
//
// Two output formats are supported: "json" for production (one JSON object
// per line on stdout) and "text" for local development, rendered with
// coloured, human-friendly output by tint. When a Sentry DSN is configured,
// warnings and errors are additionally forwarded to Sentry; if Sentry cannot
// be initialised the logger silently degrades to stdout only.
//
// Request-scoped values are attached with context extractors, evaluated on
// every log call:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//		func(ctx context.Context) (slog.Attr, bool) {
//			if id, ok := ctx.Value(requestIDKey{}).(string); ok {
//				return slog.String("request_id", id), true
//			}
//			return slog.Attr{}, false
//		},
//	)
//	log.InfoContext(ctx, "field added", slog.String("locale", "en"))
//
// Config carries env tags so it can be embedded in an application config
// parsed with caarlos0/env.
package logger
