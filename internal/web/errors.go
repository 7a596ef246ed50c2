package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

var (
	ErrUnknownLocale    = errors.New("web: unknown locale")
	ErrUnknownNamespace = errors.New("web: unknown namespace")
	ErrUnknownKey       = errors.New("web: unknown key")
	ErrInvalidInput     = errors.New("web: invalid input")

	errWatchDisabled = errors.New("live reload disabled")
)

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrUnknownLocale),
		errors.Is(err, ErrUnknownNamespace),
		errors.Is(err, ErrUnknownKey):
		return http.StatusNotFound
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal error details behind the status text.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		if errors.Is(err, locale.ErrWriteBack) {
			return "saving the locale file failed; the change is kept in memory"
		}
		return http.StatusText(status)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+" is "+fe.Tag())
		}
		return strings.Join(fields, ", ")
	}
	return strings.TrimPrefix(err.Error(), "web: ")
}

// writeError reports err as JSON for the API, as a flash fragment for
// htmx and as plain text otherwise.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	msg := publicMessage(err, status)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		writeJSON(w, status, map[string]string{"error": msg})
	case isHTMX(r):
		retarget(w, "#flash", "innerHTML")
		s.render(w, r, status, errorMessage(msg))
	default:
		http.Error(w, msg, status)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
