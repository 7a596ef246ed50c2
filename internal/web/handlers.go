package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

// entryForm is the add-field form of the locale page.
type entryForm struct {
	Namespace string `validate:"required"`
	Key       string `validate:"required,max=512"`
	Value     string `validate:"max=65536"`
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", slog.String("error", err.Error()))
	}
}

// param returns a chi URL parameter unescaped. Routing runs on the escaped
// path (see RouteEscaped), so this is the only unescape step.
func param(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// knownLocale returns the locale named in the URL or ErrUnknownLocale.
func (s *Server) knownLocale(r *http.Request) (string, error) {
	loc := param(r, "locale")
	if s.engine.All(loc) == nil {
		return "", ErrUnknownLocale
	}
	return loc, nil
}

// namespacePath returns the file behind locale/namespace.
func (s *Server) namespacePath(loc, ns string) (string, error) {
	path, ok := s.engine.Path(loc, ns)
	if !ok {
		if s.engine.All(loc) == nil {
			return "", ErrUnknownLocale
		}
		return "", ErrUnknownNamespace
	}
	return path, nil
}

func (s *Server) summaries() []localeSummary {
	locales := s.engine.Locales()
	out := make([]localeSummary, 0, len(locales))
	for _, loc := range locales {
		out = append(out, localeSummary{
			Locale:     loc,
			Namespaces: s.engine.Namespaces(loc),
			Entries:    len(s.engine.Entries(loc, "")),
		})
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, layout("Locales", indexPage(s.summaries())))
}

func (s *Server) handleLocalePage(w http.ResponseWriter, r *http.Request) {
	loc, err := s.knownLocale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	term := r.URL.Query().Get("q")
	page := localePage(loc, s.engine.Namespaces(loc), s.engine.Entries(loc, term), term)
	s.render(w, r, http.StatusOK, layout(loc, page))
}

func (s *Server) handleEntryRows(w http.ResponseWriter, r *http.Request) {
	loc, err := s.knownLocale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, entryRows(loc, s.engine.Entries(loc, r.URL.Query().Get("q"))))
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	loc, err := s.knownLocale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, ErrInvalidInput)
		return
	}

	form := entryForm{
		Namespace: r.PostForm.Get("namespace"),
		Key:       strings.TrimSpace(r.PostForm.Get("key")),
		Value:     r.PostForm.Get("value"),
	}
	if err := s.validate.StructCtx(r.Context(), form); err != nil {
		s.writeError(w, r, err)
		return
	}

	path, err := s.namespacePath(loc, form.Namespace)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.engine.AddField(r.Context(), path, form.Key, locale.StringValue(form.Value)); err != nil {
		s.writeError(w, r, err)
		return
	}

	if !isHTMX(r) {
		http.Redirect(w, r, localeURL(loc), http.StatusSeeOther)
		return
	}
	trigger(w, eventEntrySaved)
	s.render(w, r, http.StatusOK, entryRows(loc, s.engine.Entries(loc, "")))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	loc, err := s.knownLocale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	path, err := s.namespacePath(loc, param(r, "namespace"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.engine.DeleteField(r.Context(), path, param(r, "key")); err != nil {
		s.writeError(w, r, err)
		return
	}

	if !isHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	// An empty body swapped over the row removes it.
	trigger(w, eventEntryDeleted)
	w.WriteHeader(http.StatusOK)
}
