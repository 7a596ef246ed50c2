package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

// fieldBody is the payload of GET and PUT on a single field.
type fieldBody struct {
	Value json.RawMessage `json:"value"`
}

const maxBodyBytes = 1 << 20

func (s *Server) apiLocales(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.summaries())
}

func (s *Server) apiLocale(w http.ResponseWriter, r *http.Request) {
	loc, err := s.knownLocale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.All(loc))
}

func (s *Server) apiEntries(w http.ResponseWriter, r *http.Request) {
	loc, err := s.knownLocale(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Entries(loc, r.URL.Query().Get("q")))
}

func (s *Server) apiGetField(w http.ResponseWriter, r *http.Request) {
	loc, ns, key := param(r, "locale"), param(r, "namespace"), param(r, "key")
	if _, err := s.namespacePath(loc, ns); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, ok := s.engine.Lookup(loc, ns, key)
	if !ok {
		s.writeError(w, r, ErrUnknownKey)
		return
	}
	writeJSON(w, http.StatusOK, map[string]locale.Value{"value": v})
}

func (s *Server) apiSetField(w http.ResponseWriter, r *http.Request) {
	loc, ns, key := param(r, "locale"), param(r, "namespace"), param(r, "key")
	path, err := s.namespacePath(loc, ns)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body fieldBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidInput, err))
		return
	}
	if len(body.Value) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: value is required", ErrInvalidInput))
		return
	}
	value, err := locale.ParseValue(body.Value)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidInput, err))
		return
	}

	if err := s.engine.AddField(r.Context(), path, key, value); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiDeleteField(w http.ResponseWriter, r *http.Request) {
	loc, ns, key := param(r, "locale"), param(r, "namespace"), param(r, "key")
	path, err := s.namespacePath(loc, ns)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.engine.DeleteField(r.Context(), path, key); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
