package health

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
)

// LivenessHandler returns an http.HandlerFunc that responds OK while the
// process is running. Info registered with WithInfo is included in JSON
// responses.
func LivenessHandler(opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, http.StatusOK, &Response{
			Status: StatusHealthy,
			Info:   cfg.details(r.Context()),
		})
	}
}

// ReadinessHandler returns an http.HandlerFunc that runs all checks on every
// request and answers 503 if any of them fails.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)
		resp.Info = cfg.details(r.Context())

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		respond(w, r, status, resp)
	}
}

// respond writes resp as JSON when the client asks for it, otherwise as a
// single line naming the failed checks. Responses are never cached.
func respond(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	w.Header().Set("Cache-Control", "no-store")

	if wantsJSON(r) {
		writeJSON(w, status, resp)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if resp.Status == StatusHealthy {
		_, _ = w.Write([]byte("OK"))
		return
	}
	_, _ = w.Write([]byte("Service Unavailable: " + strings.Join(failedChecks(resp), ", ")))
}

// failedChecks returns the names of unhealthy checks in lexical order.
func failedChecks(resp *Response) []string {
	var names []string
	for name, check := range resp.Checks {
		if check.Status == StatusUnhealthy {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// wantsJSON checks if the client wants a JSON response, via ?format=json
// or the Accept header.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
