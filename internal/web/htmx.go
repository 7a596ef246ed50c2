package web

import (
	"net/http"
	"strings"
)

// htmx request and response headers used by the editor.
const (
	headerHXRequest  = "HX-Request"
	headerHXTrigger  = "HX-Trigger"
	headerHXRetarget = "HX-Retarget"
	headerHXReswap   = "HX-Reswap"
)

// Client-side events fired after successful mutations.
const (
	eventEntrySaved   = "entry-saved"
	eventEntryDeleted = "entry-deleted"
)

// isHTMX reports whether the request originated from htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get(headerHXRequest) == "true"
}

// trigger sets HX-Trigger; multiple events are comma-joined.
func trigger(w http.ResponseWriter, events ...string) {
	if len(events) > 0 {
		w.Header().Set(headerHXTrigger, strings.Join(events, ", "))
	}
}

// retarget redirects the swap of an htmx response to selector.
func retarget(w http.ResponseWriter, selector, swap string) {
	w.Header().Set(headerHXRetarget, selector)
	w.Header().Set(headerHXReswap, swap)
}
