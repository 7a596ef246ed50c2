package locale

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter keeps the entries whose key or text contains term, compared
// case-insensitively with Unicode case folding. The term is matched
// literally. An empty term returns entries unchanged.
func Filter(entries []Entry, term string) []Entry {
	if term == "" {
		return entries
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(fold.String(e.Key), needle) || strings.Contains(fold.String(e.Text), needle) {
			out = append(out, e)
		}
	}
	return out
}
