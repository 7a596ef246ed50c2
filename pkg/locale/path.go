package locale

import (
	"path/filepath"
	"strings"
)

// Ext is the extension of locale files.
const Ext = ".json"

// Identity addresses one namespace file inside the cache.
type Identity struct {
	Locale    string
	Namespace string
}

func (id Identity) String() string {
	return id.Locale + "/" + id.Namespace
}

// ResolvePath derives the identity of a locale file from its path.
// The path is split on "/", a trailing ".json" is dropped, the last segment
// becomes the namespace and the one before it the locale. A path with a
// single segment yields an empty locale. No filesystem state is consulted.
func ResolvePath(path string) Identity {
	p := strings.TrimSuffix(filepath.ToSlash(path), Ext)
	segments := strings.Split(p, "/")

	id := Identity{Namespace: segments[len(segments)-1]}
	if len(segments) > 1 {
		id.Locale = segments[len(segments)-2]
	}
	return id
}

// IsLocaleFile reports whether path carries the locale file extension.
func IsLocaleFile(path string) bool {
	return filepath.Ext(path) == Ext
}
