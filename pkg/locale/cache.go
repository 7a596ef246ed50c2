package locale

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type slot struct {
	content *ContentMap
	path    string
}

// Cache is the two-level locale -> namespace -> content store.
// Every accessor returns copies; callers never hold a reference into the
// stored maps. Mutations are short critical sections without I/O.
type Cache struct {
	locales    map[string]map[string]slot
	mu         sync.RWMutex
	generation uint64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{locales: make(map[string]map[string]slot)}
}

// Put inserts or replaces the content of one namespace, creating the
// locale level when needed. path records the file the content came from.
// A nil content stores an empty namespace.
func (c *Cache) Put(id Identity, path string, content *ContentMap) {
	if content == nil {
		content = NewContentMap()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	namespaces, ok := c.locales[id.Locale]
	if !ok {
		namespaces = make(map[string]slot)
		c.locales[id.Locale] = namespaces
	}
	namespaces[id.Namespace] = slot{path: path, content: content.Clone()}
	c.generation++
}

// Remove evicts one namespace and drops the locale once it is empty.
// It reports whether the namespace was present.
func (c *Cache) Remove(id Identity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	namespaces, ok := c.locales[id.Locale]
	if !ok {
		return false
	}
	if _, ok := namespaces[id.Namespace]; !ok {
		return false
	}

	delete(namespaces, id.Namespace)
	if len(namespaces) == 0 {
		delete(c.locales, id.Locale)
	}
	c.generation++
	return true
}

// RemoveUnder evicts every namespace whose file is path or lies below the
// directory path, and returns the evicted identities with their files.
func (c *Cache) RemoveUnder(path string) map[Identity]string {
	dir := filepath.Clean(path)
	prefix := dir + string(filepath.Separator)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := make(map[Identity]string)
	for locale, namespaces := range c.locales {
		for ns, s := range namespaces {
			p := filepath.Clean(s.path)
			if p != dir && !strings.HasPrefix(p, prefix) {
				continue
			}
			delete(namespaces, ns)
			removed[Identity{Locale: locale, Namespace: ns}] = s.path
		}
		if len(namespaces) == 0 {
			delete(c.locales, locale)
		}
	}
	if len(removed) > 0 {
		c.generation++
	}
	return removed
}

// Get returns a copy of every namespace loaded for locale.
func (c *Cache) Get(locale string) (map[string]*ContentMap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	namespaces, ok := c.locales[locale]
	if !ok {
		return nil, false
	}

	out := make(map[string]*ContentMap, len(namespaces))
	for ns, s := range namespaces {
		out[ns] = s.content.Clone()
	}
	return out, true
}

// Locales returns the known locales in lexical order.
func (c *Cache) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.locales))
}

// Namespaces returns the namespaces of locale in lexical order.
func (c *Cache) Namespaces(locale string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.locales[locale]))
}

// Content returns a copy of one namespace.
func (c *Cache) Content(id Identity) (*ContentMap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.lookup(id)
	if !ok {
		return nil, false
	}
	return s.content.Clone(), true
}

// Path returns the file a namespace was loaded from.
func (c *Cache) Path(id Identity) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.lookup(id)
	return s.path, ok
}

// Field returns the value stored under key in one namespace.
func (c *Cache) Field(id Identity, key string) (Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.lookup(id)
	if !ok {
		return Value{}, false
	}
	return s.content.Get(key)
}

// SetField stores value under key and returns a copy of the updated
// namespace. It is a no-op returning false when the namespace is not loaded.
func (c *Cache) SetField(id Identity, key string, value Value) (*ContentMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.lookup(id)
	if !ok {
		return nil, false
	}
	s.content.Set(key, value)
	c.generation++
	return s.content.Clone(), true
}

// RemoveField deletes key and returns a copy of the updated namespace.
// It is a no-op returning false when the namespace or the key is absent.
func (c *Cache) RemoveField(id Identity, key string) (*ContentMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.lookup(id)
	if !ok || !s.content.Delete(key) {
		return nil, false
	}
	c.generation++
	return s.content.Clone(), true
}

// Generation increases on every change to the cache.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// lookup requires c.mu to be held.
func (c *Cache) lookup(id Identity) (slot, bool) {
	s, ok := c.locales[id.Locale][id.Namespace]
	return s, ok
}
