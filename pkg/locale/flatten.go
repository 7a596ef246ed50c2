package locale

import (
	"maps"
	"slices"
)

// KeySeparator joins namespace and key in an Entry key.
const KeySeparator = ":"

// Entry is one flattened translation: Key is "namespace:key".
type Entry struct {
	Key       string `json:"key"       yaml:"key"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Field     string `json:"field"     yaml:"field"`
	Text      string `json:"text"      yaml:"text"`
}

// CompositeKey joins a namespace and a key.
func CompositeKey(namespace, key string) string {
	return namespace + KeySeparator + key
}

// Flatten projects one locale into entries, namespaces in lexical order and
// keys in stored order. Objects and arrays are skipped. An unknown locale
// yields an empty result.
func (c *Cache) Flatten(locale string) []Entry {
	entries, _ := c.flatten(locale)
	return entries
}

// flatten also returns the generation the entries were built from.
func (c *Cache) flatten(locale string) ([]Entry, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	namespaces := c.locales[locale]
	entries := make([]Entry, 0)
	for _, ns := range slices.Sorted(maps.Keys(namespaces)) {
		for key, value := range namespaces[ns].content.All() {
			text, ok := value.Text()
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Key:       CompositeKey(ns, key),
				Namespace: ns,
				Field:     key,
				Text:      text,
			})
		}
	}
	return entries, c.generation
}
