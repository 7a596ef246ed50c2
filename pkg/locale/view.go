package locale

import (
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// entryView memoises flattened locales until the cache changes.
// Concurrent misses for the same locale build the entries once.
type entryView struct {
	byLocale   map[string][]Entry
	group      singleflight.Group
	mu         sync.Mutex
	generation uint64
}

// get returns shared entries; callers must not modify the slice.
func (v *entryView) get(c *Cache, locale string) []Entry {
	gen := c.Generation()

	v.mu.Lock()
	if v.byLocale != nil && v.generation == gen {
		if entries, ok := v.byLocale[locale]; ok {
			v.mu.Unlock()
			return entries
		}
	}
	v.mu.Unlock()

	res, _, _ := v.group.Do(strconv.FormatUint(gen, 10)+"/"+locale, func() (any, error) {
		entries, built := c.flatten(locale)
		v.store(locale, entries, built)
		return entries, nil
	})
	return res.([]Entry)
}

func (v *entryView) store(locale string, entries []Entry, gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.byLocale == nil || gen > v.generation:
		v.byLocale = map[string][]Entry{locale: entries}
		v.generation = gen
	case gen == v.generation:
		v.byLocale[locale] = entries
	}
}
