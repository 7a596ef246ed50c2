package locale

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Change describes a reloaded or evicted namespace.
type Change struct {
	Content   *ContentMap
	Locale    string
	Namespace string
	Path      string
	Removed   bool
}

// ChangeFunc receives change notifications.
type ChangeFunc func(Change)

// Engine owns the locale cache for one root directory.
// Only one Engine should manage a given root at a time.
type Engine struct {
	logger        *slog.Logger
	cache         *Cache
	onChange      ChangeFunc
	watcher       *Watcher
	cancel        context.CancelFunc
	view          entryView
	root          string
	debounce      time.Duration
	synced        map[string][]byte // guarded by writeMu
	writeMu       sync.Mutex
	closeOnce     sync.Once
	watching      atomic.Bool
	watch         bool
	evictOnDelete bool
}

// New validates root, starts watching it and loads every locale file below
// it before returning. A missing root fails with ErrScanRoot. A watch that
// cannot be established is logged and the engine runs without live reload.
// ctx bounds the initial scan only.
func New(ctx context.Context, root string, opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:         NewCache(),
		synced:        make(map[string][]byte),
		root:          root,
		debounce:      DefaultDebounce,
		watch:         true,
		evictOnDelete: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := checkRoot(root); err != nil {
		return nil, err
	}

	if e.watch {
		e.startWatching(ctx)
	}

	err := Scan(ctx, root, func(path string) { _, _, _ = e.load(path, false) }, func(path string, err error) {
		e.logger.WarnContext(ctx, "skipping unreadable locale directory",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	})
	if err != nil {
		_ = e.Close()
		return nil, err
	}

	e.logger.InfoContext(ctx, "locale cache loaded",
		slog.String("root", root),
		slog.Int("locales", len(e.cache.Locales())),
		slog.Bool("watching", e.Watching()),
	)
	return e, nil
}

func (e *Engine) startWatching(ctx context.Context) {
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	w, err := Watch(wctx, e.root, e.fileChanged,
		WithWatchLogger(e.logger),
		WithWatchDebounce(e.debounce),
		WithRemoveHandler(e.fileRemoved),
	)
	if err != nil {
		cancel()
		e.logger.ErrorContext(ctx, "live reload disabled",
			slog.String("root", e.root),
			slog.String("error", err.Error()),
		)
		return
	}

	e.watcher = w
	e.cancel = cancel
	e.watching.Store(true)
}

// Close stops the watcher. It is safe to call more than once.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.watching.Store(false)
		if e.cancel != nil {
			e.cancel()
		}
		if e.watcher != nil {
			err = e.watcher.Close()
		}
	})
	return err
}

// Root returns the directory the engine was created for.
func (e *Engine) Root() string {
	return e.root
}

// Watching reports whether live reload is active.
func (e *Engine) Watching() bool {
	return e.watching.Load()
}

// Locales returns every loaded locale in lexical order.
func (e *Engine) Locales() []string {
	return e.cache.Locales()
}

// Namespaces returns the loaded namespaces of locale in lexical order.
func (e *Engine) Namespaces(locale string) []string {
	return e.cache.Namespaces(locale)
}

// All returns a copy of every namespace of locale, or nil if it is unknown.
func (e *Engine) All(locale string) map[string]*ContentMap {
	all, _ := e.cache.Get(locale)
	return all
}

// Lookup returns one field.
func (e *Engine) Lookup(locale, namespace, key string) (Value, bool) {
	return e.cache.Field(Identity{Locale: locale, Namespace: namespace}, key)
}

// Path returns the file a namespace was loaded from.
func (e *Engine) Path(locale, namespace string) (string, bool) {
	return e.cache.Path(Identity{Locale: locale, Namespace: namespace})
}

// Entries returns the flattened entries of locale filtered by term.
// An unknown locale yields an empty slice.
func (e *Engine) Entries(locale, term string) []Entry {
	return Filter(slices.Clone(e.view.get(e.cache, locale)), term)
}

// Reload re-reads one file into the cache. On failure the cache keeps its
// previous content and an ErrParse error is returned.
func (e *Engine) Reload(path string) error {
	_, _, err := e.load(path, true)
	return err
}

// AddField sets key in the namespace addressed by path and writes the
// namespace back to path. If the namespace is not loaded nothing happens.
// The cache is updated before the write; a failed write returns a
// *WriteBackError and the cache keeps the new value.
func (e *Engine) AddField(ctx context.Context, path, key string, value Value) error {
	id := ResolvePath(path)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	snapshot, ok := e.cache.SetField(id, key, value)
	if !ok {
		e.logger.DebugContext(ctx, "add field ignored, namespace not loaded",
			slog.String("path", path),
			slog.String("key", key),
		)
		return nil
	}
	return e.writeBack(ctx, path, id, snapshot)
}

// DeleteField removes key from the namespace addressed by path and writes
// the namespace back. Missing namespaces and keys are a successful no-op.
func (e *Engine) DeleteField(ctx context.Context, path, key string) error {
	id := ResolvePath(path)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	snapshot, ok := e.cache.RemoveField(id, key)
	if !ok {
		return nil
	}
	return e.writeBack(ctx, path, id, snapshot)
}

// writeBack persists snapshot to path. The caller holds writeMu across the
// cache mutation and the write, so snapshot is the newest state of id and
// no reload can land in between.
func (e *Engine) writeBack(ctx context.Context, path string, id Identity, snapshot *ContentMap) error {
	key := filepath.Clean(path)

	err := ctx.Err()
	if err == nil {
		var data []byte
		if data, err = writeFile(path, snapshot); err == nil {
			e.synced[key] = data
			return nil
		}
		// The file may be partially written; the next event must reload it.
		delete(e.synced, key)
	}

	e.logger.ErrorContext(ctx, "locale write-back failed",
		slog.String("path", path),
		slog.String("locale", id.Locale),
		slog.String("namespace", id.Namespace),
		slog.String("error", err.Error()),
	)
	return &WriteBackError{Err: err, Path: path, Locale: id.Locale, Namespace: id.Namespace}
}

// load reads one file into the cache; failures leave the slot untouched.
// Unless force is set, a file whose bytes equal what the cache was last
// synced with is skipped and content is nil: that is the echo of the
// engine's own write-back and the cache already holds it or something newer.
func (e *Engine) load(path string, force bool) (Identity, *ContentMap, error) {
	id := ResolvePath(path)
	key := filepath.Clean(path)

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	data, content, err := readFile(path)
	if err != nil {
		e.logger.Warn("skipping locale file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return id, nil, err
	}
	if !force && bytes.Equal(data, e.synced[key]) {
		return id, nil, nil
	}

	e.cache.Put(id, path, content)
	e.synced[key] = data
	return id, content, nil
}

func (e *Engine) fileChanged(path string) {
	id, content, err := e.load(path, false)
	if err != nil || content == nil {
		return
	}
	e.logger.Debug("locale file reloaded", slog.String("path", path), slog.String("locale", id.Locale))
	e.notify(Change{Content: content, Locale: id.Locale, Namespace: id.Namespace, Path: path})
}

// fileRemoved evicts every namespace loaded from path or, when path was a
// directory, from below it.
func (e *Engine) fileRemoved(path string) {
	if !e.evictOnDelete {
		return
	}

	e.writeMu.Lock()
	removed := e.cache.RemoveUnder(path)
	for _, slotPath := range removed {
		delete(e.synced, filepath.Clean(slotPath))
	}
	e.writeMu.Unlock()

	ids := slices.SortedFunc(maps.Keys(removed), func(a, b Identity) int {
		return strings.Compare(a.String(), b.String())
	})
	for _, id := range ids {
		e.logger.Debug("locale file removed", slog.String("path", removed[id]), slog.String("locale", id.Locale))
		e.notify(Change{Locale: id.Locale, Namespace: id.Namespace, Path: removed[id], Removed: true})
	}
}

func (e *Engine) notify(c Change) {
	if e.onChange != nil {
		e.onChange(c)
	}
}
