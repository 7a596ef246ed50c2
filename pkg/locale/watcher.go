package locale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more events on the
// same file before reporting it.
const DefaultDebounce = 50 * time.Millisecond

// WatchOption configures a Watcher.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	onRemove func(path string)
	debounce time.Duration
}

// WithWatchLogger sets the logger for watcher runtime errors.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRemoveHandler sets a callback for paths that no longer exist after a
// remove or rename event: ".json" files and any other entry, which may have
// been a directory holding locale files. Without it such events are dropped.
func WithRemoveHandler(fn func(path string)) WatchOption {
	return func(c *watchConfig) {
		c.onRemove = fn
	}
}

// WithWatchDebounce coalesces events for one path arriving within d.
// Zero or a negative duration reports every event immediately.
func WithWatchDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.debounce = d
	}
}

// Watcher delivers changed locale files below a root directory.
// Callbacks run on the watcher goroutine, one at a time.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange func(path string)
	done     chan struct{}
	cfg      watchConfig
	root     string
	wg       sync.WaitGroup
	once     sync.Once
}

// Watch subscribes to changes below root, including directories created
// later, and calls onChange with every ".json" regular file that was
// created or written. Events for directories and non-JSON files are
// discarded; paths that no longer exist go to the remove handler, if one is
// set. Setup failures are returned as
// ErrWatchSetup; delivery is asynchronous and stops when ctx is done or
// Close is called.
func Watch(ctx context.Context, root string, onChange func(path string), opts ...WatchOption) (*Watcher, error) {
	cfg := watchConfig{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatchSetup, err)
	}

	w := &Watcher{
		fsw:      fsw,
		onChange: onChange,
		done:     make(chan struct{}),
		cfg:      cfg,
		root:     root,
	}

	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("%w: %w", ErrWatchSetup, err)
	}
	// The root is already subscribed; subdirectories that fail are logged.
	if err := w.addTree(ctx, root, nil); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("%w: %w", ErrWatchSetup, err)
	}

	w.wg.Add(1)
	go w.run(ctx)

	return w, nil
}

// Close stops delivery and waits for the watcher goroutine to exit.
// It must not be called from inside a callback.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

// addTree subscribes dir and every directory below it. Files found on the
// way are passed to found, which may be nil.
func (w *Watcher) addTree(ctx context.Context, dir string, found func(path string)) error {
	return walk(ctx, dir,
		func(d string) error {
			if d == w.root {
				return nil
			}
			return w.fsw.Add(d)
		},
		found,
		func(path string, err error) {
			w.cfg.logger.Warn("cannot watch locale directory",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		},
	)
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)

	flush := func() {
		for path := range pending {
			w.dispatch(path)
		}
		clear(pending)
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}

	enqueue := func(path string) {
		pending[path] = struct{}{}
	}

	schedule := func() {
		switch {
		case len(pending) == 0:
		case w.cfg.debounce <= 0:
			flush()
		case timer == nil:
			timer = time.NewTimer(w.cfg.debounce)
			timerC = timer.C
		default:
			timer.Reset(w.cfg.debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					// Files may land in a new directory before its watch exists.
					if err := w.addTree(ctx, event.Name, enqueue); err != nil {
						return
					}
					schedule()
					continue
				}
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if !IsLocaleFile(event.Name) {
				// A directory moved or deleted away takes its locale files with it.
				if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				w.forget(event.Name)
			}
			enqueue(event.Name)
			schedule()

		case <-timerC:
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.cfg.logger.Warn("locale watcher error", slog.String("error", err.Error()))
		}
	}
}

// forget drops the subscription of a directory that no longer exists at
// path. Errors are expected for paths that were never watched.
func (w *Watcher) forget(path string) {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		_ = w.fsw.Remove(path)
	}
}

// dispatch re-checks the path on disk before reporting it.
func (w *Watcher) dispatch(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && w.cfg.onRemove != nil {
			w.cfg.onRemove(path)
		}
		return
	}
	if !info.Mode().IsRegular() || !IsLocaleFile(path) {
		return
	}
	w.onChange(path)
}
