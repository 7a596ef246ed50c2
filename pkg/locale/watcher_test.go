package locale_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

func TestWatch(t *testing.T) {
	t.Parallel()

	t.Run("reports json files only", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{}`})
		changed := make(chan string, 16)

		w, err := locale.Watch(context.Background(), root, func(path string) { changed <- path },
			locale.WithWatchDebounce(0),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = w.Close() })

		writeFile(t, filepath.Join(root, "en", "notes.txt"), "x")
		require.NoError(t, os.Mkdir(filepath.Join(root, "en", "sub.json"), 0o755))
		writeFile(t, filepath.Join(root, "en", "common.json"), `{"a":"b"}`)

		select {
		case path := <-changed:
			require.Equal(t, filepath.Join(root, "en", "common.json"), path)
		case <-time.After(5 * time.Second):
			t.Fatal("no change reported")
		}
	})

	t.Run("reports removals to the remove handler", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{}`})
		removed := make(chan string, 4)

		w, err := locale.Watch(context.Background(), root, func(string) {},
			locale.WithRemoveHandler(func(path string) { removed <- path }),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = w.Close() })

		path := filepath.Join(root, "en", "common.json")
		require.NoError(t, os.Remove(path))

		select {
		case got := <-removed:
			require.Equal(t, path, got)
		case <-time.After(5 * time.Second):
			t.Fatal("no removal reported")
		}
	})

	t.Run("reports a renamed directory to the remove handler", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"fr/common.json": `{}`})
		removed := make(chan string, 8)

		w, err := locale.Watch(context.Background(), root, func(string) {},
			locale.WithWatchDebounce(0),
			locale.WithRemoveHandler(func(path string) { removed <- path }),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = w.Close() })

		require.NoError(t, os.Rename(filepath.Join(root, "fr"), filepath.Join(root, "it")))

		select {
		case got := <-removed:
			require.Equal(t, filepath.Join(root, "fr"), got)
		case <-time.After(5 * time.Second):
			t.Fatal("no removal reported")
		}
	})

	t.Run("missing root fails setup", func(t *testing.T) {
		t.Parallel()

		_, err := locale.Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), func(string) {})
		require.ErrorIs(t, err, locale.ErrWatchSetup)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		w, err := locale.Watch(context.Background(), t.TempDir(), func(string) {})
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())
	})
}
