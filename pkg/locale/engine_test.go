package locale_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/localedit/pkg/locale"
)

func newEngine(t *testing.T, root string, opts ...locale.Option) *locale.Engine {
	t.Helper()

	e, err := locale.New(context.Background(), root, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngine_Initialize(t *testing.T) {
	t.Parallel()

	t.Run("loads every parsed file", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{
			"en/common.json": `{"hello":"Hi"}`,
			"fr/common.json": `{"hello":"Salut"}`,
			"de/broken.json": `{"hello":`,
			"es/notes.txt":   `ignored`,
		})
		e := newEngine(t, root, locale.WithoutWatch())

		require.ElementsMatch(t, []string{"en", "fr"}, e.Locales())
		require.Equal(t, []locale.Entry{
			{Key: "common:hello", Namespace: "common", Field: "hello", Text: "Hi"},
		}, e.Entries("en", ""))
		require.Nil(t, e.All("de"))
		require.False(t, e.Watching())
	})

	t.Run("malformed namespace is absent next to valid ones", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{
			"en/common.json": `{"hello":"Hi"}`,
			"en/broken.json": `not json`,
		})
		e := newEngine(t, root, locale.WithoutWatch())

		all := e.All("en")
		require.Contains(t, all, "common")
		require.NotContains(t, all, "broken")
	})

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()

		e := newEngine(t, t.TempDir(), locale.WithoutWatch())
		require.Empty(t, e.Locales())
		require.Empty(t, e.Entries("en", ""))
	})

	t.Run("missing root fails", func(t *testing.T) {
		t.Parallel()

		_, err := locale.New(context.Background(), filepath.Join(t.TempDir(), "missing"))
		require.ErrorIs(t, err, locale.ErrScanRoot)
	})

	t.Run("watching is enabled by default", func(t *testing.T) {
		t.Parallel()

		e := newEngine(t, t.TempDir())
		require.True(t, e.Watching())
		require.NoError(t, e.Close())
		require.False(t, e.Watching())
		require.NoError(t, e.Close())
	})
}

func TestEngine_Accessors(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"en/common.json": `{"hello":"Hi","bye":"Bye"}`,
		"en/errors.json": `{"notFound":"Not found"}`,
	})
	e := newEngine(t, root, locale.WithoutWatch())

	require.Equal(t, []string{"common", "errors"}, e.Namespaces("en"))

	v, ok := e.Lookup("en", "common", "bye")
	require.True(t, ok)
	require.Equal(t, "Bye", v.String())

	_, ok = e.Lookup("en", "common", "missing")
	require.False(t, ok)

	path, ok := e.Path("en", "errors")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "en", "errors.json"), path)

	require.Len(t, e.Entries("en", "NOT"), 1)

	entries := e.Entries("en", "")
	entries[0].Text = "mutated"
	require.Equal(t, "Hi", e.Entries("en", "")[0].Text)

	all := e.All("en")
	all["common"].Set("leak", locale.StringValue("x"))
	_, ok = e.Lookup("en", "common", "leak")
	require.False(t, ok)
}

func TestEngine_AddField(t *testing.T) {
	t.Parallel()

	t.Run("updates cache and file", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{
			"en/common.json": `{"hello":"Hi"}`,
			"fr/common.json": `{"hello":"Salut"}`,
		})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")

		require.NoError(t, e.AddField(context.Background(), path, "bye", locale.StringValue("Bye")))

		require.Contains(t, e.Entries("en", ""), locale.Entry{Key: "common:bye", Namespace: "common", Field: "bye", Text: "Bye"})
		require.Equal(t, []locale.Entry{
			{Key: "common:bye", Namespace: "common", Field: "bye", Text: "Bye"},
		}, e.Entries("en", "by"))
		require.Equal(t, "{\n  \"hello\": \"Hi\",\n  \"bye\": \"Bye\"\n}\n", readFile(t, path))
		require.Equal(t, `{"hello":"Salut"}`, readFile(t, filepath.Join(root, "fr", "common.json")))
	})

	t.Run("replaces an existing value in place", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"a":"1","b":"2"}`})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")

		require.NoError(t, e.AddField(context.Background(), path, "a", locale.StringValue("one")))
		require.Equal(t, "{\n  \"a\": \"one\",\n  \"b\": \"2\"\n}\n", readFile(t, path))
	})

	t.Run("unknown namespace is a no-op", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "other.json")

		require.NoError(t, e.AddField(context.Background(), path, "k", locale.StringValue("v")))
		require.NoFileExists(t, path)
		require.Equal(t, []string{"common"}, e.Namespaces("en"))
	})

	t.Run("write failure keeps the in-memory change", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")

		// A directory in place of the file makes the write fail for any user.
		require.NoError(t, os.Remove(path))
		require.NoError(t, os.Mkdir(path, 0o755))

		err := e.AddField(context.Background(), path, "bye", locale.StringValue("Bye"))
		require.ErrorIs(t, err, locale.ErrWriteBack)

		var wbErr *locale.WriteBackError
		require.True(t, errors.As(err, &wbErr))
		require.Equal(t, path, wbErr.Path)
		require.Equal(t, "en", wbErr.Locale)
		require.Equal(t, "common", wbErr.Namespace)

		v, ok := e.Lookup("en", "common", "bye")
		require.True(t, ok)
		require.Equal(t, "Bye", v.String())
	})

	t.Run("cancelled context reports write-back failure", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := e.AddField(ctx, path, "bye", locale.StringValue("Bye"))
		require.ErrorIs(t, err, locale.ErrWriteBack)
		require.ErrorIs(t, err, context.Canceled)
		require.Equal(t, `{"hello":"Hi"}`, readFile(t, path))

		require.NoError(t, e.Reload(path))
		_, ok := e.Lookup("en", "common", "bye")
		require.False(t, ok)
	})

	t.Run("concurrent writers leave the newest state on disk", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{}`})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")

		keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		var wg sync.WaitGroup
		for _, k := range keys {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, e.AddField(context.Background(), path, k, locale.StringValue(k)))
			}()
		}
		wg.Wait()

		onDisk, err := locale.ReadFile(path)
		require.NoError(t, err)
		require.ElementsMatch(t, keys, onDisk.Keys())
	})
}

func TestEngine_DeleteField(t *testing.T) {
	t.Parallel()

	t.Run("removes key from cache and file", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi","bye":"Bye"}`})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")

		require.NoError(t, e.DeleteField(context.Background(), path, "hello"))

		_, ok := e.Lookup("en", "common", "hello")
		require.False(t, ok)
		require.Equal(t, "{\n  \"bye\": \"Bye\"\n}\n", readFile(t, path))
	})

	t.Run("missing key is a successful no-op", func(t *testing.T) {
		t.Parallel()

		const original = `{"hello":"Hi"}`
		root := writeTree(t, map[string]string{"en/common.json": original})
		e := newEngine(t, root, locale.WithoutWatch())
		path := filepath.Join(root, "en", "common.json")
		before := e.All("en")

		require.NoError(t, e.DeleteField(context.Background(), path, "nope"))
		require.Equal(t, before, e.All("en"))
		require.Equal(t, original, readFile(t, path))
	})

	t.Run("unknown namespace is a successful no-op", func(t *testing.T) {
		t.Parallel()

		e := newEngine(t, t.TempDir(), locale.WithoutWatch())
		require.NoError(t, e.DeleteField(context.Background(), "xx/common.json", "hello"))
	})
}

func TestEngine_Watch(t *testing.T) {
	t.Parallel()

	const (
		waitFor = 5 * time.Second
		tick    = 20 * time.Millisecond
	)

	t.Run("external edit is reloaded and reported", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		changes := make(chan locale.Change, 16)
		e := newEngine(t, root,
			locale.WithDebounce(10*time.Millisecond),
			locale.WithChangeListener(func(c locale.Change) { changes <- c }),
		)
		require.True(t, e.Watching())

		writeFile(t, filepath.Join(root, "en", "common.json"), `{"hello":"Yo"}`)

		require.Eventually(t, func() bool {
			entries := e.Entries("en", "")
			return len(entries) == 1 && entries[0].Text == "Yo"
		}, waitFor, tick)

		select {
		case c := <-changes:
			require.Equal(t, "en", c.Locale)
			require.Equal(t, "common", c.Namespace)
			require.False(t, c.Removed)
			require.NotNil(t, c.Content)
		case <-time.After(waitFor):
			t.Fatal("no change notification")
		}
	})

	t.Run("malformed edit keeps previous content", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		e := newEngine(t, root, locale.WithDebounce(0))
		path := filepath.Join(root, "en", "common.json")

		writeFile(t, path, `{"hello":`)
		time.Sleep(100 * time.Millisecond)
		v, ok := e.Lookup("en", "common", "hello")
		require.True(t, ok)
		require.Equal(t, "Hi", v.String())

		writeFile(t, path, `{"hello":"Fixed"}`)
		require.Eventually(t, func() bool {
			v, _ := e.Lookup("en", "common", "hello")
			return v.String() == "Fixed"
		}, waitFor, tick)
	})

	t.Run("new locale directory is picked up", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		e := newEngine(t, root, locale.WithDebounce(10*time.Millisecond))

		writeFile(t, filepath.Join(root, "it", "common.json"), `{"hello":"Ciao"}`)

		require.Eventually(t, func() bool {
			v, ok := e.Lookup("it", "common", "hello")
			return ok && v.String() == "Ciao"
		}, waitFor, tick)
	})

	t.Run("removed file is evicted", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{
			"en/common.json": `{"hello":"Hi"}`,
			"fr/common.json": `{"hello":"Salut"}`,
		})
		removed := make(chan locale.Change, 4)
		e := newEngine(t, root,
			locale.WithDebounce(10*time.Millisecond),
			locale.WithChangeListener(func(c locale.Change) {
				if c.Removed {
					removed <- c
				}
			}),
		)

		require.NoError(t, os.Remove(filepath.Join(root, "fr", "common.json")))

		require.Eventually(t, func() bool {
			return len(e.Locales()) == 1
		}, waitFor, tick)
		require.Equal(t, []string{"en"}, e.Locales())

		c := <-removed
		require.Equal(t, "fr", c.Locale)
		require.Nil(t, c.Content)
	})

	t.Run("renamed locale directory is evicted", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{
			"en/common.json": `{"hello":"Hi"}`,
			"fr/common.json": `{"hello":"Salut"}`,
		})
		e := newEngine(t, root, locale.WithDebounce(10*time.Millisecond))

		require.NoError(t, os.Rename(filepath.Join(root, "fr"), filepath.Join(root, "it")))

		require.Eventually(t, func() bool {
			return slices.Equal([]string{"en", "it"}, e.Locales())
		}, waitFor, tick)

		_, ok := e.Path("fr", "common")
		require.False(t, ok)
		path, ok := e.Path("it", "common")
		require.True(t, ok)
		require.FileExists(t, path)
	})

	t.Run("mutations survive reloads of their own write-backs", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{}`})
		e := newEngine(t, root, locale.WithDebounce(0))
		path := filepath.Join(root, "en", "common.json")

		const writers, perWriter = 4, 50
		var wg sync.WaitGroup
		for w := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range perWriter {
					key := fmt.Sprintf("w%d_%d", w, i)
					if !assert.NoError(t, e.AddField(context.Background(), path, key, locale.StringValue(key))) {
						return
					}
					_, ok := e.Lookup("en", "common", key)
					assert.True(t, ok, "key %s missing right after AddField", key)
				}
			}()
		}
		wg.Wait()

		require.Len(t, e.Entries("en", ""), writers*perWriter)
		onDisk, err := locale.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, writers*perWriter, onDisk.Len())

		// Late echoes of the write-backs must not roll anything back.
		time.Sleep(100 * time.Millisecond)
		require.Len(t, e.Entries("en", ""), writers*perWriter)
	})

	t.Run("own write-backs are not reported as changes", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		changes := make(chan locale.Change, 16)
		e := newEngine(t, root,
			locale.WithDebounce(0),
			locale.WithChangeListener(func(c locale.Change) { changes <- c }),
		)
		path := filepath.Join(root, "en", "common.json")

		require.NoError(t, e.AddField(context.Background(), path, "bye", locale.StringValue("Bye")))
		time.Sleep(100 * time.Millisecond)
		require.Empty(t, changes)

		writeFile(t, path, `{"hello":"Yo"}`)
		select {
		case c := <-changes:
			require.Equal(t, "common", c.Namespace)
		case <-time.After(waitFor):
			t.Fatal("external edit not reported")
		}
	})

	t.Run("removed file is kept when eviction is disabled", func(t *testing.T) {
		t.Parallel()

		root := writeTree(t, map[string]string{"en/common.json": `{"hello":"Hi"}`})
		e := newEngine(t, root, locale.WithDebounce(0), locale.WithEvictOnDelete(false))

		require.NoError(t, os.Remove(filepath.Join(root, "en", "common.json")))
		time.Sleep(100 * time.Millisecond)

		require.Equal(t, []string{"en"}, e.Locales())
	})
}
