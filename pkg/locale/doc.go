// Package locale maintains a live, queryable in-memory index of localization
// files stored as a tree of JSON documents, one file per (locale, namespace)
// pair, and writes single-key mutations back to the file they came from.
//
// # Layout
//
// Identity is derived from the last two path segments of a file. The final
// segment without its ".json" extension is the namespace and the segment
// before it is the locale:
//
//	locales/en/common.json  -> locale "en", namespace "common"
//	locales/fr/errors.json  -> locale "fr", namespace "errors"
//
// The resolver never inspects the filesystem, so a tree laid out as
// {namespace}/{locale}.json works the same way with the roles swapped.
//
// # Basic Usage
//
// Create an engine over a root directory. The constructor scans the tree
// synchronously and then watches it for changes:
//
//	engine, err := locale.New(ctx, "./locales",
//		locale.WithLogger(log),
//		locale.WithChangeListener(func(c locale.Change) {
//			log.Info("locale file changed", "locale", c.Locale, "namespace", c.Namespace)
//		}),
//	)
//	if err != nil {
//		return err // root missing or not a directory
//	}
//	defer engine.Close()
//
//	for _, e := range engine.Entries("en", "welcome") {
//		fmt.Println(e.Key, e.Text) // "common:welcome Welcome!"
//	}
//
// # Mutations
//
// AddField and DeleteField update the cache first and then persist the
// whole namespace file. Readers observe the new value as soon as the
// in-memory step returns. A failed write is reported as a *WriteBackError
// and the in-memory change is kept; call Reload to resynchronise from disk.
//
//	path, _ := engine.Path("en", "common")
//	if err := engine.AddField(ctx, path, "bye", locale.StringValue("Bye")); err != nil {
//		var wbErr *locale.WriteBackError
//		if errors.As(err, &wbErr) {
//			_ = engine.Reload(wbErr.Path)
//		}
//	}
//
// # Failure Policy
//
// Malformed or unreadable files are logged and skipped: the namespace stays
// absent (or keeps its previous content) and scanning continues. A missing
// root fails construction with ErrScanRoot. If the platform cannot set up a
// recursive watch, the engine logs ErrWatchSetup once and keeps serving the
// scanned content without live reload.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Cache mutations are short critical
// sections that never perform I/O; file reads and writes happen outside the
// lock and write-backs are serialised.
package locale
