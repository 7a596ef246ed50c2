package locale

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// SkipFunc is told about directories below the root that could not be read.
type SkipFunc func(path string, err error)

// Scan visits every regular ".json" file below root exactly once, depth
// first. Symlinks and other non-regular entries are ignored. An empty tree
// is not an error; a missing root or a root that is not a directory is
// reported as ErrScanRoot. Unreadable subdirectories are passed to skip,
// which may be nil, and traversal continues.
func Scan(ctx context.Context, root string, visit func(path string), skip SkipFunc) error {
	if err := checkRoot(root); err != nil {
		return err
	}
	return walk(ctx, root, nil, visit, skip)
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScanRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", ErrScanRoot, root)
	}
	return nil
}

// walk traverses the tree with an explicit stack instead of recursion.
// onDir, when set, is called for every directory including root; returning
// an error from it skips that directory.
func walk(ctx context.Context, root string, onDir func(dir string) error, onFile func(path string), skip SkipFunc) error {
	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if onDir != nil {
			if err := onDir(dir); err != nil {
				if skip != nil {
					skip(dir, err)
				}
				continue
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return fmt.Errorf("%w: %w", ErrScanRoot, err)
			}
			if skip != nil {
				skip(dir, err)
			}
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			switch mode := entry.Type(); {
			case mode&os.ModeSymlink != 0:
				continue
			case mode.IsDir():
				subdirs = append(subdirs, path)
			case mode.IsRegular() && IsLocaleFile(path):
				if onFile != nil {
					onFile(path)
				}
			}
		}

		// Reverse so the lexically first subdirectory is popped first.
		slices.Reverse(subdirs)
		stack = append(stack, subdirs...)
	}
	return nil
}
