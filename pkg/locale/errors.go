package locale

import (
	"errors"
	"fmt"
)

// Sentinel errors for the locale engine.
var (
	// ErrScanRoot is returned when the root directory is missing or is not a directory.
	ErrScanRoot = errors.New("locale: invalid root directory")

	// ErrParse is returned when a file cannot be read or does not hold a JSON object.
	ErrParse = errors.New("locale: invalid locale file")

	// ErrWatchSetup is returned when the recursive file watch cannot be established.
	ErrWatchSetup = errors.New("locale: watch setup failed")

	// ErrWriteBack is returned when a mutated namespace cannot be persisted.
	ErrWriteBack = errors.New("locale: write-back failed")
)

// WriteBackError reports a failed persist after an in-memory mutation.
// The cache keeps the mutated content, so cache and disk differ until the
// write is retried or the file is reloaded.
type WriteBackError struct {
	Err       error
	Path      string
	Locale    string
	Namespace string
}

func (e *WriteBackError) Error() string {
	return fmt.Sprintf("locale: write-back of %s/%s to %q failed: %v", e.Locale, e.Namespace, e.Path, e.Err)
}

func (e *WriteBackError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrWriteBack) hold for every WriteBackError.
func (e *WriteBackError) Is(target error) bool {
	return target == ErrWriteBack
}
