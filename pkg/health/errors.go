package health

import "errors"

var (
	// ErrCheckFailed is returned when one or more health checks fail.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is reported for a check that did not finish before the timeout.
	ErrCheckTimeout = errors.New("health: check timeout")
)
