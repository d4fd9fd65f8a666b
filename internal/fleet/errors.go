package fleet

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBadRequest marks a missing or malformed argument.
	ErrBadRequest = errors.New("bad_request")
	// ErrNotFound marks an unknown instance on the manual override path.
	ErrNotFound = errors.New("not_found")
	// ErrStorageUnavailable marks a failure of the instance store.
	ErrStorageUnavailable = errors.New("storage_unavailable")
	// ErrInvalidThreshold is returned for a non-positive staleness threshold.
	ErrInvalidThreshold = errors.New("staleness threshold must be positive")
)

// storageErr wraps a store failure so callers can match both the kind and
// the cause. Cancellation is passed through as-is.
func storageErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("fleet: %s: %w", op, err)
	}
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("fleet: %s: %w", op, err)
	}
	return fmt.Errorf("fleet: %s: %w: %w", op, ErrStorageUnavailable, err)
}
