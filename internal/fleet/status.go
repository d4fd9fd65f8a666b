package fleet

import (
	"fmt"
	"time"
)

// Status is the liveness state of an instance.
type Status string

// Instance status constants.
const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// ParseStatus validates s as a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOnline, StatusOffline:
		return Status(s), nil
	}
	return "", fmt.Errorf("fleet: unknown status %q: %w", s, ErrBadRequest)
}

// Cutoff returns the oldest heartbeat time still considered fresh at now.
func Cutoff(now time.Time, threshold time.Duration) time.Time {
	return now.Add(-threshold)
}

// Stale reports whether a heartbeat at last is older than threshold at now.
// A heartbeat exactly threshold old is still fresh.
func Stale(last, now time.Time, threshold time.Duration) bool {
	return last.Before(Cutoff(now, threshold))
}

// Derive applies the automatic transition: online becomes offline once the
// heartbeat goes stale. Offline never becomes online here; only a fresh
// heartbeat does that.
func Derive(current Status, last, now time.Time, threshold time.Duration) Status {
	if current == StatusOnline && Stale(last, now, threshold) {
		return StatusOffline
	}
	return current
}
