// Package activity counts an instance's write actions over a trailing
// window so an agent can decide, before doing expensive work, whether it is
// still within its posting and voting budget.
//
// The window is closed on both ends: an event stamped exactly window before
// now is counted, as is an event stamped exactly now.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/clock"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
)

// DefaultWindow is the trailing window used when none is given.
const DefaultWindow = 24 * time.Hour

// Kind is the type of a rate-limited action.
type Kind string

// Activity kinds.
const (
	KindPost Kind = "post"
	KindVote Kind = "vote"
)

// ParseKind validates s as a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPost, KindVote:
		return Kind(s), nil
	}
	return "", fmt.Errorf("activity: unknown kind %q: %w", s, ErrBadRequest)
}

var (
	// ErrBadRequest marks a missing instance id or an unknown kind.
	ErrBadRequest = errors.New("bad_request")
	// ErrUnavailable means the event log could not be read. Callers must
	// treat it as a denial.
	ErrUnavailable = errors.New("rate_check_unavailable")
)

// Result is the number of actions an instance took inside the window.
type Result struct {
	Posts int64 `json:"posts_today"`
	Votes int64 `json:"votes_today"`
}

// Limits caps actions per window. Zero means no cap for that kind.
type Limits struct {
	MaxPosts int64
	MaxVotes int64
}

// Within reports whether r leaves room for one more action under l.
func (l Limits) Within(r Result) bool {
	if l.MaxPosts > 0 && r.Posts >= l.MaxPosts {
		return false
	}
	if l.MaxVotes > 0 && r.Votes >= l.MaxVotes {
		return false
	}
	return true
}

// Log is the event log the gate reads from and appends to.
type Log interface {
	// CountBetween counts the instance's events by kind with
	// from <= created_at <= to.
	CountBetween(ctx context.Context, instanceID string, from, to time.Time) (Result, error)
	Append(ctx context.Context, ev models.ActivityEvent) error
}

// Observer receives gate outcomes.
type Observer interface {
	RateChecked(ok bool)
}

type nopObserver struct{}

func (nopObserver) RateChecked(bool) {}

// Gate answers rate-window questions for instances. It keeps no state
// between calls, so concurrent checks never affect each other.
type Gate struct {
	log      Log
	clock    clock.Clock
	observer Observer
}

// NewGate returns a Gate reading from log. obs may be nil.
func NewGate(log Log, clk clock.Clock, obs Observer) (*Gate, error) {
	if log == nil {
		return nil, fmt.Errorf("activity: log is required")
	}
	if clk == nil {
		clk = clock.Real()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Gate{log: log, clock: clk, observer: obs}, nil
}

// Check counts the instance's posts and votes in [now-window, now]. A
// non-positive window uses DefaultWindow. An instance with no recorded
// events yields a zero Result.
func (g *Gate) Check(ctx context.Context, instanceID string, window time.Duration) (Result, error) {
	if instanceID == "" {
		return Result{}, fmt.Errorf("activity: check: instance id is required: %w", ErrBadRequest)
	}
	if window <= 0 {
		window = DefaultWindow
	}

	now := g.clock.Now()
	res, err := g.log.CountBetween(ctx, instanceID, now.Add(-window), now)
	if err != nil {
		g.observer.RateChecked(false)
		return Result{}, fmt.Errorf("activity: check %s: %w: %w", instanceID, ErrUnavailable, err)
	}
	g.observer.RateChecked(true)
	return res, nil
}

// Allow applies limits to a fresh Check over window. Any error denies.
func (g *Gate) Allow(ctx context.Context, instanceID string, window time.Duration, limits Limits) (bool, Result, error) {
	res, err := g.Check(ctx, instanceID, window)
	if err != nil {
		return false, Result{}, err
	}
	return limits.Within(res), res, nil
}

// Record appends one event of kind for the instance, stamped now.
func (g *Gate) Record(ctx context.Context, instanceID string, kind Kind) error {
	if instanceID == "" {
		return fmt.Errorf("activity: record: instance id is required: %w", ErrBadRequest)
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	ev := models.ActivityEvent{
		InstanceID: instanceID,
		Kind:       string(kind),
		CreatedAt:  g.clock.Now().UTC(),
	}
	if err := g.log.Append(ctx, ev); err != nil {
		return fmt.Errorf("activity: record %s for %s: %w: %w", kind, instanceID, ErrUnavailable, err)
	}
	return nil
}
