package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/clock"
)

// DefaultStaleThreshold is how long an instance may go without a heartbeat
// before the sweeper marks it offline.
const DefaultStaleThreshold = 30 * time.Minute

// Sweeper demotes instances with stale heartbeats to offline.
type Sweeper struct {
	store     Store
	clock     clock.Clock
	threshold time.Duration
}

// NewSweeper returns a Sweeper judging staleness against threshold.
func NewSweeper(store Store, clk clock.Clock, threshold time.Duration) (*Sweeper, error) {
	if store == nil {
		return nil, fmt.Errorf("fleet: store is required")
	}
	if clk == nil {
		return nil, fmt.Errorf("fleet: clock is required")
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("fleet: new sweeper: %w", ErrInvalidThreshold)
	}
	return &Sweeper{store: store, clock: clk, threshold: threshold}, nil
}

// Threshold returns the staleness threshold.
func (s *Sweeper) Threshold() time.Duration { return s.threshold }

// Sweep marks every online instance whose heartbeat is older than the
// threshold as offline and returns the number transitioned. All instances
// are judged against a single cutoff taken at entry.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("fleet: sweep: %w", err)
	}
	cutoff := Cutoff(s.clock.Now(), s.threshold)
	n, err := s.store.MarkOffline(ctx, cutoff)
	if err != nil {
		return 0, storageErr("sweep", err)
	}
	return n, nil
}
