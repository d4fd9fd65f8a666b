package fleet

import (
	"context"
	"fmt"
)

// CategoryCount holds the status breakdown for one category.
type CategoryCount struct {
	Total   int64 `json:"total"`
	Online  int64 `json:"online"`
	Offline int64 `json:"offline"`
}

// Snapshot is a point-in-time count of the instance population.
type Snapshot struct {
	Total      int64                    `json:"total"`
	Online     int64                    `json:"online"`
	Offline    int64                    `json:"offline"`
	ByCategory map[string]CategoryCount `json:"by_category"`
}

// Aggregator computes population statistics. It never writes.
type Aggregator struct {
	store Store
}

// NewAggregator returns an Aggregator reading from store.
func NewAggregator(store Store) (*Aggregator, error) {
	if store == nil {
		return nil, fmt.Errorf("fleet: store is required")
	}
	return &Aggregator{store: store}, nil
}

// Aggregate counts instances by status and category. An empty store yields
// a zero Snapshot with an empty, non-nil ByCategory.
func (a *Aggregator) Aggregate(ctx context.Context) (Snapshot, error) {
	rows, err := a.store.CountInstances(ctx)
	if err != nil {
		return Snapshot{}, storageErr("aggregate", err)
	}
	return summarize(rows), nil
}

// summarize folds grouped rows into a Snapshot. Any status other than
// online is counted as offline so Online+Offline always equals Total.
func summarize(rows []StatusCount) Snapshot {
	snap := Snapshot{ByCategory: make(map[string]CategoryCount)}
	for _, r := range rows {
		cc := snap.ByCategory[r.Category]
		cc.Total += r.Count
		snap.Total += r.Count
		if Status(r.Status) == StatusOnline {
			cc.Online += r.Count
			snap.Online += r.Count
		} else {
			cc.Offline += r.Count
			snap.Offline += r.Count
		}
		snap.ByCategory[r.Category] = cc
	}
	return snap
}
