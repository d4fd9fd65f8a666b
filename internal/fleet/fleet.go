// Package fleet tracks instance presence: heartbeats, the staleness sweep
// that demotes silent instances to offline, and population statistics.
package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/clock"
	"github.com/GGCryptoh/jarvis-inc/internal/logging"
	"github.com/GGCryptoh/jarvis-inc/internal/models"
	"github.com/sirupsen/logrus"
)

// Observer receives the outcome of sweeps and snapshots.
type Observer interface {
	SweepCompleted(marked int64, took time.Duration)
	SweepFailed()
	FleetObserved(online, offline int64)
}

type nopObserver struct{}

func (nopObserver) SweepCompleted(int64, time.Duration) {}
func (nopObserver) SweepFailed()                        {}
func (nopObserver) FleetObserved(int64, int64)          {}

// Report is the combined result of a sweep followed by an aggregate.
type Report struct {
	Instances     []models.Instance `json:"instances"`
	Stats         Snapshot          `json:"stats"`
	MarkedOffline int64             `json:"marked_offline"`
}

// Opts configures a Service.
type Opts struct {
	Store     Store
	Clock     clock.Clock
	Threshold time.Duration
	Observer  Observer
	Log       logrus.FieldLogger
}

// Service wires the sweeper and aggregator to one store.
type Service struct {
	store      Store
	clock      clock.Clock
	sweeper    *Sweeper
	aggregator *Aggregator
	observer   Observer
	log        logrus.FieldLogger
}

// NewService validates opts and builds a Service. A zero threshold uses
// DefaultStaleThreshold.
func NewService(opts Opts) (*Service, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultStaleThreshold
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}

	sweeper, err := NewSweeper(opts.Store, opts.Clock, opts.Threshold)
	if err != nil {
		return nil, err
	}
	aggregator, err := NewAggregator(opts.Store)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:      opts.Store,
		clock:      opts.Clock,
		sweeper:    sweeper,
		aggregator: aggregator,
		observer:   opts.Observer,
		log:        opts.Log.WithField("component", "fleet"),
	}, nil
}

// Sweep runs the presence sweep and records the outcome.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.observer.SweepFailed()
		s.log.WithError(err).Warn("sweep failed")
		return 0, err
	}
	s.observer.SweepCompleted(n, time.Since(start))
	if n > 0 {
		s.log.WithFields(logrus.Fields{
			"marked_offline": n,
			"threshold":      s.sweeper.Threshold().String(),
		}).Info("instances marked offline")
	}
	return n, nil
}

// Aggregate computes fresh population statistics.
func (s *Service) Aggregate(ctx context.Context) (Snapshot, error) {
	snap, err := s.aggregator.Aggregate(ctx)
	if err != nil {
		s.log.WithError(err).Warn("aggregate failed")
		return Snapshot{}, err
	}
	s.observer.FleetObserved(snap.Online, snap.Offline)
	return snap, nil
}

// Snapshot sweeps, then aggregates, then lists instances. The three steps
// are not atomic as a group; a heartbeat may land between them.
func (s *Service) Snapshot(ctx context.Context) (Report, error) {
	marked, err := s.Sweep(ctx)
	if err != nil {
		return Report{}, err
	}
	stats, err := s.Aggregate(ctx)
	if err != nil {
		return Report{}, err
	}
	instances, err := s.store.ListInstances(ctx)
	if err != nil {
		return Report{}, storageErr("list instances", err)
	}
	if instances == nil {
		instances = []models.Instance{}
	}
	return Report{Instances: instances, Stats: stats, MarkedOffline: marked}, nil
}

// Heartbeat records a heartbeat for id at the current time, registering the
// instance on first contact and bringing it back online.
func (s *Service) Heartbeat(ctx context.Context, id string, attrs HeartbeatAttrs) error {
	if id == "" {
		return fmt.Errorf("fleet: heartbeat: instance id is required: %w", ErrBadRequest)
	}
	if err := s.store.Heartbeat(ctx, id, s.clock.Now(), attrs); err != nil {
		return storageErr("heartbeat "+id, err)
	}
	return nil
}

// Override sets an instance's status by hand.
func (s *Service) Override(ctx context.Context, id string, st Status) error {
	if id == "" {
		return fmt.Errorf("fleet: override: instance id is required: %w", ErrBadRequest)
	}
	if _, err := ParseStatus(string(st)); err != nil {
		return err
	}
	if err := s.store.SetStatus(ctx, id, st); err != nil {
		return storageErr("override "+id, err)
	}
	s.log.WithFields(logrus.Fields{"instance_id": id, "status": st}).Info("status overridden")
	return nil
}
