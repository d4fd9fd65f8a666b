// Package scheduler triggers the presence sweep on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// cronParser accepts standard 5-field expressions and @every/@hourly descriptors.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Snapshotter is the part of fleet.Service the scheduler drives.
type Snapshotter interface {
	Snapshot(ctx context.Context) (fleet.Report, error)
}

// Scheduler runs a sweep followed by an aggregate on every tick.
type Scheduler struct {
	cron    *cron.Cron
	target  Snapshotter
	timeout time.Duration
	log     logrus.FieldLogger

	mu   sync.Mutex
	base context.Context // parent of scheduled runs; set by Run
}

// New parses spec and prepares a Scheduler. Each run is bounded by timeout.
func New(spec string, target Snapshotter, timeout time.Duration, log logrus.FieldLogger) (*Scheduler, error) {
	if target == nil {
		return nil, fmt.Errorf("scheduler: target is required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("scheduler: timeout must be positive")
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("scheduler: parse %q: %w", spec, err)
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithParser(cronParser)),
		target:  target,
		timeout: timeout,
		log:     log.WithField("component", "scheduler"),
		base:    context.Background(),
	}
	s.cron.Schedule(sched, cron.FuncJob(func() { s.RunOnce(s.baseContext()) }))
	return s, nil
}

// Run starts the schedule and blocks until ctx is cancelled. Scheduled runs
// derive from ctx, so cancelling it also aborts an in-flight sweep; Run
// returns once that run has unwound.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

func (s *Scheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base
}

// RunOnce performs a single sweep+aggregate and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) (fleet.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rep, err := s.target.Snapshot(ctx)
	if err != nil {
		s.log.WithError(err).Error("scheduled sweep failed")
		return fleet.Report{}, err
	}
	s.log.WithFields(logrus.Fields{
		"marked_offline": rep.MarkedOffline,
		"total":          rep.Stats.Total,
		"online":         rep.Stats.Online,
		"offline":        rep.Stats.Offline,
	}).Info("scheduled sweep complete")
	return rep, nil
}

// Next returns the next time the schedule fires after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(t)
}
