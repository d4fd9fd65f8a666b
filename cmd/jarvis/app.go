package main

import (
	"context"
	"fmt"
	"os"

	"github.com/GGCryptoh/jarvis-inc/internal/activity"
	"github.com/GGCryptoh/jarvis-inc/internal/clock"
	"github.com/GGCryptoh/jarvis-inc/internal/config"
	"github.com/GGCryptoh/jarvis-inc/internal/db"
	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/GGCryptoh/jarvis-inc/internal/logging"
	"github.com/GGCryptoh/jarvis-inc/internal/metrics"
	"github.com/GGCryptoh/jarvis-inc/internal/release"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app bundles the services every command builds from one config.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	log      *logrus.Logger
	metrics  *metrics.Metrics
	fleet    *fleet.Service
	gate     *activity.Gate
	releases *release.Registry
}

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", describeDB(cfg.Database), err)
	}

	return cfg, gormDB, nil
}

// newApp loads config, connects and wires the fleet, gate and registry.
// Logs go to stderr so command output stays parseable.
func newApp(configPath string) (*app, error) {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	m := metrics.New()

	store, err := fleet.NewGormStore(gormDB)
	if err != nil {
		return nil, err
	}
	svc, err := fleet.NewService(fleet.Opts{
		Store:     store,
		Clock:     clock.Real(),
		Threshold: cfg.Sweep.Threshold,
		Observer:  m,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	actLog, err := activity.NewGormLog(gormDB)
	if err != nil {
		return nil, err
	}
	gate, err := activity.NewGate(actLog, clock.Real(), m)
	if err != nil {
		return nil, err
	}

	reg, err := release.NewRegistry(gormDB, clock.Real())
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		db:       gormDB,
		log:      log,
		metrics:  m,
		fleet:    svc,
		gate:     gate,
		releases: reg,
	}, nil
}

// opContext bounds a single command's storage work by the configured
// operation timeout.
func (a *app) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.Sweep.Timeout)
}

func describeDB(cfg config.DatabaseConfig) string {
	if cfg.Driver == "sqlite" {
		return cfg.Path
	}
	return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
}
