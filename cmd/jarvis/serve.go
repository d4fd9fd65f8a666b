package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/GGCryptoh/jarvis-inc/internal/admin"
	"github.com/GGCryptoh/jarvis-inc/internal/dashboard"
	"github.com/GGCryptoh/jarvis-inc/internal/scheduler"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
		noSweep    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fleet API and the sweep scheduler",
		Long:  "Serves the heartbeat, activity, rate-check and admin endpoints, and runs the staleness sweep on the configured schedule.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, noSweep)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides http.port)")
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "do not run the scheduled sweep")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, noSweep bool) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = a.cfg.HTTP.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	var wg sync.WaitGroup
	if !noSweep {
		sched, err := scheduler.New(a.cfg.Sweep.Schedule, a.fleet, a.cfg.Sweep.Timeout, a.log)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
		a.log.WithField("schedule", a.cfg.Sweep.Schedule).Info("sweep scheduler started")
	}

	err = dashboard.Start(ctx, dashboard.StartOpts{
		Fleet:      a.fleet,
		Gate:       a.gate,
		Releases:   a.releases,
		Admin:      admin.NewGate(a.cfg.AdminKey),
		Metrics:    a.metrics,
		RateWindow: a.cfg.Rate.Window,
		Port:       port,
		Log:        a.log,
		Out:        cmd.OutOrStdout(),
	})
	cancel()
	wg.Wait()
	return err
}
