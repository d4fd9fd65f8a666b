package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Mark stale instances offline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()

			n, err := a.fleet.Sweep(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d instance(s) offline (threshold %s)\n", n, a.cfg.Sweep.Threshold)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Sweep, then show fleet population counts",
		Long:  "Runs a staleness sweep and prints total, online and offline counts with a per-category breakdown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()

			rep, err := a.fleet.Snapshot(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep.Stats)
			}
			fmt.Fprint(out, formatSnapshot(rep.Stats, rep.MarkedOffline))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")
	return cmd
}
