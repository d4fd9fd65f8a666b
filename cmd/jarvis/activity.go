package main

import (
	"encoding/json"
	"fmt"

	"github.com/GGCryptoh/jarvis-inc/internal/activity"
	"github.com/spf13/cobra"
)

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Record instance activity",
	}

	cmd.AddCommand(newActivityRecordCmd())
	return cmd
}

func newActivityRecordCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "record <instance-id> <post|vote>",
		Short: "Append one post or vote to the activity log",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := activity.ParseKind(args[1])
			if err != nil {
				return err
			}
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			if err := a.gate.Record(ctx, args[0], kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n", kind, args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	return cmd
}

func newRateCheckCmd() *cobra.Command {
	var (
		configPath string
		limits     activity.Limits
	)

	cmd := &cobra.Command{
		Use:   "rate-check <instance-id>",
		Short: "Count an instance's posts and votes in the rate window",
		Long: `Counts the instance's posts and votes in the trailing rate window and
prints them as JSON. With --max-posts or --max-votes the command exits
non-zero when a limit is reached or the counts cannot be read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			ok, res, err := a.gate.Allow(ctx, args[0], a.cfg.Rate.Window, limits)
			if err != nil {
				return err
			}
			data, err := json.Marshal(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if !ok {
				return fmt.Errorf("rate limit reached for %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	cmd.Flags().Int64Var(&limits.MaxPosts, "max-posts", 0, "maximum posts in the window (0 = unlimited)")
	cmd.Flags().Int64Var(&limits.MaxVotes, "max-votes", 0, "maximum votes in the window (0 = unlimited)")
	return cmd
}
