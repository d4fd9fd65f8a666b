package main

import (
	"fmt"

	"github.com/GGCryptoh/jarvis-inc/internal/fleet"
	"github.com/spf13/cobra"
)

func newInstanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Inspect and manage fleet instances",
	}

	cmd.AddCommand(newInstanceListCmd())
	cmd.AddCommand(newInstanceHeartbeatCmd())
	cmd.AddCommand(newInstanceSetStatusCmd())
	return cmd
}

func newInstanceListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Sweep, then list every instance",
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
			fmt.Fprint(cmd.OutOrStdout(), formatInstances(rep.Instances))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	return cmd
}

func newInstanceHeartbeatCmd() *cobra.Command {
	var (
		configPath string
		attrs      fleet.HeartbeatAttrs
	)

	cmd := &cobra.Command{
		Use:   "heartbeat <id>",
		Short: "Record a heartbeat for an instance",
		Long:  "Registers the instance if it is new, stamps its last heartbeat with the current time and marks it online.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			if err := a.fleet.Heartbeat(ctx, args[0], attrs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Heartbeat recorded for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	cmd.Flags().StringVar(&attrs.Name, "name", "", "display name")
	cmd.Flags().StringVar(&attrs.Category, "category", "", "instance category")
	cmd.Flags().StringVar(&attrs.Version, "version", "", "reported software version")
	return cmd
}

func newInstanceSetStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "set-status <id> <online|offline>",
		Short: "Override an instance's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := fleet.ParseStatus(args[1])
			if err != nil {
				return err
			}
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			if err := a.fleet.Override(ctx, args[0], st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Instance %s is now %s\n", args[0], st)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	return cmd
}
