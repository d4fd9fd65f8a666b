package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Manage the release registry",
	}

	cmd.AddCommand(newReleaseListCmd())
	cmd.AddCommand(newReleaseSetCmd())
	cmd.AddCommand(newReleaseDeleteCmd())
	return cmd
}

func newReleaseListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List releases, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			list, err := a.releases.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No releases.")
				return nil
			}
			for _, r := range list {
				fmt.Fprintf(out, "%-12s %s  %s\n", r.Version, r.UpdatedAt.Format("2006-01-02"), firstLine(r.Changelog))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	return cmd
}

func newReleaseSetCmd() *cobra.Command {
	var (
		configPath string
		changelog  string
	)

	cmd := &cobra.Command{
		Use:   "set <version>",
		Short: "Create or update a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			rel, err := a.releases.Upsert(ctx, args[0], changelog)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Release %s saved\n", rel.Version)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	cmd.Flags().StringVarP(&changelog, "changelog", "m", "", "changelog text")
	return cmd
}

func newReleaseDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <version>",
		Short: "Remove a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			ctx, cancel := a.opContext()
			defer cancel()
			if err := a.releases.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Release %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Jarvis config file")
	return cmd
}
