package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const defaultConfigPath = "jarvis.yaml"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jarvis",
		Short: "Jarvis fleet tracker",
		Long:  "Jarvis tracks a fleet of agent instances: presence, staleness sweeps, population stats and a rolling activity rate gate.",
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSweepCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newInstanceCmd())
	cmd.AddCommand(newActivityCmd())
	cmd.AddCommand(newRateCheckCmd())
	cmd.AddCommand(newReleaseCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jarvis %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
