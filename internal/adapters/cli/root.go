package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stitchflow",
		Short: "Stitchflow - production task workflow for a garment factory",
		Long: `Stitchflow manages the production pipeline of a sewing factory:
it generates the task chain for new orders, gates each stage on its
predecessors, and drives the quality-control rework loop.

Examples:
  stitchflow order create --number ORD-042 --customer "Atelier Nord" --quantity 25
  stitchflow tasks generate --order <order-id>
  stitchflow task start <task-id> --by maria
  stitchflow task complete <task-id> --by maria --hours 3.5
  stitchflow task complete <qc-task-id> --by olga --qc-passed 23 --qc-rework 2
  stitchflow tasks list --role cutter
  stitchflow stats`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewOrderCommand())
	rootCmd.AddCommand(NewTaskCommand())
	rootCmd.AddCommand(NewTasksCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewServeMetricsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
