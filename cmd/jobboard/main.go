package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cheachwood/GitOnBoard/cmd/jobboard/commands"
	"github.com/cheachwood/GitOnBoard/logger"
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "GitOnBoard - job posting registry",
	Long: `GitOnBoard - an authoritative registry of job postings.

Jobs move through a strict lifecycle (Open, InProgress, Completed,
Cancelled), accept a single candidate while Open, and every accepted
change is recorded in an append-only event log. The server pushes
committed events to WebSocket clients.

Available commands:
  serve  - Start the REST/WebSocket server
  job    - Create, inspect and manage job postings
  owner  - Show or change the board owner
  db     - Database operations
  seed   - Populate the registry with a demo dataset
  version- Show build information

Examples:
  jobboard serve                              # Start the server
  jobboard job create --as alice --rate 500 --description "..."
  jobboard job ls                             # List all jobs
  jobboard owner show                         # Show the board owner
  jobboard db stats                           # Show database statistics`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.InitializeWithLevel(false, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.JobCmd)
	rootCmd.AddCommand(commands.OwnerCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.SeedCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
