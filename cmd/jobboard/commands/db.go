// Package commands contains the jobboard CLI subcommands.
package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheachwood/GitOnBoard/board"
	"github.com/cheachwood/GitOnBoard/config"
	"github.com/cheachwood/GitOnBoard/db"
	"github.com/cheachwood/GitOnBoard/errors"
	"github.com/cheachwood/GitOnBoard/logger"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the GitOnBoard database",
	Long: `db — Manage GitOnBoard database operations

Examples:
  jobboard db stats        # Show job, status and event counts`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display job counts by status and activity, and the size of the event log",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
}

// openDatabase opens and migrates the database. An empty path resolves
// through config (DB_PATH env wins).
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		resolved, err := config.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "resolve database path")
		}
		dbPath = resolved
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, errors.Wrap(err, "apply migrations")
	}

	return database, nil
}

// openRegistry opens the database and builds a registry over it, applying
// the configured owner bootstrap.
func openRegistry(dbPath string) (*board.Registry, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}

	database, err := openDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}

	registry, err := board.NewRegistry(database, cfg.Board.Owner, logger.Logger)
	if err != nil {
		database.Close()
		return nil, nil, errors.Wrap(err, "create registry")
	}

	return registry, database, nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := openDatabase("")
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	store := board.NewStore(database)
	stats, err := store.GetStats()
	if err != nil {
		return errors.Wrap(err, "failed to read stats")
	}

	owner, err := store.Owner()
	if err != nil {
		return errors.Wrap(err, "failed to read owner")
	}
	if owner == "" {
		owner = "<none>"
	}

	fmt.Println("Database Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Database Path: %s\n", cfg.GetDatabasePath())
	fmt.Printf("Board Owner:   %s\n", owner)
	fmt.Printf("Total Jobs:    %d\n", stats.TotalJobs)
	fmt.Printf("Active Jobs:   %d\n", stats.ActiveJobs)
	fmt.Printf("Open Jobs:     %d\n", stats.OpenJobs)
	fmt.Printf("Total Events:  %d\n", stats.TotalEvents)

	return nil
}
