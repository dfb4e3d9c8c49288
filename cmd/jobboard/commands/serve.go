package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cheachwood/GitOnBoard/config"
	"github.com/cheachwood/GitOnBoard/errors"
	"github.com/cheachwood/GitOnBoard/logger"
	"github.com/cheachwood/GitOnBoard/server"
)

// ServeCmd starts the GitOnBoard server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the GitOnBoard REST/WebSocket server",
	Long: `Launch the job registry server. REST endpoints live under /api,
committed events are pushed to WebSocket clients on /ws.`,
	RunE: runServe,
}

var (
	servePort   int
	serveDBPath string
)

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Server port (overrides config)")
	ServeCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Custom database path (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	port := servePort
	if port == 0 {
		port = cfg.GetServerPort()
	}

	registry, database, err := openRegistry(serveDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	// Watch the project config for live reload when one exists
	if configPath := findWatchableConfig(); configPath != "" {
		watcher, err := config.NewConfigWatcher(configPath)
		if err != nil {
			logger.Warnw("Config watcher unavailable", "error", err)
		} else {
			watcher.OnReload(func(newCfg *config.Config) error {
				logger.Infow("Configuration reloaded", "config", newCfg.String())
				return nil
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	srv := server.NewBoardServer(registry, cfg, logger.Logger)

	pterm.Info.Printf("Starting GitOnBoard server on port %d (db: %s)\n", port, cfg.GetDatabasePath())

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	// Wait for shutdown signal (Ctrl+C)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			shutdownDone <- srv.Shutdown(ctx)
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil // unreachable
		}
	}
}

// findWatchableConfig returns the project config path if one exists.
func findWatchableConfig() string {
	if _, err := os.Stat("gitonboard.toml"); err == nil {
		return "gitonboard.toml"
	}
	return ""
}
