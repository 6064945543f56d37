// Package cmd wires the CLI surface: the automatic enrichment run and the
// manual re-resolution mode.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pegascrape/internal/catalog"
	"pegascrape/internal/config"
	"pegascrape/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pegascrape",
	Short: "Enrich a movie collection with catalog metadata",
	Long: `pegascrape identifies the video files in a collection directory against
TMDB, downloads artwork and trailers, and maintains a metadata store plus a
Pegasus-frontend collection file next to the movies.`,
	SilenceUsage: true,
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror log records to stderr")
}

// app bundles the pieces every command needs.
type app struct {
	cfg      *config.Config
	client   *catalog.Client
	log      *slog.Logger
	closeLog func() error
}

// newApp loads the configuration and constructs the logger and catalog
// client. Configuration problems abort before anything else happens.
func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	logger, closeLog, err := logging.New(logging.Options{
		Dir:     cfg.MoviesPath,
		Level:   level,
		Verbose: verbose,
	})
	if err != nil {
		return nil, err
	}

	client, err := catalog.New(cfg.APIKey, catalog.WithLogger(logger))
	if err != nil {
		closeLog()
		return nil, err
	}

	return &app{cfg: cfg, client: client, log: logger, closeLog: closeLog}, nil
}
