package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/clubstats/internal/config"
	"github.com/pable/clubstats/internal/logger"
	"github.com/pable/clubstats/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "clubstats",
	Short: "Club match statistics tool",
	Long:  "Import club match stat sheets, normalize their field names, and build chart series across matches.",

	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.clubstats/clubstats.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $CLUBSTATS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error")

	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadConfig layers flags over the koanf config and installs the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	dbPath = c.DBPath

	logger.Init(os.Stderr)
	if err := logger.SetLevelString(c.LogLevel); err != nil {
		return err
	}
	cfg = c
	return nil
}

// openDB opens the configured database, creating its directory if needed.
func openDB() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
