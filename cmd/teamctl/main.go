package main

import (
	"fmt"
	"os"

	"teamhub/internal/config"
	"teamhub/internal/database"
	"teamhub/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	configFlag string
	rootCmd    = &cobra.Command{
		Use:           "teamctl",
		Short:         "Admin tasks for the team hub database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// openDB loads config and opens the configured database.
// The returned func closes the connection and flushes the logger.
func openDB() (*gorm.DB, *zap.Logger, func(), error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}

	return db, log, func() {
		_ = database.Close(db)
		_ = log.Sync()
	}, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "configs/config.yaml", "Config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
