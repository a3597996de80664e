// Command cmsctl runs operator tasks against the content database: schema
// migrations and one-off reference reconciliation.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/service"
	"github.com/content-graph-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var migrationsPath string

var rootCmd = &cobra.Command{
	Use:          "cmsctl",
	Short:        "Operator tool for the content API database",
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(func(db *database.DB, cfg *config.Config, _ zerolog.Logger) error {
			return db.RunMigrations(migrationsDir(cfg))
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(func(db *database.DB, cfg *config.Config, _ zerolog.Logger) error {
			return db.MigrateDown(migrationsDir(cfg))
		})
	},
}

var migrateGotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withDB(func(db *database.DB, cfg *config.Config, _ zerolog.Logger) error {
			return db.MigrateToVersion(migrationsDir(cfg), uint(version))
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Remove article references to deleted categories, tags and files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDB(func(db *database.DB, cfg *config.Config, log zerolog.Logger) error {
			repos := repository.New(db)
			storage := service.NewDiskStorage(cfg.Storage.UploadDir, cfg.Storage.MaxUploadSize)
			services := service.NewServices(repos, storage, cfg, log)

			report, err := services.Reconciler.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "migrations", "", "migrations directory (default $MIGRATIONS_PATH)")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateGotoCmd)
	rootCmd.AddCommand(migrateCmd, reconcileCmd)
}

func migrationsDir(cfg *config.Config) string {
	if migrationsPath != "" {
		return migrationsPath
	}
	return cfg.Database.MigrationsPath
}

// withDB loads configuration, opens the database and runs fn
func withDB(fn func(db *database.DB, cfg *config.Config, log zerolog.Logger) error) error {
	log := logger.NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	return fn(db, cfg, log)
}

// Execute runs the root command. Exit code 1 indicates error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
