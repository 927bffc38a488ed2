package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Abraxas-365/bitwork/internal/database/migrations"
	"github.com/Abraxas-365/bitwork/pkg/config"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config and applies the
// log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logx.SetLevel(level)
	return cfg, nil
}

// openDB connects for the migrate commands, which never need Redis or S3.
func openDB(cmd *cobra.Command) (*sqlx.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url (DATABASE_URL) is required")
	}
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

var rootCmd = &cobra.Command{
	Use:          "bitwork",
	Short:        "Local jobs marketplace API",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if memory, _ := cmd.Flags().GetBool("memory"); memory {
			cfg.Memory = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logx.Info("Starting Bitwork API Server...")
		container, err := NewContainer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		return runServer(cmd.Context(), container)
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(cmd.Context(), db.DB); err != nil {
			return err
		}
		fmt.Println("Database is up to date")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")

		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateDown(cmd.Context(), db.DB, steps); err != nil {
			return err
		}
		fmt.Printf("Rolled back %d migration(s)\n", steps)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		latest, err := migrations.LatestVersion()
		if err != nil {
			return err
		}
		if err := migrations.CheckStatus(cmd.Context(), db.DB); err != nil {
			return err
		}
		fmt.Printf("Database is at the latest version (%d)\n", latest)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("memory", false, "Run on the in-memory store instead of Postgres")

	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateDownCmd.Flags().IntP("steps", "n", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(migrateStatusCmd)
}
