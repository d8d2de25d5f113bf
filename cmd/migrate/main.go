// Package main provides the schema migration CLI.
// Usage: migrate up
//        migrate down --steps 1
//        migrate version
//        migrate force <version>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/config"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/infrastructure/storage/migrations"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/pkg/logger"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the invoicegen database schema",
	Long: `Applies the embedded SQL migrations to the database given by
--database-url or DATABASE_URL (an optional .env file is read first).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if databaseURL != "" {
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		databaseURL = cfg.Database.URL
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd.Context(), m)
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		if steps <= 0 {
			return fmt.Errorf("--steps must be positive")
		}
		return withMigrator(func(m *migrations.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd.Context(), m)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			return printVersion(cmd.Context(), m)
		})
	},
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without migrating and clear the dirty flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withMigrator(func(m *migrations.Migrator) error {
			if err := m.Force(version); err != nil {
				return err
			}
			return printVersion(cmd.Context(), m)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default: DATABASE_URL)")
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

func withMigrator(fn func(m *migrations.Migrator) error) error {
	m, err := migrations.New(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			logger.Warn(context.Background(), "close migrator", "error", cerr)
		}
	}()
	return fn(m)
}

func printVersion(ctx context.Context, m *migrations.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info(ctx, "schema version", "version", v, "dirty", dirty)
	return nil
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error(ctx, "migrate failed", "error", err)
		os.Exit(1)
	}
}
