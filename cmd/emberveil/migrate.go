// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/emberveil/emberveil/internal/config"
	"github.com/emberveil/emberveil/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations to the PostgreSQL database.`,
		RunE:  runMigrateUp,
	}

	cmd.Flags().String("database_url", "", "PostgreSQL connection string")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE:  runMigrateVersion,
	})

	return cmd
}

func migrateDatabaseURL(cmd *cobra.Command) (string, error) {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return "", err
	}
	if cfg.DatabaseURL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("database_url is required for migrations")
	}
	return cfg.DatabaseURL, nil
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	databaseURL, err := migrateDatabaseURL(cmd)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close errors are not actionable here

	cmd.Println("Running migrations...")
	if err := migrator.Up(); err != nil {
		return err
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	databaseURL, err := migrateDatabaseURL(cmd.Parent())
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // close errors are not actionable here

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("Version: %d (dirty)\n", version)
	} else {
		cmd.Printf("Version: %d\n", version)
	}
	return nil
}
