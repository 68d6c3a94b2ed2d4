package main

import (
	"fmt"
	"go-atm/config"
	"go-atm/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

// migrateCommand groups the schema management subcommands.
func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(migrateUpCommand())
	cmd.AddCommand(migrateDownCommand())

	return cmd
}

func migrationDSN() string {
	cfg := config.AppConfig.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

func migrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			mig, err := migrate.New("file://db/migrations", migrationDSN())
			if err != nil {
				logger.Log.Fatalf("Failed to prepare migrations: %v", err)
			}
			if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
				logger.Log.Fatalf("Failed to apply migrations: %v", err)
			}
			logger.Log.Info("Migrations applied")
		},
	}
}

func migrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			mig, err := migrate.New("file://db/migrations", migrationDSN())
			if err != nil {
				logger.Log.Fatalf("Failed to prepare migrations: %v", err)
			}
			if err := mig.Down(); err != nil && err != migrate.ErrNoChange {
				logger.Log.Fatalf("Failed to roll back migrations: %v", err)
			}
			logger.Log.Info("Migrations rolled back")
		},
	}
}
