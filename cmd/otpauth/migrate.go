package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/otpauth/internal/auth/app"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply all pending migrations to the configured identity registry
(DATABASE_DRIVER) and exit.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := app.LoadConfig()

	cmd.Printf("Migrating %s database...\n", cfg.DatabaseDriver)
	db, err := app.OpenStore(context.Background(), cfg, slogx.Discard())
	if err != nil {
		return oops.Code("MIGRATION_FAILED").
			With("driver", cfg.DatabaseDriver).
			With("operation", "run migrations").
			Wrap(err)
	}
	defer db.Close()

	cmd.Println("Migrations completed successfully")
	return nil
}
