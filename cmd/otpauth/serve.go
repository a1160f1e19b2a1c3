package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/otpauth/internal/auth/app"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Apply migrations, start the HTTP API and block until SIGINT or SIGTERM.`,
		RunE:  runServe,
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		return oops.Code("STARTUP_FAILED").With("operation", "initialize application").Wrap(err)
	}

	if err := application.Run(); err != nil {
		return oops.Code("SERVE_FAILED").Wrap(err)
	}
	return nil
}
