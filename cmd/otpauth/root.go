package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Running it without a subcommand
// serves the API.
func NewRootCmd() *cobra.Command {
	serve := NewServeCmd()

	cmd := &cobra.Command{
		Use:   "otpauth",
		Short: "Phone number OTP authentication service",
		Long: `otpauth registers phone numbers and logs them in with one-time codes
delivered by SMS. Configuration is read from the environment.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSecretCmd())

	return cmd
}
