package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/otpauth/pkg/cryptox"
)

// NewSecretCmd creates the secret subcommand.
func NewSecretCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Print a random signing secret for AUTH_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret, err := cryptox.GenerateSecret(size)
			if err != nil {
				return oops.Code("INVALID_SIZE").With("size", size).Wrap(err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}

	cmd.Flags().IntVar(&size, "bytes", cryptox.SecretSize256, "random bytes before base64url encoding")
	return cmd
}
