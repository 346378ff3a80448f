package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the identity CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Identity and access control service for the education portal",
		Long: `The identity service owns user credentials and role-based access
control for the education portal: login with signed session tokens,
administrative seeding, and out-of-band password resets.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewResetPasswordCmd())

	return cmd
}
