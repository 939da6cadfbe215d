// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the repoforge CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repoforge",
		Short: "Bulk-provision GitHub repositories with Tailscale-issued secrets",
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Run())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Keys())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
