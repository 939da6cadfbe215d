package commands

import (
	"github.com/spf13/cobra"

	"github.com/forgeops/repoforge/cmd/repoforge/handlers"
)

// Validate returns the command that checks a configuration without creating
// anything.
func Validate() *cobra.Command {
	var configPath string
	var live bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate the configuration: static checks always run, and with --live
both API connections are verified and the GitHub rate-limit headroom is
printed. No repository is created.

Examples:
  repoforge validate -c batch42.yaml
  repoforge validate -c batch42.yaml --live`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath, live)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: repoforge.yaml)")
	cmd.Flags().BoolVar(&live, "live", false, "Also verify API credentials and rate limits")

	return cmd
}
