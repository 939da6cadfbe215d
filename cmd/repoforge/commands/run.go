package commands

import (
	"github.com/spf13/cobra"

	"github.com/forgeops/repoforge/cmd/repoforge/handlers"
)

// Run returns the command that executes a full provisioning run.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: repoforge.yaml)
//
// Environment variables:
//
//	GITHUB_TOKEN:      GitHub personal access token (fallback for github.token)
//	TAILSCALE_API_KEY: Tailscale API key (fallback for tailscale.api_key)
func Run() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the configured repositories",
		Long: `Execute a provisioning run: issue auth keys, create repositories,
upload template content, inject encrypted Actions secrets, and optionally
trigger CI workflows.

Repositories are processed strictly one at a time. Press Ctrl-C to cancel:
the repository currently being provisioned finishes, later ones are skipped.

Examples:
  # Run using repoforge.yaml in the current directory
  repoforge run

  # Run using a specific config file
  repoforge run -c batch42.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: repoforge.yaml)")

	return cmd
}
