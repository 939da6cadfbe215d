package commands

import (
	"github.com/spf13/cobra"

	"github.com/forgeops/repoforge/cmd/repoforge/handlers"
)

// Init returns the command that runs the interactive configuration wizard.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Run the interactive wizard and write the resulting configuration file.

Examples:
  # Write repoforge.yaml in the current directory
  repoforge init

  # Write to a specific path
  repoforge init -o batch42.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "repoforge.yaml", "Path for the generated configuration file")

	return cmd
}
