package commands

import (
	"github.com/spf13/cobra"

	"github.com/forgeops/repoforge/cmd/repoforge/handlers"
)

// Keys returns the parent command for standalone auth-key operations.
func Keys() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage Tailscale auth keys directly",
	}

	cmd.AddCommand(keysIssue())
	cmd.AddCommand(keysList())
	cmd.AddCommand(keysDelete())
	cmd.AddCommand(keysBackup())

	return cmd
}

func keysIssue() *cobra.Command {
	var configPath string
	var count int

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue auth keys without provisioning repositories",
		Long: `Issue auth keys with the capabilities configured under tailscale.key
and print them. With backup enabled in the config, the keys are also
written to a timestamped backup file.

Examples:
  repoforge keys issue -c batch42.yaml --count 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.KeysIssue(cmd.Context(), configPath, count)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: repoforge.yaml)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of keys to issue")

	return cmd
}

func keysList() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tailnet's existing auth keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.KeysList(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: repoforge.yaml)")

	return cmd
}

func keysDelete() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <key-id>",
		Short: "Revoke an auth key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.KeysDelete(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: repoforge.yaml)")

	return cmd
}

func keysBackup() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload the newest local key backup to object storage",
		Long: `Upload the newest backup file from backup.directory to the configured
S3 bucket, then list the backups already stored there.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.KeysBackup(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: repoforge.yaml)")

	return cmd
}
