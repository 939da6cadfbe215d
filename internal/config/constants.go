package config

// CurrentVersion is the configuration schema version written by this build.
// Version 1 configs (flat auto_generate_tailscale / tailscale_secret_name /
// project_folder fields) are migrated at load time.
const CurrentVersion = 2

// Repository count bounds for a single run.
const (
	MinRepositoryCount = 1
	MaxRepositoryCount = 100
)

// Defaults applied when the corresponding field is unset.
const (
	DefaultKeyExpiryDays   = 90
	DefaultWorkflowFile    = "main.yml"
	DefaultPagesSource     = "main"
	DefaultBackupDirectory = "key-backups"
	DefaultS3BackupPrefix  = "tailscale-keys"
	DefaultTailscaleSecret = "TAILSCALE_AUTH_KEY"
	DefaultNamingStrategy  = "AutoGenerate"
)
