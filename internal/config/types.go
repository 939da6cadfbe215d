package config

// SecretSource determines how a per-repository secret value is resolved.
type SecretSource string

const (
	// SourceIssuerAuto assigns each repository its own freshly issued
	// Tailscale auth key, by repository position.
	SourceIssuerAuto SecretSource = "issuer_auto"

	// SourceConstant assigns the same configured value to every repository.
	SourceConstant SecretSource = "constant"

	// SourceImportFile assigns line N of a value file to repository N.
	SourceImportFile SecretSource = "import_file"
)

// Config is the full provisioning configuration for one run.
type Config struct {
	Version      int                `mapstructure:"version" yaml:"version"`
	GitHub       GitHubConfig       `mapstructure:"github" yaml:"github"`
	Repositories RepositoriesConfig `mapstructure:"repositories" yaml:"repositories"`
	Secrets      SecretsConfig      `mapstructure:"secrets" yaml:"secrets"`
	Tailscale    TailscaleConfig    `mapstructure:"tailscale" yaml:"tailscale"`
	Actions      ActionsConfig      `mapstructure:"actions" yaml:"actions"`
	Backup       BackupConfig       `mapstructure:"backup" yaml:"backup"`
}

// GitHubConfig holds repository-host credentials.
type GitHubConfig struct {
	// Token is the personal access token. Falls back to GITHUB_TOKEN.
	Token string `mapstructure:"token" yaml:"token,omitempty"`
}

// RepositoriesConfig describes the repositories to create.
type RepositoriesConfig struct {
	Count       int          `mapstructure:"count" yaml:"count"`
	Naming      NamingConfig `mapstructure:"naming" yaml:"naming"`
	Private     bool         `mapstructure:"private" yaml:"private"`
	AutoInit    bool         `mapstructure:"auto_init" yaml:"auto_init"`
	Description string       `mapstructure:"description" yaml:"description,omitempty"`
	HasIssues   bool         `mapstructure:"has_issues" yaml:"has_issues"`
	HasWiki     bool         `mapstructure:"has_wiki" yaml:"has_wiki"`
	HasProjects bool         `mapstructure:"has_projects" yaml:"has_projects"`
	Topics      []string     `mapstructure:"topics" yaml:"topics,omitempty"`

	Template         TemplateConfig         `mapstructure:"template" yaml:"template"`
	Pages            PagesConfig            `mapstructure:"pages" yaml:"pages"`
	BranchProtection BranchProtectionConfig `mapstructure:"branch_protection" yaml:"branch_protection"`
}

// NamingConfig selects the repository naming strategy.
type NamingConfig struct {
	// Strategy is one of AutoGenerate, CustomPrefix, SequentialPrefix,
	// ImportFile.
	Strategy  string `mapstructure:"strategy" yaml:"strategy"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	NamesFile string `mapstructure:"names_file" yaml:"names_file,omitempty"`
}

// TemplateConfig lists local content uploaded into each new repository.
type TemplateConfig struct {
	WorkflowFile  string   `mapstructure:"workflow_file" yaml:"workflow_file,omitempty"`
	GitignoreFile string   `mapstructure:"gitignore_file" yaml:"gitignore_file,omitempty"`
	ProjectPaths  []string `mapstructure:"project_paths" yaml:"project_paths,omitempty"`
	TargetFolder  string   `mapstructure:"target_folder" yaml:"target_folder,omitempty"`
}

// PagesConfig controls GitHub Pages for created repositories.
type PagesConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Source is "main", "docs", or "gh-pages".
	Source string `mapstructure:"source" yaml:"source,omitempty"`
}

// BranchProtectionConfig controls default-branch protection.
type BranchProtectionConfig struct {
	Enabled             bool `mapstructure:"enabled" yaml:"enabled"`
	RequireReviews      bool `mapstructure:"require_reviews" yaml:"require_reviews"`
	RequireStatusChecks bool `mapstructure:"require_status_checks" yaml:"require_status_checks"`
	RestrictPush        bool `mapstructure:"restrict_push" yaml:"restrict_push"`
}

// SecretsConfig holds the per-repository secret specifications.
type SecretsConfig struct {
	// Specs is ordered: issuer_auto and import_file sources resolve values
	// by repository position.
	Specs []SecretSpec `mapstructure:"specs" yaml:"specs,omitempty"`

	// SharedFile is an optional KEY=VALUE file whose every entry is added
	// identically to every repository.
	SharedFile string `mapstructure:"shared_file" yaml:"shared_file,omitempty"`
}

// SecretSpec describes one Actions secret injected into each repository.
type SecretSpec struct {
	Name     string       `mapstructure:"name" yaml:"name"`
	Source   SecretSource `mapstructure:"source" yaml:"source"`
	Value    string       `mapstructure:"value" yaml:"value,omitempty"`
	FilePath string       `mapstructure:"file_path" yaml:"file_path,omitempty"`
}

// TailscaleConfig holds key-issuer credentials and key capabilities.
type TailscaleConfig struct {
	// APIKey falls back to TAILSCALE_API_KEY.
	APIKey  string    `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Tailnet string    `mapstructure:"tailnet" yaml:"tailnet,omitempty"`
	Key     KeyConfig `mapstructure:"key" yaml:"key"`
}

// KeyConfig describes the auth keys to issue.
type KeyConfig struct {
	ExpiryDays    int      `mapstructure:"expiry_days" yaml:"expiry_days"`
	Reusable      bool     `mapstructure:"reusable" yaml:"reusable"`
	Ephemeral     bool     `mapstructure:"ephemeral" yaml:"ephemeral"`
	Preauthorized bool     `mapstructure:"preauthorized" yaml:"preauthorized"`
	Tags          []string `mapstructure:"tags" yaml:"tags,omitempty"`
}

// ActionsConfig controls post-create CI workflow handling.
type ActionsConfig struct {
	TriggerWorkflow bool   `mapstructure:"trigger_workflow" yaml:"trigger_workflow"`
	WorkflowFile    string `mapstructure:"workflow_file" yaml:"workflow_file,omitempty"`

	// WaitWorkflowCompletion is accepted for forward compatibility but not
	// acted on.
	WaitWorkflowCompletion bool `mapstructure:"wait_workflow_completion" yaml:"wait_workflow_completion"`
}

// BackupConfig controls the local (and optional S3) backup of issued keys.
type BackupConfig struct {
	Enabled   bool     `mapstructure:"enabled" yaml:"enabled"`
	Directory string   `mapstructure:"directory" yaml:"directory,omitempty"`
	S3        S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config points key backups at an S3-compatible bucket.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
}

// HasIssuerSecrets reports whether any secret spec draws its values from the
// key issuer.
func (c *Config) HasIssuerSecrets() bool {
	for _, s := range c.Secrets.Specs {
		if s.Source == SourceIssuerAuto {
			return true
		}
	}
	return false
}
