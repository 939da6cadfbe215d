package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		GitHub:  GitHubConfig{Token: "ghp_test"},
		Repositories: RepositoriesConfig{
			Count:  3,
			Naming: NamingConfig{Strategy: "AutoGenerate"},
		},
		Tailscale: TailscaleConfig{
			APIKey:  "tskey-api-test",
			Tailnet: "example.com",
			Key:     KeyConfig{ExpiryDays: 90},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidateBase(t *testing.T) {
	assert.NoError(t, baseConfig().Validate())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing token",
			mutate:  func(c *Config) { c.GitHub.Token = "" },
			wantErr: "github.token is required",
		},
		{
			name:    "count too low",
			mutate:  func(c *Config) { c.Repositories.Count = 0 },
			wantErr: "between 1 and 100",
		},
		{
			name:    "count too high",
			mutate:  func(c *Config) { c.Repositories.Count = 101 },
			wantErr: "between 1 and 100",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Repositories.Naming.Strategy = "Fancy" },
			wantErr: "invalid strategy",
		},
		{
			name:    "prefix strategy without prefix",
			mutate:  func(c *Config) { c.Repositories.Naming.Strategy = "CustomPrefix" },
			wantErr: "requires a prefix",
		},
		{
			name: "invalid prefix",
			mutate: func(c *Config) {
				c.Repositories.Naming.Strategy = "CustomPrefix"
				c.Repositories.Naming.Prefix = "-bad"
			},
			wantErr: "invalid prefix",
		},
		{
			name:    "import strategy without file",
			mutate:  func(c *Config) { c.Repositories.Naming.Strategy = "ImportFile" },
			wantErr: "requires names_file",
		},
		{
			name: "invalid secret name",
			mutate: func(c *Config) {
				c.Secrets.Specs = []SecretSpec{{Name: "my-key", Source: SourceConstant, Value: "v"}}
			},
			wantErr: "secret 0",
		},
		{
			name: "constant secret without value",
			mutate: func(c *Config) {
				c.Secrets.Specs = []SecretSpec{{Name: "MY_KEY", Source: SourceConstant}}
			},
			wantErr: "has no value",
		},
		{
			name: "issuer secret without credentials",
			mutate: func(c *Config) {
				c.Tailscale.APIKey = ""
				c.Secrets.Specs = []SecretSpec{{Name: "MY_KEY", Source: SourceIssuerAuto}}
			},
			wantErr: "issuer_auto",
		},
		{
			name: "unknown secret source",
			mutate: func(c *Config) {
				c.Secrets.Specs = []SecretSpec{{Name: "MY_KEY", Source: "guess"}}
			},
			wantErr: "invalid source",
		},
		{
			name: "import secret without path",
			mutate: func(c *Config) {
				c.Secrets.Specs = []SecretSpec{{Name: "MY_KEY", Source: SourceImportFile}}
			},
			wantErr: "has no file_path",
		},
		{
			name:    "missing shared file",
			mutate:  func(c *Config) { c.Secrets.SharedFile = "/does/not/exist" },
			wantErr: "shared_file",
		},
		{
			name:    "zero expiry",
			mutate:  func(c *Config) { c.Tailscale.Key.ExpiryDays = -1 },
			wantErr: "expiry_days",
		},
		{
			name:    "missing workflow file",
			mutate:  func(c *Config) { c.Repositories.Template.WorkflowFile = "/does/not/exist.yml" },
			wantErr: "workflow_file",
		},
		{
			name: "trigger without any workflow file",
			mutate: func(c *Config) {
				c.Actions.TriggerWorkflow = true
				c.Actions.WorkflowFile = ""
			},
			wantErr: "trigger_workflow requires",
		},
		{
			name:    "bad pages source",
			mutate:  func(c *Config) { c.Repositories.Pages.Source = "wiki" },
			wantErr: "pages source",
		},
		{
			name: "s3 without backup",
			mutate: func(c *Config) {
				c.Backup.S3.Enabled = true
				c.Backup.S3.Endpoint = "https://s3.example.com"
				c.Backup.S3.Bucket = "b"
				c.Backup.S3.AccessKey = "a"
				c.Backup.S3.SecretKey = "s"
			},
			wantErr: "requires backup.enabled",
		},
		{
			name: "s3 missing credentials",
			mutate: func(c *Config) {
				c.Backup.Enabled = true
				c.Backup.S3.Enabled = true
			},
			wantErr: "backup.s3 requires",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateImportFileTooFewNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o600))

	cfg := baseConfig()
	cfg.Repositories.Count = 3
	cfg.Repositories.Naming.Strategy = "ImportFile"
	cfg.Repositories.Naming.NamesFile = path

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "2")
}

func TestValidateTriggerPreexistingWorkflow(t *testing.T) {
	cfg := baseConfig()
	cfg.Actions.TriggerWorkflow = true

	// No template workflow configured; the default actions.workflow_file
	// names a workflow the repositories already carry.
	assert.NoError(t, cfg.Validate())
}

func TestValidateWithRealFiles(t *testing.T) {
	dir := t.TempDir()
	workflow := filepath.Join(dir, "ci.yml")
	require.NoError(t, os.WriteFile(workflow, []byte("on: workflow_dispatch\n"), 0o600))
	shared := filepath.Join(dir, "secrets.env")
	require.NoError(t, os.WriteFile(shared, []byte("API_URL=https://example.com\n"), 0o600))

	cfg := baseConfig()
	cfg.Repositories.Template.WorkflowFile = workflow
	cfg.Secrets.SharedFile = shared
	cfg.Actions.TriggerWorkflow = true

	assert.NoError(t, cfg.Validate())
}
