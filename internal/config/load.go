package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads, migrates, and validates the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	cfg, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Load parses and validates configuration from raw YAML bytes.
func Load(data []byte) (*Config, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// ParseFile reads and migrates the configuration without validating it.
// Commands that use only a slice of the config (the standalone key
// operations) parse and check the fields they depend on themselves.
func ParseFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, migrates, and applies defaults without validating.
func Parse(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}
	if rawConfig == nil {
		rawConfig = map[string]interface{}{}
	}

	rawConfig = Migrate(rawConfig)

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields with defaults and resolves credential
// fallbacks from the environment.
func (c *Config) ApplyDefaults() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.GitHub.Token == "" {
		c.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if c.Tailscale.APIKey == "" {
		c.Tailscale.APIKey = os.Getenv("TAILSCALE_API_KEY")
	}
	if c.Repositories.Naming.Strategy == "" {
		c.Repositories.Naming.Strategy = DefaultNamingStrategy
	}
	if c.Tailscale.Key.ExpiryDays == 0 {
		c.Tailscale.Key.ExpiryDays = DefaultKeyExpiryDays
	}
	if c.Actions.WorkflowFile == "" {
		c.Actions.WorkflowFile = DefaultWorkflowFile
	}
	if c.Repositories.Pages.Source == "" {
		c.Repositories.Pages.Source = DefaultPagesSource
	}
	if c.Backup.Directory == "" {
		c.Backup.Directory = DefaultBackupDirectory
	}
	if c.Backup.S3.Prefix == "" {
		c.Backup.S3.Prefix = DefaultS3BackupPrefix
	}
}

// WriteFile marshals the config to YAML and writes it with owner-only
// permissions, since it may contain credentials.
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
