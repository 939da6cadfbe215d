package config

import (
	"fmt"
	"os"

	"github.com/forgeops/repoforge/internal/platform/github"
	"github.com/forgeops/repoforge/internal/util/naming"
)

// ValidStrategies contains the accepted repository naming strategies.
var ValidStrategies = map[string]bool{
	naming.StrategyAutoGenerate:     true,
	naming.StrategyCustomPrefix:     true,
	naming.StrategySequentialPrefix: true,
	naming.StrategyImportFile:       true,
}

// ValidPagesSources contains the accepted Pages source values.
var ValidPagesSources = map[string]bool{
	"main":     true,
	"docs":     true,
	"gh-pages": true,
}

// Validate performs all static checks: credentials present, repository count
// in range, naming parameters complete, local files readable, secret specs
// well formed. Live API checks belong to the pre-flight phase, not here.
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token is required (or set GITHUB_TOKEN)")
	}

	if c.Repositories.Count < MinRepositoryCount || c.Repositories.Count > MaxRepositoryCount {
		return fmt.Errorf("repositories.count must be between %d and %d, got %d",
			MinRepositoryCount, MaxRepositoryCount, c.Repositories.Count)
	}

	if err := c.validateNaming(); err != nil {
		return fmt.Errorf("naming validation failed: %w", err)
	}
	if err := c.validateSecrets(); err != nil {
		return fmt.Errorf("secrets validation failed: %w", err)
	}
	if err := c.validateFiles(); err != nil {
		return fmt.Errorf("file validation failed: %w", err)
	}
	if err := c.validateActions(); err != nil {
		return fmt.Errorf("actions validation failed: %w", err)
	}
	if err := c.validateBackup(); err != nil {
		return fmt.Errorf("backup validation failed: %w", err)
	}

	return nil
}

func (c *Config) validateNaming() error {
	n := c.Repositories.Naming
	if !ValidStrategies[n.Strategy] {
		return fmt.Errorf("invalid strategy %q: must be one of %v", n.Strategy, mapKeys(ValidStrategies))
	}

	switch n.Strategy {
	case naming.StrategyCustomPrefix, naming.StrategySequentialPrefix:
		if n.Prefix == "" {
			return fmt.Errorf("strategy %s requires a prefix", n.Strategy)
		}
		if err := naming.ValidateRepositoryName(n.Prefix); err != nil {
			return fmt.Errorf("invalid prefix: %w", err)
		}
	case naming.StrategyImportFile:
		if n.NamesFile == "" {
			return fmt.Errorf("strategy %s requires names_file", n.Strategy)
		}
		// Too few names in the file is a hard error, not a silent
		// truncation: the run must target exactly count repositories.
		if _, err := naming.Generate(n.Strategy, c.Repositories.Count, naming.Params{NamesFile: n.NamesFile}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateSecrets() error {
	for i, spec := range c.Secrets.Specs {
		if err := github.ValidateSecretName(spec.Name); err != nil {
			return fmt.Errorf("secret %d: %w", i, err)
		}
		switch spec.Source {
		case SourceIssuerAuto:
			if c.Tailscale.APIKey == "" || c.Tailscale.Tailnet == "" {
				return fmt.Errorf("secret %s uses issuer_auto but tailscale.api_key/tailnet are not configured", spec.Name)
			}
		case SourceConstant:
			if spec.Value == "" {
				return fmt.Errorf("secret %s uses constant source but has no value", spec.Name)
			}
		case SourceImportFile:
			if spec.FilePath == "" {
				return fmt.Errorf("secret %s uses import_file source but has no file_path", spec.Name)
			}
			if err := fileExists(spec.FilePath); err != nil {
				return fmt.Errorf("secret %s: %w", spec.Name, err)
			}
		default:
			return fmt.Errorf("secret %s has invalid source %q", spec.Name, spec.Source)
		}
	}

	if c.Secrets.SharedFile != "" {
		if err := fileExists(c.Secrets.SharedFile); err != nil {
			return fmt.Errorf("shared_file: %w", err)
		}
	}

	if c.Tailscale.Key.ExpiryDays < 1 {
		return fmt.Errorf("tailscale.key.expiry_days must be positive, got %d", c.Tailscale.Key.ExpiryDays)
	}
	return nil
}

func (c *Config) validateFiles() error {
	t := c.Repositories.Template
	if t.WorkflowFile != "" {
		if err := fileExists(t.WorkflowFile); err != nil {
			return fmt.Errorf("workflow_file: %w", err)
		}
	}
	if t.GitignoreFile != "" {
		if err := fileExists(t.GitignoreFile); err != nil {
			return fmt.Errorf("gitignore_file: %w", err)
		}
	}
	for _, p := range t.ProjectPaths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("project path %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) validateActions() error {
	// The trigger target is the uploaded template workflow when one is
	// configured, otherwise actions.workflow_file names a workflow the
	// repositories already carry.
	if c.Actions.TriggerWorkflow && c.Actions.WorkflowFile == "" && c.Repositories.Template.WorkflowFile == "" {
		return fmt.Errorf("trigger_workflow requires actions.workflow_file or repositories.template.workflow_file")
	}
	if !ValidPagesSources[c.Repositories.Pages.Source] {
		return fmt.Errorf("invalid pages source %q: must be one of %v",
			c.Repositories.Pages.Source, mapKeys(ValidPagesSources))
	}
	return nil
}

func (c *Config) validateBackup() error {
	s3 := c.Backup.S3
	if !s3.Enabled {
		return nil
	}
	if !c.Backup.Enabled {
		return fmt.Errorf("backup.s3.enabled requires backup.enabled")
	}
	if s3.Endpoint == "" || s3.Bucket == "" || s3.AccessKey == "" || s3.SecretKey == "" {
		return fmt.Errorf("backup.s3 requires endpoint, bucket, access_key, and secret_key")
	}
	return nil
}

func fileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file %s not accessible: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file", path)
	}
	return nil
}

// mapKeys returns the keys of a map as a slice for error messages.
func mapKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
