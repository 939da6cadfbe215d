package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/forgeops/repoforge/internal/platform/github"
	"github.com/forgeops/repoforge/internal/util/naming"
)

// WizardResult holds the user's choices from the setup wizard.
type WizardResult struct {
	GitHubToken     string
	Count           string
	Strategy        string
	Prefix          string
	SecretName      string
	TailscaleKey    string
	Tailnet         string
	TriggerWorkflow bool
	Backup          bool
}

// RunWizard runs the interactive configuration wizard and returns the chosen
// settings as a WizardResult.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		Count:      "5",
		Strategy:   naming.StrategyAutoGenerate,
		SecretName: DefaultTailscaleSecret,
	}

	form := huh.NewForm(
		// Repository host credentials
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub token").
				Description("Personal access token with repo scope. Leave empty to use GITHUB_TOKEN.").
				EchoMode(huh.EchoModePassword).
				Value(&result.GitHubToken),
		),

		// Repository plan
		huh.NewGroup(
			huh.NewInput().
				Title("Repository count").
				Description(fmt.Sprintf("How many repositories to create (%d-%d)", MinRepositoryCount, MaxRepositoryCount)).
				Value(&result.Count).
				Validate(validateCountInput),

			huh.NewSelect[string]().
				Title("Naming strategy").
				Options(
					huh.NewOption("Auto-generated names (github-<word>-NN)", naming.StrategyAutoGenerate),
					huh.NewOption("Custom prefix (<prefix>-NN)", naming.StrategyCustomPrefix),
					huh.NewOption("Sequential prefix (<prefix>-NN)", naming.StrategySequentialPrefix),
					huh.NewOption("Import names from a file", naming.StrategyImportFile),
				).
				Value(&result.Strategy),
		),

		// Prefix, only for prefix-based strategies
		huh.NewGroup(
			huh.NewInput().
				Title("Repository name prefix").
				Placeholder("my-project").
				Value(&result.Prefix).
				Validate(validatePrefixInput),
		).WithHideFunc(func() bool {
			return result.Strategy != naming.StrategyCustomPrefix &&
				result.Strategy != naming.StrategySequentialPrefix
		}),

		// Key-issuer secret
		huh.NewGroup(
			huh.NewInput().
				Title("Secret name").
				Description("Actions secret that receives each repository's auth key").
				Value(&result.SecretName).
				Validate(github.ValidateSecretName),

			huh.NewInput().
				Title("Tailscale API key").
				Description("Leave empty to use TAILSCALE_API_KEY.").
				EchoMode(huh.EchoModePassword).
				Value(&result.TailscaleKey),

			huh.NewInput().
				Title("Tailnet name").
				Placeholder("example.com").
				Value(&result.Tailnet),
		),

		// Post-create behavior
		huh.NewGroup(
			huh.NewConfirm().
				Title("Trigger CI workflow after provisioning?").
				Value(&result.TriggerWorkflow),

			huh.NewConfirm().
				Title("Back up issued keys to a local file?").
				Value(&result.Backup),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard result into a full Config with defaults
// applied.
func (r *WizardResult) ToConfig() *Config {
	count, _ := strconv.Atoi(r.Count)

	cfg := &Config{
		Version: CurrentVersion,
		GitHub:  GitHubConfig{Token: r.GitHubToken},
		Repositories: RepositoriesConfig{
			Count: count,
			Naming: NamingConfig{
				Strategy: r.Strategy,
				Prefix:   r.Prefix,
			},
			Private:   true,
			AutoInit:  true,
			HasIssues: true,
		},
		Tailscale: TailscaleConfig{
			APIKey:  r.TailscaleKey,
			Tailnet: r.Tailnet,
			Key: KeyConfig{
				ExpiryDays:    DefaultKeyExpiryDays,
				Preauthorized: true,
			},
		},
		Actions: ActionsConfig{TriggerWorkflow: r.TriggerWorkflow},
		Backup:  BackupConfig{Enabled: r.Backup},
	}

	if r.SecretName != "" {
		cfg.Secrets.Specs = []SecretSpec{{
			Name:   r.SecretName,
			Source: SourceIssuerAuto,
		}}
	}

	cfg.ApplyDefaults()
	return cfg
}

// validateCountInput validates the wizard's repository-count field.
func validateCountInput(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < MinRepositoryCount || n > MaxRepositoryCount {
		return fmt.Errorf("must be between %d and %d", MinRepositoryCount, MaxRepositoryCount)
	}
	return nil
}

// validatePrefixInput validates the wizard's prefix field. Empty is allowed
// here because the group is hidden for non-prefix strategies.
func validatePrefixInput(s string) error {
	if s == "" {
		return nil
	}
	return naming.ValidateRepositoryName(s)
}
