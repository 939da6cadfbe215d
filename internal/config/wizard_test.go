package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCountInput(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateCountInput("1"))
	assert.NoError(t, validateCountInput("100"))
	assert.Error(t, validateCountInput("0"))
	assert.Error(t, validateCountInput("101"))
	assert.Error(t, validateCountInput("five"))
	assert.Error(t, validateCountInput(""))
}

func TestValidatePrefixInput(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validatePrefixInput(""))
	assert.NoError(t, validatePrefixInput("my-project"))
	assert.Error(t, validatePrefixInput("-bad"))
	assert.Error(t, validatePrefixInput("has space"))
}

func TestWizardResultToConfig(t *testing.T) {
	result := &WizardResult{
		GitHubToken:     "ghp_test",
		Count:           "4",
		Strategy:        "CustomPrefix",
		Prefix:          "demo",
		SecretName:      "TAILSCALE_AUTH_KEY",
		TailscaleKey:    "tskey-api-test",
		Tailnet:         "example.com",
		TriggerWorkflow: false,
		Backup:          true,
	}

	cfg := result.ToConfig()
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, 4, cfg.Repositories.Count)
	assert.Equal(t, "demo", cfg.Repositories.Naming.Prefix)
	assert.True(t, cfg.Repositories.Private)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, DefaultKeyExpiryDays, cfg.Tailscale.Key.ExpiryDays)
	require.Len(t, cfg.Secrets.Specs, 1)
	assert.Equal(t, SourceIssuerAuto, cfg.Secrets.Specs[0].Source)

	require.NoError(t, cfg.Validate())
}
