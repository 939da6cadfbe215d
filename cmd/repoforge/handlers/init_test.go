package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeops/repoforge/internal/config"
)

func TestInitWritesConfig(t *testing.T) {
	orig := runWizard
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return &config.WizardResult{
			GitHubToken:  "ghp_test",
			Count:        "3",
			Strategy:     "CustomPrefix",
			Prefix:       "demo",
			SecretName:   "TAILSCALE_AUTH_KEY",
			TailscaleKey: "tskey-api-test",
			Tailnet:      "example.com",
			Backup:       true,
		}, nil
	}
	t.Cleanup(func() { runWizard = orig })

	outputPath := filepath.Join(t.TempDir(), "repoforge.yaml")
	require.NoError(t, Init(context.Background(), outputPath))

	cfg, err := config.LoadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Repositories.Count)
	assert.Equal(t, "demo", cfg.Repositories.Naming.Prefix)
	require.Len(t, cfg.Secrets.Specs, 1)
	assert.Equal(t, "TAILSCALE_AUTH_KEY", cfg.Secrets.Specs[0].Name)
	assert.Equal(t, config.SourceIssuerAuto, cfg.Secrets.Specs[0].Source)
	assert.True(t, cfg.Backup.Enabled)
}

func TestInitWizardAborted(t *testing.T) {
	orig := runWizard
	runWizard = func(context.Context) (*config.WizardResult, error) {
		return nil, errors.New("user aborted")
	}
	t.Cleanup(func() { runWizard = orig })

	outputPath := filepath.Join(t.TempDir(), "repoforge.yaml")
	err := Init(context.Background(), outputPath)
	require.Error(t, err)
	assert.False(t, fileExists(outputPath))
}
