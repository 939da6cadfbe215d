package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateV1AutoGenerate(t *testing.T) {
	t.Parallel()

	cfg, err := Load([]byte(`
github:
  token: ghp_test
repositories:
  count: 2
tailscale:
  api_key: tskey-api-test
  tailnet: example.com
auto_generate_tailscale: true
tailscale_secret_name: TS_KEY
`))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, cfg.Version)
	require.Len(t, cfg.Secrets.Specs, 1)
	assert.Equal(t, "TS_KEY", cfg.Secrets.Specs[0].Name)
	assert.Equal(t, SourceIssuerAuto, cfg.Secrets.Specs[0].Source)
}

func TestMigrateV1DefaultSecretName(t *testing.T) {
	t.Parallel()

	raw := map[string]interface{}{
		"auto_generate_tailscale": true,
	}
	out := Migrate(raw)

	secrets := out["secrets"].(map[string]interface{})
	specs := secrets["specs"].([]interface{})
	require.Len(t, specs, 1)
	assert.Equal(t, DefaultTailscaleSecret, specs[0].(map[string]interface{})["name"])
	assert.Equal(t, CurrentVersion, out["version"])
	assert.NotContains(t, out, "auto_generate_tailscale")
}

func TestMigrateProjectFolder(t *testing.T) {
	t.Parallel()

	raw := map[string]interface{}{
		"repositories": map[string]interface{}{
			"template": map[string]interface{}{
				"project_folder": "./src",
				"project_paths":  []interface{}{"./docs"},
			},
		},
	}
	out := Migrate(raw)

	tmpl := out["repositories"].(map[string]interface{})["template"].(map[string]interface{})
	assert.Equal(t, []interface{}{"./docs", "./src"}, tmpl["project_paths"])
	assert.NotContains(t, tmpl, "project_folder")
}

func TestMigrateIdempotent(t *testing.T) {
	t.Parallel()

	raw := map[string]interface{}{
		"version": 2,
		"secrets": map[string]interface{}{
			"specs": []interface{}{
				map[string]interface{}{"name": "TAILSCALE_AUTH_KEY", "source": "issuer_auto"},
			},
		},
		// Stray v1 field on a v2 config must not duplicate the secret entry.
		"auto_generate_tailscale": true,
	}
	out := Migrate(raw)

	specs := out["secrets"].(map[string]interface{})["specs"].([]interface{})
	assert.Len(t, specs, 1)
}

func TestMigrateNoSelfDuplication(t *testing.T) {
	t.Parallel()

	raw := map[string]interface{}{
		"auto_generate_tailscale": true,
		"secrets": map[string]interface{}{
			"specs": []interface{}{
				map[string]interface{}{"name": DefaultTailscaleSecret, "source": "issuer_auto"},
			},
		},
	}
	out := Migrate(raw)

	specs := out["secrets"].(map[string]interface{})["specs"].([]interface{})
	assert.Len(t, specs, 1)
}
