package config

// Migrate rewrites a raw version-1 config map into the version-2 shape.
// It runs once at load time, before decoding, and is idempotent: version-2
// input is returned unchanged.
//
// Version 1 carried three flat fields that version 2 expresses structurally:
//
//   - auto_generate_tailscale: true  → a secrets.specs entry with source
//     issuer_auto
//   - tailscale_secret_name          → that entry's name (default
//     TAILSCALE_AUTH_KEY)
//   - repositories.template.project_folder (singular) → project_paths
func Migrate(raw map[string]interface{}) map[string]interface{} {
	if version(raw) >= CurrentVersion {
		return raw
	}

	migrateAutoGenerate(raw)
	migrateProjectFolder(raw)
	raw["version"] = CurrentVersion

	delete(raw, "auto_generate_tailscale")
	delete(raw, "tailscale_secret_name")
	return raw
}

func version(raw map[string]interface{}) int {
	switch v := raw["version"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 1
	}
}

func migrateAutoGenerate(raw map[string]interface{}) {
	auto, _ := raw["auto_generate_tailscale"].(bool)
	if !auto {
		return
	}

	name := DefaultTailscaleSecret
	if n, ok := raw["tailscale_secret_name"].(string); ok && n != "" {
		name = n
	}

	secrets, _ := raw["secrets"].(map[string]interface{})
	if secrets == nil {
		secrets = map[string]interface{}{}
		raw["secrets"] = secrets
	}
	specs, _ := secrets["specs"].([]interface{})
	for _, s := range specs {
		if spec, ok := s.(map[string]interface{}); ok && spec["name"] == name {
			return // already migrated
		}
	}
	secrets["specs"] = append(specs, map[string]interface{}{
		"name":   name,
		"source": string(SourceIssuerAuto),
	})
}

func migrateProjectFolder(raw map[string]interface{}) {
	repos, _ := raw["repositories"].(map[string]interface{})
	if repos == nil {
		return
	}
	tmpl, _ := repos["template"].(map[string]interface{})
	if tmpl == nil {
		return
	}
	folder, ok := tmpl["project_folder"].(string)
	if !ok || folder == "" {
		delete(tmpl, "project_folder")
		return
	}

	paths, _ := tmpl["project_paths"].([]interface{})
	tmpl["project_paths"] = append(paths, folder)
	delete(tmpl, "project_folder")
}
