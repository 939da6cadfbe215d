package provisioning

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/forgeops/repoforge/internal/config"
)

// loadSecretSources pre-reads all file-backed secret inputs into the run
// state: one value list per import_file spec and the shared KEY=VALUE file.
func loadSecretSources(cfg *config.Config, run *Run) error {
	for _, spec := range cfg.Secrets.Specs {
		if spec.Source != config.SourceImportFile {
			continue
		}
		values, err := readLines(spec.FilePath)
		if err != nil {
			return fmt.Errorf("secret %s: %w", spec.Name, err)
		}
		run.FileValues[spec.Name] = values
	}

	if cfg.Secrets.SharedFile != "" {
		shared, err := parseSharedSecrets(cfg.Secrets.SharedFile)
		if err != nil {
			return fmt.Errorf("shared secrets: %w", err)
		}
		run.SharedSecrets = shared
	}
	return nil
}

// resolveSecret resolves the value of one secret spec for the repository at
// the given position. A false ok with a non-empty warning means the secret
// is skipped for this repository; the run continues.
func resolveSecret(spec config.SecretSpec, index int, run *Run) (value string, ok bool, warning string) {
	switch spec.Source {
	case config.SourceIssuerAuto:
		if index >= len(run.Keys) {
			return "", false, fmt.Sprintf(
				"not enough keys for secret %s: repository %d has no key (%d issued)",
				spec.Name, index+1, len(run.Keys))
		}
		return run.Keys[index], true, ""

	case config.SourceConstant:
		return spec.Value, true, ""

	case config.SourceImportFile:
		values := run.FileValues[spec.Name]
		if index >= len(values) {
			return "", false, fmt.Sprintf(
				"not enough values for secret %s: repository %d has no value (%d in file)",
				spec.Name, index+1, len(values))
		}
		return values[index], true, ""

	default:
		return "", false, fmt.Sprintf("secret %s has unknown source %q", spec.Name, spec.Source)
	}
}

// parseSharedSecrets reads a KEY=VALUE file, splitting each non-empty,
// non-comment line on the first "=". Order is preserved.
func parseSharedSecrets(path string) ([][2]string, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var secrets [][2]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("malformed line %q in %s: expected KEY=VALUE", line, path)
		}
		secrets = append(secrets, [2]string{strings.TrimSpace(key), value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return secrets, nil
}

func readLines(path string) ([]string, error) {
	// #nosec G304
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
