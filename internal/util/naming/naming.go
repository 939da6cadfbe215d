package naming

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Naming strategies.
const (
	// StrategyAutoGenerate combines a curated word list with a positional suffix.
	StrategyAutoGenerate = "AutoGenerate"
	// StrategyCustomPrefix produces {prefix}-{NN} from a user-supplied prefix.
	StrategyCustomPrefix = "CustomPrefix"
	// StrategySequentialPrefix produces {prefix}-{NN} from a project-style prefix.
	StrategySequentialPrefix = "SequentialPrefix"
	// StrategyImportFile reads names from a text file, one per line.
	StrategyImportFile = "ImportFile"
)

// Params carries the strategy-specific inputs.
type Params struct {
	// Prefix is used by CustomPrefix and SequentialPrefix.
	Prefix string
	// NamesFile is the path read by ImportFile.
	NamesFile string
}

// words is the curated vocabulary for AutoGenerate names.
var words = []string{
	"nexus", "vertex", "core", "edge", "flux", "quantum", "matrix", "prism",
	"cipher", "node", "apex", "zenith", "pixel", "debug", "spark", "forge",
	"pulse", "byte", "scope", "drift", "mesh", "sync", "lens", "vault",
	"atlas", "titan", "summit", "prime", "elite", "fusion", "beacon", "crown",
	"phoenix", "orbit", "stellar", "lunar", "solar", "cosmic", "nova", "azure",
	"echo", "vibe", "flow", "wave", "bloom", "craft", "shift", "twist",
	"glow", "rush", "dash", "leap", "rise", "zoom", "flex",
	"essence", "vision", "dream", "infinity", "harmony", "serenity", "clarity",
	"grace", "unity", "balance", "wisdom", "truth", "light", "hope",
}

var repoNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateRepositoryName checks that a name is acceptable to the hosting
// platform: alphanumerics, hyphens and underscores only, at most 100
// characters, and no leading hyphen or underscore.
func ValidateRepositoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if !repoNamePattern.MatchString(name) {
		return fmt.Errorf("repository name %q may only contain letters, numbers, hyphens, and underscores", name)
	}
	if len(name) > 100 {
		return fmt.Errorf("repository name %q is too long (max 100 characters)", name)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") {
		return fmt.Errorf("repository name %q cannot start with a hyphen or underscore", name)
	}
	return nil
}

// Generate returns exactly count unique names for the given strategy.
// Count must be positive. ImportFile returns an error when the file is
// unreadable or yields fewer than count usable names, so the caller can
// surface the problem before any remote call is made.
func Generate(strategy string, count int, params Params) ([]string, error) {
	if count < 1 {
		return nil, fmt.Errorf("name count must be positive, got %d", count)
	}

	switch strategy {
	case StrategyAutoGenerate:
		return autoGenerate(count), nil
	case StrategyCustomPrefix, StrategySequentialPrefix:
		prefix := params.Prefix
		if prefix == "" {
			prefix = "repo"
		}
		return sequential(prefix, count), nil
	case StrategyImportFile:
		return importFromFile(params.NamesFile, count)
	default:
		return sequential("repo", count), nil
	}
}

func autoGenerate(count int) []string {
	names := make([]string, 0, count)
	for i := range count {
		word := words[i%len(words)]
		names = append(names, fmt.Sprintf("github-%s-%02d", word, i+1))
	}
	return Deduplicate(names)
}

func sequential(prefix string, count int) []string {
	names := make([]string, 0, count)
	for i := range count {
		names = append(names, fmt.Sprintf("%s-%02d", prefix, i+1))
	}
	return names
}

func importFromFile(path string, count int) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("names file path is required for the ImportFile strategy")
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open names file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
		if len(names) == count {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}
	if len(names) < count {
		return nil, fmt.Errorf("names file %s has %d usable names, need %d", path, len(names), count)
	}
	return Deduplicate(names), nil
}

// Deduplicate enforces uniqueness within a run by appending a numeric
// disambiguator to repeated names. Order is preserved.
func Deduplicate(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s-%d", name, n+1)
		}
		seen[name] = 1
		out = append(out, name)
	}
	return out
}
