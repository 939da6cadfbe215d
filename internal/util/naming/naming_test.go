package naming

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCustomPrefix(t *testing.T) {
	t.Parallel()
	names, err := Generate(StrategyCustomPrefix, 3, Params{Prefix: "repo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"repo-01", "repo-02", "repo-03"}, names)
}

func TestGenerateSequentialPrefix(t *testing.T) {
	t.Parallel()
	names, err := Generate(StrategySequentialPrefix, 2, Params{Prefix: "project"})
	require.NoError(t, err)
	assert.Equal(t, []string{"project-01", "project-02"}, names)
}

func TestGenerateAutoGenerate(t *testing.T) {
	t.Parallel()
	names, err := Generate(StrategyAutoGenerate, 5, Params{})
	require.NoError(t, err)
	require.Len(t, names, 5)

	pattern := regexp.MustCompile(`^github-[a-z]+-\d{2}$`)
	seen := make(map[string]bool)
	for _, name := range names {
		assert.Regexp(t, pattern, name)
		assert.False(t, seen[name], "duplicate name %q", name)
		seen[name] = true
	}
}

func TestGenerateUniqueness(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		strategy string
		count    int
		params   Params
	}{
		{"auto generate full vocabulary cycle", StrategyAutoGenerate, 100, Params{}},
		{"custom prefix", StrategyCustomPrefix, 100, Params{Prefix: "bulk"}},
		{"sequential prefix", StrategySequentialPrefix, 50, Params{Prefix: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			names, err := Generate(tt.strategy, tt.count, tt.params)
			require.NoError(t, err)
			require.Len(t, names, tt.count)
			seen := make(map[string]bool)
			for _, name := range names {
				assert.NotEmpty(t, name)
				assert.False(t, seen[name], "duplicate name %q", name)
				seen[name] = true
			}
		})
	}
}

func TestGenerateCountDoesNotRepadBeyondTwoDigits(t *testing.T) {
	t.Parallel()
	names, err := Generate(StrategyCustomPrefix, 100, Params{Prefix: "repo"})
	require.NoError(t, err)
	assert.Equal(t, "repo-01", names[0])
	assert.Equal(t, "repo-100", names[99])
}

func TestGenerateImportFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\n\n  beta  \ngamma\ndelta\n"), 0o600))

	names, err := Generate(StrategyImportFile, 3, Params{NamesFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestGenerateImportFileTooFewNames(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("only-one\n"), 0o600))

	_, err := Generate(StrategyImportFile, 3, Params{NamesFile: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need 3")
}

func TestGenerateImportFileMissing(t *testing.T) {
	t.Parallel()
	_, err := Generate(StrategyImportFile, 2, Params{NamesFile: "/nonexistent/names.txt"})
	assert.Error(t, err)
}

func TestGenerateImportFileDuplicatesDisambiguated(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("repo\nrepo\nrepo\n"), 0o600))

	names, err := Generate(StrategyImportFile, 3, Params{NamesFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"repo", "repo-2", "repo-3"}, names)
}

func TestGenerateInvalidCount(t *testing.T) {
	t.Parallel()
	_, err := Generate(StrategyAutoGenerate, 0, Params{})
	assert.Error(t, err)
}

func TestValidateRepositoryName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "my-repo", false},
		{"underscores and digits", "repo_01", false},
		{"empty", "", true},
		{"spaces", "my repo", true},
		{"leading hyphen", "-repo", true},
		{"leading underscore", "_repo", true},
		{"special characters", "repo!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRepositoryName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
