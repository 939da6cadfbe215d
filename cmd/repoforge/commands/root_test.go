package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootSubcommands(t *testing.T) {
	t.Parallel()

	root := Root()
	assert.Equal(t, "repoforge", root.Use)

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"run", "init", "validate", "keys", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestKeysSubcommands(t *testing.T) {
	t.Parallel()

	keys := Keys()
	var names []string
	for _, cmd := range keys.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"issue", "list", "delete", "backup"}, names)
}
