package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	_ "github.com/leapstack-labs/ttcnlint/pkg/lint/rules" // register rules
)

func TestBuiltinRulesRegistered(t *testing.T) {
	want := []string{
		"no-empty",
		"no-unnecessary-valueof",
		"no-unused-imports",
		"no-unused-vars",
		"prefer-const",
	}
	assert.Equal(t, want, lint.Names())

	l := lint.NewLinter()
	require.NoError(t, l.AddRegistered())

	infos := l.Rules()
	require.Len(t, infos, len(want))
	for i, info := range infos {
		assert.Equal(t, want[i], info.Name)
		assert.NotEmpty(t, info.Description)
		assert.Equal(t, "builtin", info.Type)
	}
}

func TestAddRegistered_Subset(t *testing.T) {
	l := lint.NewLinter(lint.WithConfig(lint.NewConfig().Disable("prefer-const")))

	require.NoError(t, l.AddRegistered("no-empty", "prefer-const"))

	infos := l.Rules()
	require.Len(t, infos, 1)
	assert.Equal(t, "no-empty", infos[0].Name)
}
