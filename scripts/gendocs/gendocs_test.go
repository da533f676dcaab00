package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLintDocs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run("lint", dir, ""))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`no-unused-vars`](/rules/no-unused-vars)")
	assert.Contains(t, string(index), "DO NOT EDIT")

	page, err := os.ReadFile(filepath.Join(dir, "no-unused-vars.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "# no-unused-vars")
	assert.Contains(t, string(page), "ignore_pattern: ...")
	assert.Contains(t, string(page), "disabled: [no-unused-vars]")
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, run("cli", dir, ""))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "[`lint`](/cli/lint)")
	assert.Contains(t, string(index), "`TTCNLINT_LINT__DISABLED`")

	page, err := os.ReadFile(filepath.Join(dir, "lint.md"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "`--update-baseline`")
	assert.Contains(t, string(page), "ttcnlint lint [path...]")
}

func TestRun_Errors(t *testing.T) {
	assert.ErrorContains(t, run("schema", t.TempDir(), ""), "unknown -gen value")
	assert.ErrorContains(t, run("all", t.TempDir(), ""), "cannot be combined")
}

func TestMarkdownWriter_Table(t *testing.T) {
	w := NewMarkdownWriter()
	w.Table([]string{"A", "B"}, [][]string{{"x|y", "z"}})

	assert.Equal(t, "| A | B |\n| --- | --- |\n| x\\|y | z |\n\n", string(w.Bytes()))
}
