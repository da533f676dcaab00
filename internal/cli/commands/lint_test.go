package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ttcnlint/internal/cli/config"
	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
	"github.com/leapstack-labs/ttcnlint/internal/testutil"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
	"github.com/leapstack-labs/ttcnlint/pkg/program/programtest"
)

const countFunctionsScript = `
name = "count-functions"
severity = "info"

def exit(ctx):
    funcs = ctx.nodes("FuncDecl")
    if funcs:
        ctx.report(funcs[0], "%d functions in %s" % (len(funcs), ctx.module))
`

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func decodeLint(t *testing.T, res result) output.LintOutput {
	t.Helper()
	var doc output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(res.out), &doc), res.out)
	return doc
}

func TestNewLintCommand(t *testing.T) {
	cmd := NewLintCommand()

	assert.Equal(t, "lint [path...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)

	for _, flag := range []string{"fix", "jobs", "baseline", "update-baseline", "watch", "disable", "rule", "script"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestLint_ReportsProblems(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)

	res := runCommand(t, testConfig(), output.ModeText, NewLintCommand(), snap)

	assert.Equal(t, ExitFindings, ExitCode(res.err))
	assert.Contains(t, res.out, "a.ttcn\n")
	assert.Contains(t, res.out, "  2:1  error  imported module 'B' is not used directly  no-unused-imports\n")
	assert.Contains(t, res.out, "1 problem (1 errors, 0 warnings, 0 info, 0 hints)")
	assert.NotContains(t, res.out, "b.ttcn")
	assert.Empty(t, res.errOut)
}

func TestLint_Clean(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)

	res := runCommand(t, testConfig(), output.ModeText, NewLintCommand(), "--disable", "no-unused-imports", snap)

	require.NoError(t, res.err)
	assert.Equal(t, "no problems found\n", res.out)
}

func TestLint_ConfigSeverityAndDisable(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)

	cfg := testConfig()
	cfg.Lint = &config.LintConfig{Severity: map[string]string{"no-unused-imports": "hint"}}
	res := runCommand(t, cfg, output.ModeJSON, NewLintCommand(), snap)

	assert.Equal(t, ExitFindings, ExitCode(res.err))
	doc := decodeLint(t, res)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "hint", doc.Files[0].Problems[0].Severity)
	assert.Equal(t, 1, doc.Summary.Hints)

	cfg.Lint.Disabled = []string{"no-unused-imports"}
	res = runCommand(t, cfg, output.ModeJSON, NewLintCommand(), snap)
	require.NoError(t, res.err)
	assert.Zero(t, decodeLint(t, res).Summary.Problems)
}

func TestLint_JSON(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.json", a, b)

	res := runCommand(t, testConfig(), output.ModeJSON, NewLintCommand(), snap)

	assert.Equal(t, ExitFindings, ExitCode(res.err))
	doc := decodeLint(t, res)
	assert.Equal(t, output.LintSummary{Files: 2, Problems: 1, Errors: 1}, doc.Summary)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "a.ttcn", doc.Files[0].Path)

	p := doc.Files[0].Problems[0]
	assert.Equal(t, "no-unused-imports", p.Rule)
	assert.Equal(t, "error", p.Severity)
	assert.Equal(t, 2, p.Line)
	assert.Equal(t, 1, p.Column)
	assert.True(t, p.Fixable)
	assert.Equal(t, "import from B all", a.AST.Src[p.Begin:p.End])
}

func TestLint_Fix(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)

	res := runCommand(t, testConfig(), output.ModeText, NewLintCommand(), "--fix", "--rule", "no-unused-imports", snap)

	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Fixed 1 problem\n")
	assert.Contains(t, res.out, "no problems found")

	fixed, err := os.ReadFile(filepath.Join(dir, "a.ttcn"))
	require.NoError(t, err)
	assert.NotContains(t, string(fixed), "import from B")
	assert.True(t, strings.HasPrefix(string(fixed), "module A {\n"))

	_, err = os.Stat(filepath.Join(dir, "b.ttcn"))
	assert.ErrorIs(t, err, os.ErrNotExist, "files without fixes are not written")
}

func TestLint_SkipsAsnAndSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	a, b := library()

	xb := programtest.New()
	asn := xb.File("types.asn", xb.Module("X", xb.Import("B")))

	cb := programtest.New()
	broken := cb.File("c.ttcn", cb.Module("C", cb.Import("B")))
	broken.AST.Errors = []program.SyntaxError{{Range: core.Range{Begin: 0, End: 1}, Message: "unexpected token"}}

	snap := writeSnapshot(t, dir, "program.ttsnap", a, b, asn, broken)

	res := runCommand(t, testConfig(), output.ModeJSON, NewLintCommand(), snap)

	assert.Equal(t, ExitError, ExitCode(res.err))
	doc := decodeLint(t, res)
	assert.Equal(t, 2, doc.Summary.Files)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "a.ttcn", doc.Files[0].Path)
	assert.Equal(t, []string{"c.ttcn:1:1: syntax error: unexpected token"}, doc.Errors)
}

func TestLint_Baseline(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)

	cfg := testConfig()
	cfg.Baseline = filepath.Join(dir, ".ttcnlint", "baseline.db")

	res := runCommand(t, cfg, output.ModeText, NewLintCommand(), snap)
	assert.Equal(t, ExitFindings, ExitCode(res.err), "a missing baseline suppresses nothing")
	assert.NoFileExists(t, cfg.Baseline)

	res = runCommand(t, cfg, output.ModeText, NewLintCommand(), "--update-baseline", snap)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Baseline updated: 1 problem recorded")
	assert.FileExists(t, cfg.Baseline)

	res = runCommand(t, cfg, output.ModeText, NewLintCommand(), snap)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "1 problem suppressed by baseline")
	assert.Contains(t, res.out, "no problems found")

	// A new problem in another module is still reported.
	cb := programtest.New()
	c := cb.File("c.ttcn", cb.Module("C", cb.Import("B")))
	a, b = library()
	snap = writeSnapshot(t, dir, "program.ttsnap", a, b, c)

	res = runCommand(t, cfg, output.ModeJSON, NewLintCommand(), snap)
	assert.Equal(t, ExitFindings, ExitCode(res.err))
	doc := decodeLint(t, res)
	assert.Equal(t, 1, doc.Summary.Suppressed)
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "c.ttcn", doc.Files[0].Path)
}

func TestLint_Scripts(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)
	script := writeScript(t, dir, "count.star", countFunctionsScript)

	check := func(t *testing.T, res result) {
		t.Helper()
		assert.Equal(t, ExitFindings, ExitCode(res.err))
		doc := decodeLint(t, res)
		var got []string
		for _, f := range doc.Files {
			for _, p := range f.Problems {
				assert.Equal(t, "info", p.Severity)
				got = append(got, p.Description)
			}
		}
		assert.Equal(t, []string{"1 functions in A", "1 functions in B"}, got)
	}

	t.Run("from flag", func(t *testing.T) {
		res := runCommand(t, testConfig(), output.ModeJSON, NewLintCommand(), "--rule", "count-functions", "--script", script, snap)
		check(t, res)
	})

	t.Run("from config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Lint = &config.LintConfig{Scripts: []string{script}}
		res := runCommand(t, cfg, output.ModeJSON, NewLintCommand(), "--rule", "count-functions", snap)
		check(t, res)
	})
}

func TestLint_RuleFailure(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)
	script := writeScript(t, dir, "boom.star", `
name = "boom"

def exit(ctx):
    fail("boom")
`)

	res := runCommand(t, testConfig(), output.ModeText, NewLintCommand(), "--script", script, snap)

	assert.Equal(t, ExitError, ExitCode(res.err))
	assert.Contains(t, res.errOut, "a.ttcn: rule boom failed during exit")
	assert.Contains(t, res.errOut, "b.ttcn: rule boom failed during exit")
	assert.Contains(t, res.out, "imported module 'B' is not used directly", "healthy rules still report")
}

func TestLint_Errors(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	snap := writeSnapshot(t, dir, "program.ttsnap", a, b)
	garbage := filepath.Join(dir, "garbage.ttsnap")
	require.NoError(t, os.WriteFile(garbage, []byte("not msgpack"), 0o600))
	badScript := writeScript(t, dir, "bad.star", "name = 1\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
		wantOut string
	}{
		{name: "missing input", args: []string{filepath.Join(dir, "missing.ttsnap")}, wantErr: "failed to stat"},
		{name: "unknown rule", args: []string{"--rule", "nope", snap}, wantErr: `unknown rule "nope"`},
		{name: "update without baseline", args: []string{"--update-baseline", snap}, wantErr: "requires a baseline path"},
		{name: "bad script", args: []string{"--script", badScript, snap}, wantErr: "bad.star"},
		{name: "unreadable snapshot", args: []string{garbage}, wantOut: "garbage.ttsnap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCommand(t, testConfig(), output.ModeText, NewLintCommand(), tt.args...)
			assert.Equal(t, ExitError, ExitCode(res.err))
			if tt.wantErr != "" {
				require.Error(t, res.err)
				assert.Contains(t, res.err.Error(), tt.wantErr)
			}
			if tt.wantOut != "" {
				assert.Contains(t, res.errOut, tt.wantOut)
			}
		})
	}
}

func TestCollectSnapshots(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o750))
	second := writeSnapshot(t, filepath.Join(dir, "sub"), "b.ttsnap", a, b)
	first := writeSnapshot(t, dir, "a.TTSNAP", a, b)
	explicit := writeSnapshot(t, dir, "explicit.json", a, b)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	files, err := collectSnapshots([]string{dir, explicit})

	require.NoError(t, err)
	assert.Equal(t, []string{first, second, explicit}, files)
}

func TestLintFiles_KeepsOrder(t *testing.T) {
	var files []*program.SourceFile
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		b := programtest.New()
		files = append(files, b.File(strings.ToLower(name)+".ttcn", b.Module(name, b.Function("f", nil, b.Block()))))
	}
	programtest.Program(files...)

	targets := make([]lintTarget, 0, len(files))
	for _, sf := range files {
		targets = append(targets, lintTarget{snapshot: "p.ttsnap", file: sf})
	}

	l := lint.NewLinter(lint.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, l.AddRegistered("no-empty"))

	results, err := lintFiles(context.Background(), l, targets, 3)

	require.NoError(t, err)
	require.Len(t, results, len(targets))
	for i, res := range results {
		assert.Same(t, targets[i].file, res.target.file)
		assert.Equal(t, 1, res.problems.Len())
		assert.NoError(t, res.err)
	}
}

func TestSourcePath(t *testing.T) {
	sf := program.NewSourceFile("src/a.ttcn", "", nil, nil)
	assert.Equal(t, filepath.Join("build", "src", "a.ttcn"), sourcePath(lintTarget{snapshot: filepath.Join("build", "p.ttsnap"), file: sf}))

	abs := program.NewSourceFile("/abs/a.ttcn", "", nil, nil)
	assert.Equal(t, "/abs/a.ttcn", sourcePath(lintTarget{snapshot: "build/p.ttsnap", file: abs}))
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "x", "y"), 0o750))
	file := filepath.Join(dir, "x", "p.ttsnap")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	got := watchDirs([]string{dir, file, filepath.Join(dir, "missing")})

	assert.Equal(t, []string{dir, filepath.Join(dir, "x"), filepath.Join(dir, "x", "y")}, got)
}

func TestLint_Watch(t *testing.T) {
	dir := t.TempDir()
	a, b := library()
	writeSnapshot(t, dir, "program.ttsnap", a, b)

	var out, errOut lockedBuffer
	r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeText)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = WithRuntime(ctx, testConfig(), testutil.NewTestLogger(t), r)

	cmd := NewLintCommand()
	cmd.SetArgs([]string{"--watch", "--rule", "no-unused-imports", dir})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "1 problem")
	}, 5*time.Second, 10*time.Millisecond)

	ab := programtest.New()
	clean := ab.File("a.ttcn", ab.Module("A", ab.Function("f", nil)))
	_, b = library()
	writeSnapshot(t, dir, "program.ttsnap", clean, b)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "no problems found")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), "Change detected, linting again")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
