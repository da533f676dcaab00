package starlark_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ttcnlint/internal/testutil"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/lint/starlark"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
	"github.com/leapstack-labs/ttcnlint/pkg/program/programtest"
)

const emptyBlockScript = `
name = "no-empty-block"
description = "Flags empty nested blocks"
kinds = ["BlockStmt"]

def check(ctx, node):
    if node.parent == "BlockStmt" and ctx.text(node) == "{}":
        ctx.report(node, "empty block in " + ctx.module)
`

func load(t *testing.T, src string) *starlark.ScriptRule {
	t.Helper()
	l := starlark.NewLoader(starlark.WithLogger(testutil.NewTestLogger(t)))
	rule, err := l.LoadSource("rule.star", []byte(src))
	require.NoError(t, err)
	return rule
}

func lintWith(t *testing.T, sf *program.SourceFile, rule lint.Rule, cfg *lint.Config) (lint.ProblemSet, *lint.Linter, error) {
	t.Helper()
	l := lint.NewLinter(lint.WithLogger(testutil.NewTestLogger(t)), lint.WithConfig(cfg))
	require.NoError(t, l.Add(rule))
	problems, err := l.Lint(sf)
	return problems, l, err
}

func sample() *program.SourceFile {
	b := programtest.New()
	sf := b.File("m.ttcn", b.Module("M",
		b.Function("f", nil,
			b.Block(),
			b.Do(b.Call("old")),
		),
		b.Function("g", nil),
	))
	programtest.Program(sf)
	return sf
}

func TestLoader_LoadSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "syntax error", src: "name = ", wantMsg: "Starlark execution error"},
		{name: "missing name", src: "def exit(ctx):\n    pass\n", wantMsg: "non-empty name"},
		{name: "name not a string", src: "name = 1\n", wantMsg: "name must be a string"},
		{name: "bad severity", src: "name = \"r\"\nseverity = \"fatal\"\ndef exit(ctx):\n    pass\n", wantMsg: `invalid severity "fatal"`},
		{name: "fixable not bool", src: "name = \"r\"\nfixable = \"yes\"\ndef exit(ctx):\n    pass\n", wantMsg: "fixable must be a bool"},
		{name: "unknown kind", src: "name = \"r\"\nkinds = [\"Nope\"]\ndef check(ctx, node):\n    pass\n", wantMsg: `unknown node kind "Nope"`},
		{name: "defaults not a dict", src: "name = \"r\"\ndefaults = [1]\ndef exit(ctx):\n    pass\n", wantMsg: "defaults must be a dict"},
		{name: "no hooks", src: "name = \"r\"\n", wantMsg: "must define check(ctx, node) or exit(ctx)"},
		{name: "check without kinds", src: "name = \"r\"\ndef check(ctx, node):\n    pass\n", wantMsg: "check requires a non-empty kinds list"},
		{name: "kinds without check", src: "name = \"r\"\nkinds = [\"Ident\"]\ndef exit(ctx):\n    pass\n", wantMsg: "kinds is set but check is not defined"},
		{name: "wrong arity", src: "name = \"r\"\ndef exit(ctx, extra):\n    pass\n", wantMsg: "exit must take 1 parameters"},
		{name: "hook not a function", src: "name = \"r\"\nexit = 3\n", wantMsg: "exit must be a function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := starlark.NewLoader().LoadSource("bad.star", []byte(tt.src))

			var loadErr *starlark.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "bad.star", loadErr.File)
			assert.Contains(t, loadErr.Message, tt.wantMsg)
		})
	}
}

func TestLoader_Metadata(t *testing.T) {
	rule := load(t, `
name = "meta"
severity = "hint"
fixable = True
defaults = {"limit": 3, "words": ["a", "b"]}

def exit(ctx):
    pass
`)

	assert.Equal(t, "meta", rule.Name())
	assert.Equal(t, "Scripted rule rule.star", rule.Description())
	assert.Equal(t, core.SeverityHint, rule.DefaultSeverity())
	assert.True(t, rule.Fixable())
	assert.Equal(t, "script", rule.RuleType())
	assert.Equal(t, "rule.star", rule.Path())
	assert.Equal(t, []string{"limit", "words"}, rule.ConfigKeys())

	l := lint.NewLinter()
	require.NoError(t, l.Add(rule))
	info := l.Rules()[0]
	assert.True(t, info.WholeFile)
	assert.Equal(t, "script", info.Type)
	assert.Equal(t, core.SeverityHint, l.Severity("meta"))
}

func TestScriptRule_Check(t *testing.T) {
	sf := sample()

	problems, l, err := lintWith(t, sf, load(t, emptyBlockScript), nil)
	require.NoError(t, err)
	assert.Equal(t, core.SeverityWarning, l.Severity("no-empty-block"))

	require.Equal(t, 1, problems.Len())
	p := problems.Sorted()[0]
	assert.Equal(t, "empty block in M", p.Description)
	assert.Equal(t, "no-empty-block", p.Reporter)
	assert.Equal(t, "{}", p.Range.Text(sf.AST.Src))
	assert.Nil(t, p.Autofix)
}

func TestScriptRule_ExitWithOptions(t *testing.T) {
	script := `
name = "too-many-functions"
defaults = {"limit": 1}

def exit(ctx):
    funcs = ctx.nodes("FuncDecl")
    if len(funcs) > ctx.options["limit"]:
        ctx.report(funcs[-1], "%d functions, limit is %d" % (len(funcs), ctx.options["limit"]))
`
	t.Run("defaults apply", func(t *testing.T) {
		problems, _, err := lintWith(t, sample(), load(t, script), nil)
		require.NoError(t, err)
		require.Equal(t, 1, problems.Len())
		assert.Equal(t, "2 functions, limit is 1", problems.Sorted()[0].Description)
	})

	t.Run("configured options override defaults", func(t *testing.T) {
		cfg := lint.NewConfig().SetOptions("too-many-functions", core.RuleOptions{"limit": 5})
		problems, _, err := lintWith(t, sample(), load(t, script), cfg)
		require.NoError(t, err)
		assert.Zero(t, problems.Len())
	})
}

func TestScriptRule_ReplacementFix(t *testing.T) {
	script := `
name = "rename-old"
fixable = True
kinds = ["Ident"]

def check(ctx, node):
    if node.name == "old":
        ctx.report(node, "use new()", "new")
`
	sf := sample()
	problems, l, err := lintWith(t, sf, load(t, script), nil)
	require.NoError(t, err)
	require.Equal(t, 1, problems.Fixable())

	res, err := l.Fix(sf, problems)

	require.NoError(t, err)
	assert.Contains(t, res.Source, "new();")
	assert.NotContains(t, res.Source, "old")
}

func TestScriptRule_OffsetTargets(t *testing.T) {
	script := `
name = "first-word"

def exit(ctx):
    ok = ctx.report((0, 6), "starts with " + ctx.text((0, 6)))
    dup = ctx.report((0, 6), "again")
    if ok and not dup:
        ctx.report((7, 8), "dedup works")
`
	problems, _, err := lintWith(t, sample(), load(t, script), nil)
	require.NoError(t, err)

	var got []string
	for _, p := range problems.Sorted() {
		got = append(got, p.Description)
	}
	assert.Equal(t, []string{"starts with module", "dedup works"}, got)
}

func TestScriptRule_Failures(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		opts    []starlark.LoaderOption
		wantMsg string
	}{
		{
			name:    "fail()",
			script:  "name = \"boom\"\ndef exit(ctx):\n    fail(\"boom\")\n",
			wantMsg: "boom",
		},
		{
			name:    "invalid range",
			script:  "name = \"bad-range\"\ndef exit(ctx):\n    ctx.report((5, 2), \"x\")\n",
			wantMsg: "report",
		},
		{
			name:    "bad replacement",
			script:  "name = \"bad-fix\"\ndef exit(ctx):\n    ctx.report((0, 1), \"x\", 3)\n",
			wantMsg: "replacement must be a string or None",
		},
		{
			name:    "step limit",
			script:  "name = \"spin\"\ndef exit(ctx):\n    for i in range(1000000):\n        pass\n",
			opts:    []starlark.LoaderOption{starlark.WithMaxSteps(1000)},
			wantMsg: "too many steps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := starlark.NewLoader(tt.opts...).LoadSource("rule.star", []byte(tt.script))
			require.NoError(t, err)

			_, _, err = lintWith(t, sample(), rule, nil)

			var ruleErr *lint.RuleError
			require.ErrorAs(t, err, &ruleErr)
			assert.Equal(t, lint.PhaseExit, ruleErr.Phase)
			assert.False(t, ruleErr.Panicked)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Contains(t, err.Error(), "rule.star")
		})
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))

	write := func(path, name string) {
		src := "name = \"" + name + "\"\ndef exit(ctx):\n    pass\n"
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	write(filepath.Join(dir, "b.star"), "rule-b")
	write(filepath.Join(dir, "a.star"), "rule-a")
	write(filepath.Join(nested, "c.star"), "rule-c")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	single := filepath.Join(t.TempDir(), "single.star")
	write(single, "single")

	rules, err := starlark.NewLoader().Load(dir, single)
	require.NoError(t, err)

	var names []string
	for _, r := range rules {
		names = append(names, r.Name())
	}
	assert.Equal(t, []string{"rule-a", "rule-b", "rule-c", "single"}, names)

	t.Run("missing path", func(t *testing.T) {
		_, err := starlark.NewLoader().Load(filepath.Join(dir, "missing"))
		var loadErr *starlark.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Contains(t, loadErr.Message, "failed to stat")
	})
}
