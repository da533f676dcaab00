package starlark

import (
	"fmt"
	"maps"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// ScriptRule is a lint rule implemented by a Starlark file.
//
// Hooks receive a ctx struct with the fields file, module, options and
// imports, and the functions report(target, message, replacement=None),
// text(target) and nodes(kind). A target is a node or a (begin, end)
// tuple of byte offsets.
type ScriptRule struct {
	path        string
	name        string
	description string
	severity    core.Severity
	fixable     bool
	kinds       []ast.NodeKind
	defaults    map[string]any
	check       starlark.Callable
	exit        starlark.Callable
	pool        *ThreadPool
}

func (r *ScriptRule) Name() string                   { return r.name }
func (r *ScriptRule) Description() string            { return r.description }
func (r *ScriptRule) DefaultSeverity() core.Severity { return r.severity }
func (r *ScriptRule) Fixable() bool                  { return r.fixable }
func (r *ScriptRule) RuleType() string               { return "script" }

// Path returns the file the rule was loaded from.
func (r *ScriptRule) Path() string { return r.path }

// ConfigKeys lists the options the script declares defaults for.
func (r *ScriptRule) ConfigKeys() []string {
	return slices.Sorted(maps.Keys(r.defaults))
}

func (r *ScriptRule) Register(match lint.MatcherRegistrar) {
	for _, k := range r.kinds {
		match(k)
	}
}

func (r *ScriptRule) Check(ctx *lint.Context, node ast.Node) error {
	if r.check == nil {
		return nil
	}
	return r.call(ctx, r.check, nodeValue(ctx.File(), node))
}

func (r *ScriptRule) Exit(ctx *lint.Context) error {
	if r.exit == nil {
		return nil
	}
	return r.call(ctx, r.exit)
}

func (r *ScriptRule) call(ctx *lint.Context, fn starlark.Callable, extra ...starlark.Value) error {
	sctx, err := r.contextValue(ctx)
	if err != nil {
		return err
	}

	thread := r.pool.Get(r.name)
	defer r.pool.Put(thread)

	args := append(starlark.Tuple{sctx}, extra...)
	if _, err := starlark.Call(thread, fn, args, nil); err != nil {
		return fmt.Errorf("%s: %w", r.path, err)
	}
	return nil
}

// options merges the configured options over the script defaults.
func (r *ScriptRule) options(ctx *lint.Context) map[string]any {
	out := make(map[string]any, len(r.defaults))
	maps.Copy(out, r.defaults)
	maps.Copy(out, ctx.Options(r))
	return out
}

func (r *ScriptRule) contextValue(ctx *lint.Context) (starlark.Value, error) {
	sf := ctx.File()
	opts, err := GoToStarlark(r.options(ctx))
	if err != nil {
		return nil, fmt.Errorf("options of %s: %w", r.name, err)
	}

	report := starlark.NewBuiltin("report", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			target      starlark.Value
			message     string
			replacement starlark.Value = starlark.None
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "target", &target, "message", &message, "replacement?", &replacement); err != nil {
			return nil, err
		}
		rng, err := rangeOf(target, len(sf.AST.Src))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		var fix *lint.Autofix
		switch repl := replacement.(type) {
		case starlark.NoneType:
		case starlark.String:
			fix = lint.Replace(rng, string(repl))
		default:
			return nil, fmt.Errorf("%s: replacement must be a string or None, got %s", b.Name(), replacement.Type())
		}
		return starlark.Bool(ctx.Report(r, rng, message, fix)), nil
	})

	text := starlark.NewBuiltin("text", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var target starlark.Value
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &target); err != nil {
			return nil, err
		}
		rng, err := rangeOf(target, len(sf.AST.Src))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return starlark.String(rng.Text(sf.AST.Src)), nil
	})

	nodes := starlark.NewBuiltin("nodes", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &name); err != nil {
			return nil, err
		}
		kind, ok := ast.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown node kind %q", b.Name(), name)
		}
		var out []starlark.Value
		ast.Inspect(sf.AST.Root, func(n ast.Node) bool {
			if n.Kind() == kind {
				out = append(out, nodeValue(sf, n))
			}
			return true
		})
		return starlark.NewList(out), nil
	})

	return starlarkstruct.FromStringDict(starlark.String("ctx"), starlark.StringDict{
		"file":    starlark.String(sf.Path),
		"module":  starlark.String(ctx.Module().Name),
		"options": opts,
		"imports": importsValue(ctx.Module()),
		"report":  report,
		"text":    text,
		"nodes":   nodes,
	}), nil
}

func importsValue(md *program.ModuleDescriptor) starlark.Value {
	list := make([]starlark.Value, 0, len(md.Imports))
	for _, imp := range md.Imports {
		node := starlark.Value(starlark.None)
		if imp.Decl != nil && md.File != nil {
			node = nodeValue(md.File, imp.Decl)
		}
		list = append(list, starlarkstruct.FromStringDict(starlark.String("import"), starlark.StringDict{
			"module":  starlark.String(imp.Module),
			"public":  starlark.Bool(imp.Public),
			"transit": starlark.Bool(imp.Transit),
			"used":    starlark.Bool(md.Dependencies[imp.Module]),
			"node":    node,
		}))
	}
	return starlark.NewList(list)
}
