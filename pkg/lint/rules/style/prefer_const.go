package style

import (
	"maps"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/semantic"
)

func init() {
	lint.Register(func() lint.Rule { return &PreferConst{} })
}

// PreferConst reports local variables that are never written after their
// declaration.
//
// A variable counts as written when it, or the root of a field access on
// it, is the target of an assignment, or when it is passed to an out or
// inout parameter of a function declared in the program.
type PreferConst struct{}

func (*PreferConst) Name() string                   { return "prefer-const" }
func (*PreferConst) Description() string            { return "Variable is never modified and can be made const." }
func (*PreferConst) DefaultSeverity() core.Severity { return core.SeverityWarning }

func (r *PreferConst) Exit(ctx *lint.Context) error {
	for _, sym := range ctx.Module().Scope.Symbols.Enumerate() {
		if sym.Flags.Has(semantic.FlagFunction) && sym.Originated != nil {
			r.checkScope(ctx, sym.Originated, nil)
		}
	}
	return nil
}

// checkScope reports the unwritten variables of scope. Written names that
// are not declared in scope are handed to outer.
func (r *PreferConst) checkScope(ctx *lint.Context, scope *semantic.Scope, outer map[string]bool) {
	written := make(map[string]bool)
	for _, child := range scope.Children() {
		r.checkScope(ctx, child, written)
	}

	sf := ctx.File()
	if container := scope.Container(); container != nil {
		ast.Inspect(container, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.AssignmentExpr:
				if id := assignedIdent(n.Property); id != nil {
					written[sf.Text(id)] = true
				}
			case *ast.CallExpr:
				for _, id := range mutatedArgs(ctx, scope, n) {
					written[sf.Text(id)] = true
				}
			}
			return true
		})
	}

	for _, sym := range scope.Symbols.Enumerate() {
		if !sym.Flags.Has(semantic.FlagVariable) {
			continue
		}
		if written[sym.Name] {
			delete(written, sym.Name)
			continue
		}
		ctx.Reportf(r, sym.Decl.Range(), "'%s' can be made const", sym.Name)
	}

	if outer != nil {
		maps.Copy(outer, written)
	}
}

// assignedIdent returns the variable written by an assignment target:
// the target itself or the root of a field access.
func assignedIdent(target ast.Node) *ast.Ident {
	switch t := target.(type) {
	case *ast.Ident:
		return t
	case *ast.SelectorExpr:
		id, _ := ast.SelectorStart(t).(*ast.Ident)
		return id
	case *ast.IndexExpr:
		return assignedIdent(t.X)
	}
	return nil
}

// mutatedArgs returns the identifiers passed to out and inout parameters.
func mutatedArgs(ctx *lint.Context, scope *semantic.Scope, call *ast.CallExpr) []*ast.Ident {
	if call.Args == nil {
		return nil
	}
	var (
		fn  *ast.FuncDecl
		out []*ast.Ident
	)
	for i, arg := range call.Args.List {
		id, ok := arg.(*ast.Ident)
		if !ok {
			continue
		}
		if fn == nil {
			sym := scope.Resolve(ctx.File().Text(call.Fun))
			if sym == nil || !sym.Flags.Has(semantic.FlagFunction) {
				return out
			}
			if fn, ok = sym.Decl.(*ast.FuncDecl); !ok || fn.Params == nil {
				return out
			}
		}
		if i >= len(fn.Params.List) {
			break
		}
		if fn.Params.List[i].Direction.Mutates() {
			out = append(out, id)
		}
	}
	return out
}
