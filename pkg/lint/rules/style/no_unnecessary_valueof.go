package style

import (
	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/semantic"
)

func init() {
	lint.Register(func() lint.Rule { return &NoUnnecessaryValueof{} })
}

// NoUnnecessaryValueof reports valueof calls whose argument is not a
// template. The autofix replaces the call with its argument.
type NoUnnecessaryValueof struct{}

func (*NoUnnecessaryValueof) Name() string                   { return "no-unnecessary-valueof" }
func (*NoUnnecessaryValueof) Description() string            { return "valueof is applied to an expression that is already a value." }
func (*NoUnnecessaryValueof) DefaultSeverity() core.Severity { return core.SeverityWarning }
func (*NoUnnecessaryValueof) Fixable() bool                  { return true }

func (*NoUnnecessaryValueof) Register(match lint.MatcherRegistrar) {
	match(ast.KindCallExpr)
}

func (r *NoUnnecessaryValueof) Check(ctx *lint.Context, node ast.Node) error {
	call, ok := node.(*ast.CallExpr)
	if !ok || call.Args == nil || len(call.Args.List) != 1 {
		return nil
	}
	fun, ok := call.Fun.(*ast.Ident)
	if !ok || ctx.File().Text(fun) != "valueof" {
		return nil
	}

	md := ctx.Module()
	if md.Checker == nil {
		return nil
	}
	arg := call.Args.List[0]
	typ, ok := md.Checker.ResolveExpr(semantic.FindScope(md.Scope, call), arg)
	if !ok {
		return nil
	}
	if typ.Symbol != nil && typ.Symbol.Flags.Has(semantic.FlagTemplate) {
		return nil
	}
	if typ.Symbol != nil && typ.Symbol.Flags.Has(semantic.FlagFunction) {
		if typ, ok = md.Checker.ResolveReturn(typ.Symbol); !ok {
			return nil
		}
	}
	if typ.Restriction != semantic.RestrictionNone {
		return nil
	}

	fix := lint.Replace(call.Range(), ctx.File().Text(arg))
	ctx.Report(r, fun.Range(), "valueof's argument is already a value", fix)
	return nil
}
