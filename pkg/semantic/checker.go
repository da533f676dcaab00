package semantic

import "github.com/leapstack-labs/ttcnlint/pkg/ast"

// ExprType is the resolved type information of an expression.
// Symbol is nil for expressions that do not refer to a declaration, such
// as literals and arithmetic.
type ExprType struct {
	Symbol      *Symbol
	Restriction Restriction
}

// Checker resolves expression types. Rules use it; the engine never does.
type Checker interface {
	// ResolveExpr returns the type of expr evaluated in scope.
	ResolveExpr(scope *Scope, expr ast.Node) (ExprType, bool)

	// ResolveReturn returns the result type of a callable symbol.
	// It fails for callables without a return clause.
	ResolveReturn(fn *Symbol) (ExprType, bool)
}

// NewChecker returns the checker for the node subset modelled in pkg/ast.
func NewChecker(src string) Checker {
	return &checker{src: src}
}

type checker struct {
	src string
}

func (c *checker) ResolveExpr(scope *Scope, expr ast.Node) (ExprType, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		sym := scope.Resolve(ast.Text(c.src, e))
		if sym == nil {
			return ExprType{}, false
		}
		return ExprType{Symbol: sym, Restriction: sym.Restriction}, true
	case *ast.CallExpr:
		return c.ResolveExpr(scope, e.Fun)
	case *ast.SelectorExpr:
		start := ast.SelectorStart(e)
		if start.Kind() == ast.KindSelectorExpr {
			return ExprType{}, false
		}
		return c.ResolveExpr(scope, start)
	case *ast.IndexExpr:
		return c.ResolveExpr(scope, e.X)
	case *ast.ValueLiteral, *ast.BinaryExpr, *ast.UnaryExpr:
		return ExprType{}, true
	default:
		return ExprType{}, false
	}
}

func (c *checker) ResolveReturn(fn *Symbol) (ExprType, bool) {
	decl, ok := fn.Decl.(*ast.FuncDecl)
	if !ok || decl.Return == nil {
		return ExprType{}, false
	}
	r := RestrictionNone
	if decl.ReturnTemplate {
		r = RestrictionTemplate
	}
	return ExprType{Restriction: r}, true
}
