package unused

import (
	"maps"
	"regexp"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/semantic"
)

func init() {
	lint.Register(func() lint.Rule { return &NoUnusedVars{} })
}

// NoUnusedVars reports local variables and formal parameters that are
// never read inside functions, templates and the control part.
//
// Options:
//   - ignore_pattern: names matching this regular expression are skipped
type NoUnusedVars struct{}

func (*NoUnusedVars) Name() string                   { return "no-unused-vars" }
func (*NoUnusedVars) Description() string            { return "Variable or parameter is declared but never used." }
func (*NoUnusedVars) DefaultSeverity() core.Severity { return core.SeverityError }
func (*NoUnusedVars) ConfigKeys() []string           { return []string{"ignore_pattern"} }

func (r *NoUnusedVars) Exit(ctx *lint.Context) error {
	ignore, err := lint.GetRegexpOption(ctx.Options(r), "ignore_pattern")
	if err != nil {
		return err
	}
	c := &usageChecker{rule: r, ctx: ctx, ignore: ignore}
	for _, sym := range ctx.Module().Scope.Symbols.Enumerate() {
		if !sym.Flags.Has(semantic.FlagFunction|semantic.FlagTemplate|semantic.FlagControl) {
			continue
		}
		if sym.Originated != nil {
			c.checkScope(sym.Originated, nil)
		}
	}
	return nil
}

type usageChecker struct {
	rule   *NoUnusedVars
	ctx    *lint.Context
	ignore *regexp.Regexp
}

// checkScope reports the unread variables and parameters of scope. Names
// read in scope but declared further out are handed to outer.
func (c *usageChecker) checkScope(scope *semantic.Scope, outer map[string]bool) {
	used := make(map[string]bool)
	for _, child := range scope.Children() {
		c.checkScope(child, used)
	}

	sf := c.ctx.File()
	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FormalPars:
			return false
		case *ast.SelectorExpr:
			ast.Inspect(ast.SelectorStart(n), visit)
			return false
		case *ast.Declarator:
			if n.Value != nil {
				ast.Inspect(n.Value, visit)
			}
			return false
		case *ast.Ident:
			used[sf.Text(n)] = true
			return false
		}
		return true
	}
	if container := scope.Container(); container != nil {
		ast.Inspect(container, visit)
	}

	for _, sym := range scope.Symbols.Enumerate() {
		isArg := sym.Flags.Has(semantic.FlagArgument)
		if !isArg && !sym.Flags.Has(semantic.FlagVariable) {
			continue
		}
		if used[sym.Name] {
			delete(used, sym.Name)
			continue
		}
		if c.ignore != nil && c.ignore.MatchString(sym.Name) {
			continue
		}
		what := "variable"
		if isArg {
			what = "argument"
		}
		c.ctx.Reportf(c.rule, sym.NameNode().Range(), "%s '%s' is not used", what, sym.Name)
	}

	if outer != nil {
		maps.Copy(outer, used)
	}
}
