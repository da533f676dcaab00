package style

import (
	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
)

func init() {
	lint.Register(func() lint.Rule { return &NoEmpty{} })
}

// NoEmpty reports statement blocks that contain nothing. Only blocks
// nested directly in another block are reported; the body of a function
// or an if statement may legitimately be empty.
type NoEmpty struct{}

func (*NoEmpty) Name() string                   { return "no-empty" }
func (*NoEmpty) Description() string            { return "Nested block has no statements." }
func (*NoEmpty) DefaultSeverity() core.Severity { return core.SeverityWarning }

func (*NoEmpty) Register(match lint.MatcherRegistrar) {
	match(ast.KindBlockStmt)
}

func (r *NoEmpty) Check(ctx *lint.Context, node ast.Node) error {
	b, ok := node.(*ast.BlockStmt)
	if !ok || len(b.Stmts) > 0 {
		return nil
	}
	if parent := b.Parent(); parent == nil || parent.Kind() != ast.KindBlockStmt {
		return nil
	}
	ctx.Report(r, b.Range(), "empty block", nil)
	return nil
}
