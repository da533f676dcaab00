package ast_test

import (
	"testing"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a.b.c := 1 inside { }
func sampleTree() (*ast.BlockStmt, *ast.AssignmentExpr) {
	a := &ast.Ident{NodeBase: ast.At(2, 3)}
	ab := &ast.SelectorExpr{NodeBase: ast.At(2, 5), X: a, Sel: &ast.Ident{NodeBase: ast.At(4, 5)}}
	abc := &ast.SelectorExpr{NodeBase: ast.At(2, 7), X: ab, Sel: &ast.Ident{NodeBase: ast.At(6, 7)}}
	assign := &ast.AssignmentExpr{
		NodeBase: ast.At(2, 12),
		Property: abc,
		Value:    &ast.ValueLiteral{NodeBase: ast.At(11, 12)},
	}
	block := &ast.BlockStmt{
		NodeBase: ast.At(0, 15),
		Stmts:    []ast.Node{&ast.ExprStmt{NodeBase: ast.At(2, 13), X: assign}},
	}
	ast.Link(block)
	return block, assign
}

func TestInspect_Order(t *testing.T) {
	block, _ := sampleTree()

	var kinds []string
	ast.Inspect(block, func(n ast.Node) bool {
		kinds = append(kinds, n.Kind().String())
		return true
	})

	assert.Equal(t, []string{
		"BlockStmt", "ExprStmt", "AssignmentExpr", "SelectorExpr", "SelectorExpr",
		"Ident", "Ident", "Ident", "ValueLiteral",
	}, kinds)
}

func TestInspect_Prune(t *testing.T) {
	block, _ := sampleTree()

	visited := 0
	ast.Inspect(block, func(n ast.Node) bool {
		visited++
		return n.Kind() != ast.KindAssignmentExpr
	})

	assert.Equal(t, 3, visited)
}

func TestLink_SetsParents(t *testing.T) {
	block, assign := sampleTree()

	require.NotNil(t, assign.Parent())
	assert.Equal(t, ast.KindExprStmt, assign.Parent().Kind())
	assert.Same(t, block, ast.Enclosing(assign, ast.KindBlockStmt))
	assert.Nil(t, ast.Enclosing(assign, ast.KindFuncDecl))
	assert.Nil(t, block.Parent())
}

func TestSelectorStart(t *testing.T) {
	_, assign := sampleTree()

	start := ast.SelectorStart(assign.Property.(*ast.SelectorExpr))
	assert.Equal(t, "a", ast.Text("{ a.b.c := 1; }", start))
}

func TestChildren_SkipsNil(t *testing.T) {
	fn := &ast.FuncDecl{NodeBase: ast.At(0, 10), Name: &ast.Ident{NodeBase: ast.At(9, 10)}}

	assert.Len(t, fn.Children(), 1)
	assert.Equal(t, 1, ast.Count(fn, ast.KindIdent))
}

func TestParseKind(t *testing.T) {
	for _, k := range ast.Kinds() {
		got, ok := ast.ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ast.ParseKind("Nope")
	assert.False(t, ok)
}

func TestDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    ast.Direction
		mutates bool
	}{
		{"", ast.DirNone, false},
		{"in", ast.DirIn, false},
		{"out", ast.DirOut, true},
		{"inout", ast.DirInOut, true},
	}
	for _, tt := range tests {
		d, ok := ast.ParseDirection(tt.in)
		require.True(t, ok)
		assert.Equal(t, tt.want, d)
		assert.Equal(t, tt.mutates, d.Mutates())
		assert.Equal(t, tt.in, d.String())
	}
}
