package snapshot

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// Node is the serialized form of an ast.Node.
//
// Single-valued children are stored as one-element edges; absent
// children are omitted. Attrs carries the scalar fields: "public",
// "transit", "var", "const", "template", "return_template" (set to
// "true" when true), "keyword", "op" and "direction".
type Node struct {
	Kind  string             `json:"kind" msgpack:"kind"`
	Begin uint32             `json:"begin" msgpack:"begin"`
	End   uint32             `json:"end" msgpack:"end"`
	Attrs map[string]string  `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Edges map[string][]*Node `json:"edges,omitempty" msgpack:"edges,omitempty"`
}

func (n *Node) attr(key string) string { return n.Attrs[key] }
func (n *Node) flag(key string) bool   { return n.Attrs[key] == "true" }

func (n *Node) edge(name string) *Node {
	if es := n.Edges[name]; len(es) > 0 {
		return es[0]
	}
	return nil
}

// =============================================================================
// Encoding
// =============================================================================

type encoder struct {
	err error
}

// EncodeTree converts a syntax tree into its serialized form.
func EncodeTree(root ast.Node) (*Node, error) {
	var e encoder
	out := e.node(root)
	if e.err != nil {
		return nil, e.err
	}
	return out, nil
}

func (e *encoder) offset(v int) uint32 {
	u, err := safecast.Conv[uint32](v)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("%w: offset %d: %w", ErrMalformed, v, err)
	}
	return u
}

func (e *encoder) node(n ast.Node) *Node {
	if n == nil {
		return nil
	}
	rng := n.Range()
	out := &Node{Kind: n.Kind().String(), Begin: e.offset(rng.Begin), End: e.offset(rng.End)}

	switch n := n.(type) {
	case *ast.Root:
		edges(e, out, "modules", n.Modules...)
	case *ast.Module:
		edges(e, out, "name", n.Name)
		edges(e, out, "defs", n.Defs...)
	case *ast.ModuleDef:
		setFlag(out, "public", n.Public)
		edges(e, out, "def", n.Def)
	case *ast.ImportDecl:
		setFlag(out, "transit", n.Transit)
		edges(e, out, "module", n.Module)
	case *ast.ControlPart:
		edges(e, out, "body", n.Body)
	case *ast.FuncDecl:
		setAttr(out, "keyword", n.Keyword)
		setFlag(out, "return_template", n.ReturnTemplate)
		edges(e, out, "name", n.Name)
		edges(e, out, "params", n.Params)
		edges(e, out, "return", n.Return)
		edges(e, out, "body", n.Body)
	case *ast.FormalPars:
		edges(e, out, "list", n.List...)
	case *ast.FormalPar:
		setAttr(out, "direction", n.Direction.String())
		setFlag(out, "template", n.Template)
		edges(e, out, "type", n.Type)
		edges(e, out, "name", n.Name)
	case *ast.BlockStmt:
		edges(e, out, "stmts", n.Stmts...)
	case *ast.DeclStmt:
		edges(e, out, "decl", n.Decl)
	case *ast.ValueDecl:
		setFlag(out, "var", n.Var)
		setFlag(out, "const", n.Const)
		setFlag(out, "template", n.Template)
		edges(e, out, "type", n.Type)
		edges(e, out, "decls", n.Decls...)
	case *ast.Declarator:
		edges(e, out, "name", n.Name)
		edges(e, out, "value", n.Value)
	case *ast.ExprStmt:
		edges(e, out, "x", n.X)
	case *ast.IfStmt:
		edges(e, out, "cond", n.Cond)
		edges(e, out, "then", n.Then)
		edges(e, out, "else", n.Else)
	case *ast.WhileStmt:
		edges(e, out, "cond", n.Cond)
		edges(e, out, "body", n.Body)
	case *ast.ReturnStmt:
		edges(e, out, "result", n.Result)
	case *ast.AssignmentExpr:
		edges(e, out, "property", n.Property)
		edges(e, out, "value", n.Value)
	case *ast.CallExpr:
		edges(e, out, "fun", n.Fun)
		edges(e, out, "args", n.Args)
	case *ast.ParenExpr:
		edges(e, out, "list", n.List...)
	case *ast.SelectorExpr:
		edges(e, out, "x", n.X)
		edges(e, out, "sel", n.Sel)
	case *ast.IndexExpr:
		edges(e, out, "x", n.X)
		edges(e, out, "index", n.Index)
	case *ast.BinaryExpr:
		setAttr(out, "op", n.Op)
		edges(e, out, "x", n.X)
		edges(e, out, "y", n.Y)
	case *ast.UnaryExpr:
		setAttr(out, "op", n.Op)
		edges(e, out, "x", n.X)
	case *ast.ErrorNode, *ast.Ident, *ast.ValueLiteral:
	default:
		if e.err == nil {
			e.err = fmt.Errorf("%w: cannot encode %T", ErrUnknownKind, n)
		}
	}
	return out
}

// edges appends the non-nil nodes under name.
func edges[T ast.Node](e *encoder, out *Node, name string, ns ...T) {
	var zero T
	for _, n := range ns {
		if any(n) == any(zero) {
			continue
		}
		if out.Edges == nil {
			out.Edges = make(map[string][]*Node)
		}
		out.Edges[name] = append(out.Edges[name], e.node(n))
	}
}

func setAttr(out *Node, key, value string) {
	if value == "" {
		return
	}
	if out.Attrs == nil {
		out.Attrs = make(map[string]string)
	}
	out.Attrs[key] = value
}

func setFlag(out *Node, key string, on bool) {
	if on {
		setAttr(out, key, "true")
	}
}

// =============================================================================
// Decoding
// =============================================================================

// decoder rebuilds typed nodes. The first error sticks; later calls
// return zero values.
type decoder struct {
	srcLen int
	err    error
}

// DecodeTree rebuilds a syntax tree over a source text of length srcLen.
// Parents are not linked; program.NewSourceFile does that.
func DecodeTree(n *Node, srcLen int) (*ast.Root, error) {
	d := decoder{srcLen: srcLen}
	root := as[*ast.Root](&d, "root", n)
	if d.err != nil {
		return nil, d.err
	}
	return root, nil
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) base(n *Node) ast.NodeBase {
	b, err := safecast.Conv[int](n.Begin)
	if err != nil {
		d.fail("%s: begin: %v", n.Kind, err)
	}
	e, err := safecast.Conv[int](n.End)
	if err != nil {
		d.fail("%s: end: %v", n.Kind, err)
	}
	rng := core.Range{Begin: b, End: e}
	if !rng.Valid(d.srcLen) {
		d.fail("%s: range %s outside source of %d bytes", n.Kind, rng, d.srcLen)
	}
	return ast.Span(rng)
}

func (d *decoder) node(n *Node) ast.Node {
	if n == nil || d.err != nil {
		return nil
	}
	kind, ok := ast.ParseKind(n.Kind)
	if !ok {
		if d.err == nil {
			d.err = fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
		}
		return nil
	}
	b := d.base(n)

	switch kind {
	case ast.KindErrorNode:
		return &ast.ErrorNode{NodeBase: b}
	case ast.KindRoot:
		return &ast.Root{NodeBase: b, Modules: list[*ast.Module](d, n, "modules")}
	case ast.KindModule:
		return &ast.Module{NodeBase: b, Name: one[*ast.Ident](d, n, "name"), Defs: list[*ast.ModuleDef](d, n, "defs")}
	case ast.KindModuleDef:
		return &ast.ModuleDef{NodeBase: b, Public: n.flag("public"), Def: one[ast.Node](d, n, "def")}
	case ast.KindImportDecl:
		return &ast.ImportDecl{NodeBase: b, Transit: n.flag("transit"), Module: one[*ast.Ident](d, n, "module")}
	case ast.KindControlPart:
		return &ast.ControlPart{NodeBase: b, Body: one[*ast.BlockStmt](d, n, "body")}
	case ast.KindFuncDecl:
		return &ast.FuncDecl{
			NodeBase:       b,
			Keyword:        n.attr("keyword"),
			Name:           one[*ast.Ident](d, n, "name"),
			Params:         one[*ast.FormalPars](d, n, "params"),
			Return:         one[ast.Node](d, n, "return"),
			ReturnTemplate: n.flag("return_template"),
			Body:           one[*ast.BlockStmt](d, n, "body"),
		}
	case ast.KindFormalPars:
		return &ast.FormalPars{NodeBase: b, List: list[*ast.FormalPar](d, n, "list")}
	case ast.KindFormalPar:
		dir, ok := ast.ParseDirection(n.attr("direction"))
		if !ok {
			d.fail("FormalPar: unknown direction %q", n.attr("direction"))
		}
		return &ast.FormalPar{
			NodeBase:  b,
			Direction: dir,
			Template:  n.flag("template"),
			Type:      one[ast.Node](d, n, "type"),
			Name:      one[*ast.Ident](d, n, "name"),
		}
	case ast.KindBlockStmt:
		return &ast.BlockStmt{NodeBase: b, Stmts: list[ast.Node](d, n, "stmts")}
	case ast.KindDeclStmt:
		return &ast.DeclStmt{NodeBase: b, Decl: one[ast.Node](d, n, "decl")}
	case ast.KindValueDecl:
		return &ast.ValueDecl{
			NodeBase: b,
			Var:      n.flag("var"),
			Const:    n.flag("const"),
			Template: n.flag("template"),
			Type:     one[ast.Node](d, n, "type"),
			Decls:    list[*ast.Declarator](d, n, "decls"),
		}
	case ast.KindDeclarator:
		return &ast.Declarator{NodeBase: b, Name: one[*ast.Ident](d, n, "name"), Value: one[ast.Node](d, n, "value")}
	case ast.KindExprStmt:
		return &ast.ExprStmt{NodeBase: b, X: one[ast.Node](d, n, "x")}
	case ast.KindIfStmt:
		return &ast.IfStmt{
			NodeBase: b,
			Cond:     one[ast.Node](d, n, "cond"),
			Then:     one[*ast.BlockStmt](d, n, "then"),
			Else:     one[ast.Node](d, n, "else"),
		}
	case ast.KindWhileStmt:
		return &ast.WhileStmt{NodeBase: b, Cond: one[ast.Node](d, n, "cond"), Body: one[*ast.BlockStmt](d, n, "body")}
	case ast.KindReturnStmt:
		return &ast.ReturnStmt{NodeBase: b, Result: one[ast.Node](d, n, "result")}
	case ast.KindAssignmentExpr:
		return &ast.AssignmentExpr{NodeBase: b, Property: one[ast.Node](d, n, "property"), Value: one[ast.Node](d, n, "value")}
	case ast.KindCallExpr:
		return &ast.CallExpr{NodeBase: b, Fun: one[ast.Node](d, n, "fun"), Args: one[*ast.ParenExpr](d, n, "args")}
	case ast.KindParenExpr:
		return &ast.ParenExpr{NodeBase: b, List: list[ast.Node](d, n, "list")}
	case ast.KindSelectorExpr:
		return &ast.SelectorExpr{NodeBase: b, X: one[ast.Node](d, n, "x"), Sel: one[*ast.Ident](d, n, "sel")}
	case ast.KindIndexExpr:
		return &ast.IndexExpr{NodeBase: b, X: one[ast.Node](d, n, "x"), Index: one[ast.Node](d, n, "index")}
	case ast.KindBinaryExpr:
		return &ast.BinaryExpr{NodeBase: b, X: one[ast.Node](d, n, "x"), Op: n.attr("op"), Y: one[ast.Node](d, n, "y")}
	case ast.KindUnaryExpr:
		return &ast.UnaryExpr{NodeBase: b, Op: n.attr("op"), X: one[ast.Node](d, n, "x")}
	case ast.KindIdent:
		return &ast.Ident{NodeBase: b}
	case ast.KindValueLiteral:
		return &ast.ValueLiteral{NodeBase: b}
	}
	d.fail("unhandled kind %s", kind)
	return nil
}

// as decodes n and checks that it has the node type T.
func as[T ast.Node](d *decoder, where string, n *Node) T {
	var zero T
	v := d.node(n)
	if v == nil {
		return zero
	}
	t, ok := v.(T)
	if !ok {
		d.fail("%s: unexpected %s", where, v.Kind())
		return zero
	}
	return t
}

func one[T ast.Node](d *decoder, n *Node, edge string) T {
	return as[T](d, n.Kind+"."+edge, n.edge(edge))
}

func list[T ast.Node](d *decoder, n *Node, edge string) []T {
	es := n.Edges[edge]
	if len(es) == 0 {
		return nil
	}
	out := make([]T, 0, len(es))
	for _, c := range es {
		if v := as[T](d, n.Kind+"."+edge, c); d.err == nil {
			out = append(out, v)
		}
	}
	return out
}
