// Package programtest builds TTCN-3 source text and its syntax tree side by
// side, so tests can describe files without a parser.
//
//	b := programtest.New()
//	sf := b.File("a.ttcn", b.Module("A",
//		b.Import("B"),
//		b.Function("f", nil,
//			b.Var("integer", "x", b.Lit("1")),
//		),
//	))
//
// Node constructors return thunks; text is emitted when the enclosing
// Module runs them, so offsets always match the generated source.
package programtest

import (
	"strings"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// Def emits a module-level definition.
type Def func() *ast.ModuleDef

// Param emits a formal parameter.
type Param func() *ast.FormalPar

// Stmt emits a statement.
type Stmt func() ast.Node

// Expr emits an expression.
type Expr func() ast.Node

// Builder accumulates source text for one file.
type Builder struct {
	buf   strings.Builder
	depth int
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{}
}

// Source returns the text emitted so far.
func (b *Builder) Source() string {
	return b.buf.String()
}

// File wraps the emitted text and modules into a SourceFile.
func (b *Builder) File(path string, mods ...*ast.Module) *program.SourceFile {
	src := b.buf.String()
	root := &ast.Root{NodeBase: ast.At(0, len(src)), Modules: mods}
	return program.NewSourceFile(path, src, root, nil)
}

// Program adds the files to a new Set and resolves it.
func Program(files ...*program.SourceFile) *program.Set {
	set := program.NewSet()
	for _, sf := range files {
		if err := set.Add(sf); err != nil {
			panic(err)
		}
	}
	set.Resolve()
	return set
}

func (b *Builder) pos() int      { return b.buf.Len() }
func (b *Builder) emit(s string) { b.buf.WriteString(s) }
func (b *Builder) newline()      { b.emit("\n" + strings.Repeat("  ", b.depth)) }
func (b *Builder) at(begin int) ast.NodeBase {
	return ast.At(begin, b.pos())
}

func (b *Builder) ident(name string) *ast.Ident {
	begin := b.pos()
	b.emit(name)
	return &ast.Ident{NodeBase: b.at(begin)}
}

// =============================================================================
// Module level
// =============================================================================

// Module emits `module name { defs }`, one definition per line.
func (b *Builder) Module(name string, defs ...Def) *ast.Module {
	begin := b.pos()
	b.emit("module ")
	m := &ast.Module{Name: b.ident(name)}
	b.emit(" {\n")
	for _, d := range defs {
		m.Defs = append(m.Defs, d())
		b.emit("\n")
	}
	b.emit("}")
	m.NodeBase = b.at(begin)
	b.emit("\n")
	return m
}

func (b *Builder) def(public bool, body func() ast.Node) Def {
	return func() *ast.ModuleDef {
		begin := b.pos()
		if public {
			b.emit("public ")
		}
		n := body()
		b.emit(";")
		return &ast.ModuleDef{NodeBase: b.at(begin), Public: public, Def: n}
	}
}

func (b *Builder) importDecl(name string, transit bool) func() ast.Node {
	return func() ast.Node {
		begin := b.pos()
		b.emit("import from ")
		id := b.ident(name)
		if transit {
			b.emit(" { import all }")
		} else {
			b.emit(" all")
		}
		return &ast.ImportDecl{NodeBase: b.at(begin), Module: id, Transit: transit}
	}
}

// Import emits `import from name all;`.
func (b *Builder) Import(name string) Def {
	return b.def(false, b.importDecl(name, false))
}

// PublicImport emits `public import from name all;`.
func (b *Builder) PublicImport(name string) Def {
	return b.def(true, b.importDecl(name, false))
}

// TransitImport emits `import from name { import all };`.
func (b *Builder) TransitImport(name string) Def {
	return b.def(false, b.importDecl(name, true))
}

// Const emits a module-level constant.
func (b *Builder) Const(typ, name string, value Expr) Def {
	return b.def(false, func() ast.Node {
		return b.valueDecl("const", &ast.ValueDecl{Const: true}, typ, name, value)
	})
}

// Template emits a module-level template.
func (b *Builder) Template(typ, name string, value Expr) Def {
	return b.def(false, func() ast.Node {
		return b.valueDecl("template", &ast.ValueDecl{Template: true}, typ, name, value)
	})
}

// Function emits a function without return clause.
func (b *Builder) Function(name string, params []Param, body ...Stmt) Def {
	return b.function(name, "", false, params, body)
}

// FunctionReturning emits a function with `return [template] ret`.
func (b *Builder) FunctionReturning(name, ret string, template bool, params []Param, body ...Stmt) Def {
	return b.function(name, ret, template, params, body)
}

func (b *Builder) function(name, ret string, template bool, params []Param, body []Stmt) Def {
	return b.def(false, func() ast.Node {
		begin := b.pos()
		b.emit("function ")
		fn := &ast.FuncDecl{Keyword: "function", Name: b.ident(name)}
		fn.Params = b.params(params)
		if ret != "" {
			b.emit(" return ")
			if template {
				b.emit("template ")
				fn.ReturnTemplate = true
			}
			fn.Return = b.ident(ret)
		}
		b.emit(" ")
		fn.Body = b.block(body)
		fn.NodeBase = b.at(begin)
		return fn
	})
}

// Control emits the module control part.
func (b *Builder) Control(body ...Stmt) Def {
	return b.def(false, func() ast.Node {
		begin := b.pos()
		b.emit("control ")
		blk := b.block(body)
		return &ast.ControlPart{NodeBase: b.at(begin), Body: blk}
	})
}

func (b *Builder) params(params []Param) *ast.FormalPars {
	begin := b.pos()
	b.emit("(")
	pars := &ast.FormalPars{}
	for i, p := range params {
		if i > 0 {
			b.emit(", ")
		}
		pars.List = append(pars.List, p())
	}
	b.emit(")")
	pars.NodeBase = b.at(begin)
	return pars
}

// Params collects parameters for Function.
func Params(ps ...Param) []Param {
	return ps
}

// Param emits `[dir] typ name`.
func (b *Builder) Param(dir ast.Direction, typ, name string) Param {
	return b.param(dir, false, typ, name)
}

// TemplateParam emits `[dir] template typ name`.
func (b *Builder) TemplateParam(dir ast.Direction, typ, name string) Param {
	return b.param(dir, true, typ, name)
}

func (b *Builder) param(dir ast.Direction, template bool, typ, name string) Param {
	return func() *ast.FormalPar {
		begin := b.pos()
		if dir != ast.DirNone {
			b.emit(dir.String() + " ")
		}
		if template {
			b.emit("template ")
		}
		p := &ast.FormalPar{Direction: dir, Template: template}
		p.Type = b.ident(typ)
		b.emit(" ")
		p.Name = b.ident(name)
		p.NodeBase = b.at(begin)
		return p
	}
}

// =============================================================================
// Statements
// =============================================================================

func (b *Builder) block(stmts []Stmt) *ast.BlockStmt {
	begin := b.pos()
	b.emit("{")
	blk := &ast.BlockStmt{}
	b.depth++
	for _, s := range stmts {
		b.newline()
		blk.Stmts = append(blk.Stmts, s())
	}
	b.depth--
	if len(stmts) > 0 {
		b.newline()
	}
	b.emit("}")
	blk.NodeBase = b.at(begin)
	return blk
}

func (b *Builder) valueDecl(kw string, vd *ast.ValueDecl, typ, name string, value Expr) *ast.ValueDecl {
	begin := b.pos()
	b.emit(kw + " ")
	vd.Type = b.ident(typ)
	b.emit(" ")
	dbegin := b.pos()
	d := &ast.Declarator{Name: b.ident(name)}
	if value != nil {
		b.emit(" := ")
		d.Value = value()
	}
	d.NodeBase = b.at(dbegin)
	vd.Decls = []*ast.Declarator{d}
	vd.NodeBase = b.at(begin)
	return vd
}

func (b *Builder) declStmt(kw string, vd *ast.ValueDecl, typ, name string, value Expr) Stmt {
	return func() ast.Node {
		begin := b.pos()
		decl := b.valueDecl(kw, vd, typ, name, value)
		b.emit(";")
		return &ast.DeclStmt{NodeBase: b.at(begin), Decl: decl}
	}
}

// Var emits `var typ name [:= value];`.
func (b *Builder) Var(typ, name string, value Expr) Stmt {
	return b.declStmt("var", &ast.ValueDecl{Var: true}, typ, name, value)
}

// VarTemplate emits `var template typ name [:= value];`.
func (b *Builder) VarTemplate(typ, name string, value Expr) Stmt {
	return b.declStmt("var template", &ast.ValueDecl{Var: true, Template: true}, typ, name, value)
}

// LocalConst emits `const typ name := value;`.
func (b *Builder) LocalConst(typ, name string, value Expr) Stmt {
	return b.declStmt("const", &ast.ValueDecl{Const: true}, typ, name, value)
}

// Assign emits `target := value;`.
func (b *Builder) Assign(target, value Expr) Stmt {
	return func() ast.Node {
		begin := b.pos()
		ae := &ast.AssignmentExpr{Property: target()}
		b.emit(" := ")
		ae.Value = value()
		ae.NodeBase = b.at(begin)
		b.emit(";")
		return &ast.ExprStmt{NodeBase: b.at(begin), X: ae}
	}
}

// Do emits an expression statement `x;`.
func (b *Builder) Do(x Expr) Stmt {
	return func() ast.Node {
		begin := b.pos()
		n := x()
		b.emit(";")
		return &ast.ExprStmt{NodeBase: b.at(begin), X: n}
	}
}

// Block emits a nested block.
func (b *Builder) Block(stmts ...Stmt) Stmt {
	return func() ast.Node {
		return b.block(stmts)
	}
}

// If emits `if (cond) { then }`.
func (b *Builder) If(cond Expr, then ...Stmt) Stmt {
	return func() ast.Node {
		begin := b.pos()
		b.emit("if (")
		s := &ast.IfStmt{Cond: cond()}
		b.emit(") ")
		s.Then = b.block(then)
		s.NodeBase = b.at(begin)
		return s
	}
}

// While emits `while (cond) { body }`.
func (b *Builder) While(cond Expr, body ...Stmt) Stmt {
	return func() ast.Node {
		begin := b.pos()
		b.emit("while (")
		s := &ast.WhileStmt{Cond: cond()}
		b.emit(") ")
		s.Body = b.block(body)
		s.NodeBase = b.at(begin)
		return s
	}
}

// Return emits `return [x];`.
func (b *Builder) Return(x Expr) Stmt {
	return func() ast.Node {
		begin := b.pos()
		b.emit("return")
		s := &ast.ReturnStmt{}
		if x != nil {
			b.emit(" ")
			s.Result = x()
		}
		b.emit(";")
		s.NodeBase = b.at(begin)
		return s
	}
}

// =============================================================================
// Expressions
// =============================================================================

// Ident emits an identifier.
func (b *Builder) Ident(name string) Expr {
	return func() ast.Node { return b.ident(name) }
}

// Lit emits a literal.
func (b *Builder) Lit(text string) Expr {
	return func() ast.Node {
		begin := b.pos()
		b.emit(text)
		return &ast.ValueLiteral{NodeBase: b.at(begin)}
	}
}

// Call emits `fun(args)`.
func (b *Builder) Call(fun string, args ...Expr) Expr {
	return func() ast.Node {
		begin := b.pos()
		ce := &ast.CallExpr{Fun: b.ident(fun)}
		pbegin := b.pos()
		b.emit("(")
		pe := &ast.ParenExpr{}
		for i, a := range args {
			if i > 0 {
				b.emit(", ")
			}
			pe.List = append(pe.List, a())
		}
		b.emit(")")
		pe.NodeBase = b.at(pbegin)
		ce.Args = pe
		ce.NodeBase = b.at(begin)
		return ce
	}
}

// Select emits `x.sel`.
func (b *Builder) Select(x Expr, sel string) Expr {
	return func() ast.Node {
		begin := b.pos()
		se := &ast.SelectorExpr{X: x()}
		b.emit(".")
		se.Sel = b.ident(sel)
		se.NodeBase = b.at(begin)
		return se
	}
}

// Binary emits `x op y`.
func (b *Builder) Binary(x Expr, op string, y Expr) Expr {
	return func() ast.Node {
		begin := b.pos()
		be := &ast.BinaryExpr{X: x(), Op: op}
		b.emit(" " + op + " ")
		be.Y = y()
		be.NodeBase = b.at(begin)
		return be
	}
}
