package semantic

import "github.com/leapstack-labs/ttcnlint/pkg/ast"

// Bind builds the scope tree of a module. Names are read from src.
// The returned scope is the module scope; its import scope is attached
// later by the program once every module is bound.
func Bind(mod *ast.Module, src string) *Scope {
	b := &binder{src: src, module: ast.Text(src, mod.Name)}
	scope := NewScope(nil, mod)
	for _, def := range mod.Defs {
		if def == nil {
			continue
		}
		b.bindDef(scope, def.Def)
	}
	return scope
}

type binder struct {
	src    string
	module string
}

func (b *binder) define(scope *Scope, name *ast.Ident, decl ast.Node, flags SymbolFlags, r Restriction) *Symbol {
	if name == nil {
		return nil
	}
	sym := &Symbol{
		Name:        ast.Text(b.src, name),
		Flags:       flags,
		Restriction: r,
		Decl:        decl,
		Module:      b.module,
	}
	if !scope.Define(sym) {
		return nil
	}
	return sym
}

func (b *binder) bindDef(scope *Scope, def ast.Node) {
	switch d := def.(type) {
	case *ast.FuncDecl:
		sym := b.define(scope, d.Name, d, FlagFunction, RestrictionNone)
		inner := NewScope(scope, d)
		if sym != nil {
			sym.Originated = inner
		}
		if d.Params != nil {
			for _, p := range d.Params.List {
				r := RestrictionNone
				if p.Template {
					r = RestrictionTemplate
				}
				b.define(inner, p.Name, p, FlagArgument, r)
			}
		}
		if d.Body != nil {
			b.bindStmts(inner, d.Body.Stmts)
		}

	case *ast.ControlPart:
		inner := NewScope(scope, d)
		scope.Define(&Symbol{
			Name:       "control",
			Flags:      FlagControl,
			Decl:       d,
			Module:     b.module,
			Originated: inner,
		})
		if d.Body != nil {
			b.bindStmts(inner, d.Body.Stmts)
		}

	case *ast.ValueDecl:
		b.bindValueDecl(scope, d)
	}
}

func (b *binder) bindValueDecl(scope *Scope, d *ast.ValueDecl) {
	flags := FlagVariable
	r := RestrictionNone
	switch {
	case d.Const:
		flags = FlagConstant
	case d.Template && !d.Var:
		flags = FlagTemplate
		r = RestrictionTemplate
	case d.Template:
		r = RestrictionTemplate
	}
	for _, decl := range d.Decls {
		b.define(scope, decl.Name, decl, flags, r)
	}
}

func (b *binder) bindStmts(scope *Scope, stmts []ast.Node) {
	for _, stmt := range stmts {
		b.bindStmt(scope, stmt)
	}
}

func (b *binder) bindStmt(scope *Scope, stmt ast.Node) {
	switch s := stmt.(type) {
	case *ast.DeclStmt:
		if vd, ok := s.Decl.(*ast.ValueDecl); ok {
			b.bindValueDecl(scope, vd)
		}
	case *ast.BlockStmt:
		b.bindBlock(scope, s)
	case *ast.IfStmt:
		b.bindBlock(scope, s.Then)
		if s.Else != nil {
			b.bindStmt(scope, s.Else)
		}
	case *ast.WhileStmt:
		b.bindBlock(scope, s.Body)
	}
}

func (b *binder) bindBlock(scope *Scope, block *ast.BlockStmt) {
	if block == nil {
		return
	}
	b.bindStmts(NewScope(scope, block), block.Stmts)
}
