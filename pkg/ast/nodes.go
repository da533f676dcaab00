package ast

// =============================================================================
// Structure
// =============================================================================

// ErrorNode marks a span the parser could not make sense of.
type ErrorNode struct {
	NodeBase
}

// Root is the top of a file's tree.
type Root struct {
	NodeBase
	Modules []*Module
}

// Module is a TTCN-3 module definition.
type Module struct {
	NodeBase
	Name *Ident
	Defs []*ModuleDef
}

// ModuleDef wraps one module-level definition together with its visibility
// and terminating semicolon.
type ModuleDef struct {
	NodeBase
	Public bool
	Def    Node
}

// ImportDecl is `import from M all`. Transit imports re-import the public
// imports of M (`import from M { import all }`).
type ImportDecl struct {
	NodeBase
	Module  *Ident
	Transit bool
}

// ControlPart is the module control part.
type ControlPart struct {
	NodeBase
	Body *BlockStmt
}

// FuncDecl covers functions, testcases and altsteps.
type FuncDecl struct {
	NodeBase
	Keyword        string // "function", "testcase" or "altstep"
	Name           *Ident
	Params         *FormalPars
	Return         Node // return type, nil when absent
	ReturnTemplate bool // `return template T`
	Body           *BlockStmt
}

// FormalPars is a parenthesized parameter list.
type FormalPars struct {
	NodeBase
	List []*FormalPar
}

// FormalPar is a single formal parameter.
type FormalPar struct {
	NodeBase
	Direction Direction
	Template  bool
	Type      Node
	Name      *Ident
}

// =============================================================================
// Statements
// =============================================================================

// BlockStmt is a braced statement block.
type BlockStmt struct {
	NodeBase
	Stmts []Node
}

// DeclStmt is a declaration appearing in statement position.
type DeclStmt struct {
	NodeBase
	Decl Node
}

// ValueDecl declares one or more variables, constants or templates.
// `var template` sets both Var and Template.
type ValueDecl struct {
	NodeBase
	Var      bool
	Const    bool
	Template bool
	Type     Node
	Decls    []*Declarator
}

// Declarator is a single `name := value` inside a ValueDecl.
type Declarator struct {
	NodeBase
	Name  *Ident
	Value Node
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	NodeBase
	X Node
}

// IfStmt is an if statement. Else is a *BlockStmt, an *IfStmt or nil.
type IfStmt struct {
	NodeBase
	Cond Node
	Then *BlockStmt
	Else Node
}

// WhileStmt is a while loop.
type WhileStmt struct {
	NodeBase
	Cond Node
	Body *BlockStmt
}

// ReturnStmt is a return statement.
type ReturnStmt struct {
	NodeBase
	Result Node
}

// =============================================================================
// Expressions
// =============================================================================

// AssignmentExpr is `property := value`.
type AssignmentExpr struct {
	NodeBase
	Property Node
	Value    Node
}

// CallExpr is a call `fun(args)`.
type CallExpr struct {
	NodeBase
	Fun  Node
	Args *ParenExpr
}

// ParenExpr is a parenthesized, comma separated expression list.
type ParenExpr struct {
	NodeBase
	List []Node
}

// SelectorExpr is `x.sel`.
type SelectorExpr struct {
	NodeBase
	X   Node
	Sel *Ident
}

// IndexExpr is `x[index]`.
type IndexExpr struct {
	NodeBase
	X     Node
	Index Node
}

// BinaryExpr is `x op y`.
type BinaryExpr struct {
	NodeBase
	X  Node
	Op string
	Y  Node
}

// UnaryExpr is `op x`.
type UnaryExpr struct {
	NodeBase
	Op string
	X  Node
}

// Ident is an identifier.
type Ident struct {
	NodeBase
}

// ValueLiteral is a literal value.
type ValueLiteral struct {
	NodeBase
}

// =============================================================================
// Node methods
// =============================================================================

func (*ErrorNode) Kind() NodeKind      { return KindErrorNode }
func (*Root) Kind() NodeKind           { return KindRoot }
func (*Module) Kind() NodeKind         { return KindModule }
func (*ModuleDef) Kind() NodeKind      { return KindModuleDef }
func (*ImportDecl) Kind() NodeKind     { return KindImportDecl }
func (*ControlPart) Kind() NodeKind    { return KindControlPart }
func (*FuncDecl) Kind() NodeKind       { return KindFuncDecl }
func (*FormalPars) Kind() NodeKind     { return KindFormalPars }
func (*FormalPar) Kind() NodeKind      { return KindFormalPar }
func (*BlockStmt) Kind() NodeKind      { return KindBlockStmt }
func (*DeclStmt) Kind() NodeKind       { return KindDeclStmt }
func (*ValueDecl) Kind() NodeKind      { return KindValueDecl }
func (*Declarator) Kind() NodeKind     { return KindDeclarator }
func (*ExprStmt) Kind() NodeKind       { return KindExprStmt }
func (*IfStmt) Kind() NodeKind         { return KindIfStmt }
func (*WhileStmt) Kind() NodeKind      { return KindWhileStmt }
func (*ReturnStmt) Kind() NodeKind     { return KindReturnStmt }
func (*AssignmentExpr) Kind() NodeKind { return KindAssignmentExpr }
func (*CallExpr) Kind() NodeKind       { return KindCallExpr }
func (*ParenExpr) Kind() NodeKind      { return KindParenExpr }
func (*SelectorExpr) Kind() NodeKind   { return KindSelectorExpr }
func (*IndexExpr) Kind() NodeKind      { return KindIndexExpr }
func (*BinaryExpr) Kind() NodeKind     { return KindBinaryExpr }
func (*UnaryExpr) Kind() NodeKind      { return KindUnaryExpr }
func (*Ident) Kind() NodeKind          { return KindIdent }
func (*ValueLiteral) Kind() NodeKind   { return KindValueLiteral }

func (*ErrorNode) Children() []Node { return nil }
func (n *Root) Children() []Node    { return pushAll(nil, n.Modules) }

func (n *Module) Children() []Node {
	return pushAll(push(nil, n.Name), n.Defs)
}

func (n *ModuleDef) Children() []Node  { return push(nil, n.Def) }
func (n *ImportDecl) Children() []Node { return push(nil, n.Module) }
func (n *ControlPart) Children() []Node {
	return push(nil, n.Body)
}

func (n *FuncDecl) Children() []Node {
	out := push(nil, n.Name)
	out = push(out, n.Params)
	out = push(out, n.Return)
	return push(out, n.Body)
}

func (n *FormalPars) Children() []Node { return pushAll(nil, n.List) }

func (n *FormalPar) Children() []Node {
	return push(push(nil, n.Type), n.Name)
}

func (n *BlockStmt) Children() []Node { return pushAll(nil, n.Stmts) }
func (n *DeclStmt) Children() []Node  { return push(nil, n.Decl) }

func (n *ValueDecl) Children() []Node {
	return pushAll(push(nil, n.Type), n.Decls)
}

func (n *Declarator) Children() []Node {
	return push(push(nil, n.Name), n.Value)
}

func (n *ExprStmt) Children() []Node { return push(nil, n.X) }

func (n *IfStmt) Children() []Node {
	return push(push(push(nil, n.Cond), n.Then), n.Else)
}

func (n *WhileStmt) Children() []Node {
	return push(push(nil, n.Cond), n.Body)
}

func (n *ReturnStmt) Children() []Node { return push(nil, n.Result) }

func (n *AssignmentExpr) Children() []Node {
	return push(push(nil, n.Property), n.Value)
}

func (n *CallExpr) Children() []Node {
	return push(push(nil, n.Fun), n.Args)
}

func (n *ParenExpr) Children() []Node { return pushAll(nil, n.List) }

func (n *SelectorExpr) Children() []Node {
	return push(push(nil, n.X), n.Sel)
}

func (n *IndexExpr) Children() []Node {
	return push(push(nil, n.X), n.Index)
}

func (n *BinaryExpr) Children() []Node {
	return push(push(nil, n.X), n.Y)
}

func (n *UnaryExpr) Children() []Node  { return push(nil, n.X) }
func (*Ident) Children() []Node        { return nil }
func (*ValueLiteral) Children() []Node { return nil }
