package semantic

import "github.com/leapstack-labs/ttcnlint/pkg/ast"

// Scope is a lexical scope. The module scope is the root; functions, the
// control part and nested blocks open child scopes.
type Scope struct {
	parent    *Scope
	children  []*Scope
	container ast.Node
	imports   *Scope

	Symbols *SymbolTable
}

// NewScope creates a scope owned by container and attaches it to parent.
func NewScope(parent *Scope, container ast.Node) *Scope {
	s := &Scope{
		parent:    parent,
		container: container,
		Symbols:   NewSymbolTable(),
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Parent returns the enclosing scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Children returns the nested scopes in source order.
func (s *Scope) Children() []*Scope { return s.children }

// Container returns the node that opens the scope.
func (s *Scope) Container() ast.Node { return s.container }

// Define inserts a symbol; the first definition of a name wins.
func (s *Scope) Define(sym *Symbol) bool {
	return s.Symbols.Insert(sym)
}

// Import sets the scope consulted after the module scope, which holds the
// definitions made visible by import statements.
func (s *Scope) Import(imports *Scope) {
	s.imports = imports
}

// Imports returns the import scope, or nil.
func (s *Scope) Imports() *Scope { return s.imports }

// Resolve looks name up in s and its ancestors, then in the import scope
// of the outermost scope.
func (s *Scope) Resolve(name string) *Symbol {
	cur := s
	for {
		if sym := cur.Symbols.Lookup(name); sym != nil {
			return sym
		}
		if cur.parent == nil {
			break
		}
		cur = cur.parent
	}
	if cur.imports != nil {
		return cur.imports.Symbols.Lookup(name)
	}
	return nil
}

// FindScope returns the innermost scope below root whose container
// encloses n.
func FindScope(root *Scope, n ast.Node) *Scope {
	if root == nil || n == nil {
		return root
	}
	r := n.Range()
	cur := root
	for {
		next := (*Scope)(nil)
		for _, child := range cur.children {
			if child.container != nil && child.container.Range().Encloses(r) {
				next = child
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}
