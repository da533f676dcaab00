// Package semantic holds the scope and symbol model rules query.
//
// The model is normally produced by an external TTCN-3 frontend. Bind
// derives an equivalent model from the node subset in pkg/ast, which is
// what snapshot loading and tests rely on.
package semantic

import (
	"strings"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
)

// SymbolFlags classifies a symbol.
type SymbolFlags uint32

// Symbol flags.
const (
	FlagVariable SymbolFlags = 1 << iota
	FlagConstant
	FlagArgument
	FlagFunction
	FlagTemplate
	FlagControl
	FlagType
)

var flagNames = []struct {
	flag SymbolFlags
	name string
}{
	{FlagVariable, "variable"},
	{FlagConstant, "constant"},
	{FlagArgument, "argument"},
	{FlagFunction, "function"},
	{FlagTemplate, "template"},
	{FlagControl, "control"},
	{FlagType, "type"},
}

// Has reports whether any of the given flags are set.
func (f SymbolFlags) Has(mask SymbolFlags) bool {
	return f&mask != 0
}

// String joins the set flag names with "|".
func (f SymbolFlags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Restriction is the template restriction of a value-like symbol.
// RestrictionNone means the symbol denotes a plain value.
type Restriction uint8

// Template restrictions.
const (
	RestrictionNone Restriction = iota
	RestrictionTemplate
	RestrictionOmit
	RestrictionPresent
	RestrictionValue
)

// String returns the restriction keyword.
func (r Restriction) String() string {
	switch r {
	case RestrictionTemplate:
		return "template"
	case RestrictionOmit:
		return "template(omit)"
	case RestrictionPresent:
		return "template(present)"
	case RestrictionValue:
		return "template(value)"
	default:
		return "none"
	}
}

// Symbol is a named entity declared in a scope.
type Symbol struct {
	Name        string
	Flags       SymbolFlags
	Restriction Restriction

	// Decl is the declaring node: a Declarator, FormalPar, FuncDecl or
	// ControlPart.
	Decl ast.Node

	// Module is the name of the module the symbol is declared in.
	Module string

	// Originated is the scope the symbol opens, set for functions and the
	// control part.
	Originated *Scope
}

// NameNode returns the identifier naming the symbol inside its declaration,
// falling back to the whole declaration.
func (s *Symbol) NameNode() ast.Node {
	switch d := s.Decl.(type) {
	case *ast.Declarator:
		if d.Name != nil {
			return d.Name
		}
	case *ast.FormalPar:
		if d.Name != nil {
			return d.Name
		}
	case *ast.FuncDecl:
		if d.Name != nil {
			return d.Name
		}
	}
	return s.Decl
}

// SymbolTable is an insertion-ordered set of symbols unique by name.
type SymbolTable struct {
	byName map[string]*Symbol
	order  []*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]*Symbol)}
}

// Insert adds sym unless a symbol with the same name exists.
// It reports whether sym was stored.
func (t *SymbolTable) Insert(sym *Symbol) bool {
	if _, ok := t.byName[sym.Name]; ok {
		return false
	}
	t.byName[sym.Name] = sym
	t.order = append(t.order, sym)
	return true
}

// Lookup returns the symbol with the given name.
func (t *SymbolTable) Lookup(name string) *Symbol {
	return t.byName[name]
}

// Enumerate returns the symbols in declaration order.
func (t *SymbolTable) Enumerate() []*Symbol {
	return t.order
}

// Len returns the number of symbols.
func (t *SymbolTable) Len() int {
	return len(t.order)
}
