package ast

// NodeKind is the discriminant of an AST node.
type NodeKind uint8

// Node kinds.
const (
	KindInvalid NodeKind = iota
	KindErrorNode
	KindRoot
	KindModule
	KindModuleDef
	KindImportDecl
	KindControlPart
	KindFuncDecl
	KindFormalPars
	KindFormalPar
	KindBlockStmt
	KindDeclStmt
	KindValueDecl
	KindDeclarator
	KindExprStmt
	KindIfStmt
	KindWhileStmt
	KindReturnStmt
	KindAssignmentExpr
	KindCallExpr
	KindParenExpr
	KindSelectorExpr
	KindIndexExpr
	KindBinaryExpr
	KindUnaryExpr
	KindIdent
	KindValueLiteral

	kindCount
)

var kindNames = [...]string{
	KindInvalid:        "Invalid",
	KindErrorNode:      "ErrorNode",
	KindRoot:           "Root",
	KindModule:         "Module",
	KindModuleDef:      "ModuleDef",
	KindImportDecl:     "ImportDecl",
	KindControlPart:    "ControlPart",
	KindFuncDecl:       "FuncDecl",
	KindFormalPars:     "FormalPars",
	KindFormalPar:      "FormalPar",
	KindBlockStmt:      "BlockStmt",
	KindDeclStmt:       "DeclStmt",
	KindValueDecl:      "ValueDecl",
	KindDeclarator:     "Declarator",
	KindExprStmt:       "ExprStmt",
	KindIfStmt:         "IfStmt",
	KindWhileStmt:      "WhileStmt",
	KindReturnStmt:     "ReturnStmt",
	KindAssignmentExpr: "AssignmentExpr",
	KindCallExpr:       "CallExpr",
	KindParenExpr:      "ParenExpr",
	KindSelectorExpr:   "SelectorExpr",
	KindIndexExpr:      "IndexExpr",
	KindBinaryExpr:     "BinaryExpr",
	KindUnaryExpr:      "UnaryExpr",
	KindIdent:          "Ident",
	KindValueLiteral:   "ValueLiteral",
}

// String returns the kind name, e.g. "BlockStmt".
func (k NodeKind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Invalid"
}

// ParseKind looks up a kind by name.
func ParseKind(name string) (NodeKind, bool) {
	for k := KindErrorNode; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// Kinds returns every valid node kind in declaration order.
func Kinds() []NodeKind {
	out := make([]NodeKind, 0, kindCount-1)
	for k := KindErrorNode; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Direction is the passing direction of a formal parameter.
type Direction uint8

// Parameter directions. DirNone means the direction was omitted.
const (
	DirNone Direction = iota
	DirIn
	DirOut
	DirInOut
)

// String returns the TTCN-3 keyword for the direction.
func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	default:
		return ""
	}
}

// ParseDirection converts a keyword into a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "":
		return DirNone, true
	case "in":
		return DirIn, true
	case "out":
		return DirOut, true
	case "inout":
		return DirInOut, true
	default:
		return DirNone, false
	}
}

// Mutates reports whether an argument passed with this direction may be
// written by the callee.
func (d Direction) Mutates() bool {
	return d == DirOut || d == DirInOut
}
