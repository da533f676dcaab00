// Package program describes the parsed files a lint run operates on and
// the per-module semantic information rules consume.
package program

import (
	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/semantic"
)

// SyntaxError is a parse error reported by the frontend.
type SyntaxError struct {
	Range   core.Range `json:"range" msgpack:"range"`
	Message string     `json:"message" msgpack:"message"`
}

// AST is a file's syntax tree together with its source text.
type AST struct {
	Root   *ast.Root
	Src    string
	Errors []SyntaxError
	Lines  *core.LineMapping
}

// SourceFile is one parsed file. Module is nil when no semantic model
// could be built for it.
type SourceFile struct {
	Path    string
	AST     AST
	Module  *ModuleDescriptor
	Program Program
}

// NewSourceFile wraps a parsed tree, linking parents and indexing lines.
func NewSourceFile(path, src string, root *ast.Root, errs []SyntaxError) *SourceFile {
	if root == nil {
		root = &ast.Root{NodeBase: ast.At(0, len(src))}
	}
	ast.Link(root)
	return &SourceFile{
		Path: path,
		AST: AST{
			Root:   root,
			Src:    src,
			Errors: errs,
			Lines:  core.NewLineMapping(src),
		},
	}
}

// Text returns the source text covered by n.
func (sf *SourceFile) Text(n ast.Node) string {
	return ast.Text(sf.AST.Src, n)
}

// Location translates a byte offset into a line/column pair.
func (sf *SourceFile) Location(pos int) core.Location {
	return sf.AST.Lines.Translate(pos)
}

// HasErrors reports whether the frontend flagged syntax errors.
func (sf *SourceFile) HasErrors() bool {
	return len(sf.AST.Errors) > 0
}

// ImportDescriptor is one import statement of a module.
type ImportDescriptor struct {
	Module  string
	Decl    *ast.ImportDecl
	Public  bool
	Transit bool
}

// ModuleDescriptor is the semantic model of a module.
type ModuleDescriptor struct {
	Name    string
	File    *SourceFile
	Node    *ast.Module
	Scope   *semantic.Scope
	Checker semantic.Checker

	Imports []ImportDescriptor

	// Dependencies holds the modules whose definitions are referenced.
	Dependencies map[string]bool

	// TransitiveProviders holds the transit-imported modules whose public
	// imports supplied at least one referenced definition.
	TransitiveProviders map[string]bool

	// RequiredImports holds imports the frontend requires for reasons not
	// visible as references, such as types used only implicitly.
	RequiredImports map[string]bool
}

// ImportsOf returns the import statements naming module.
func (m *ModuleDescriptor) ImportsOf(module string) []ImportDescriptor {
	var out []ImportDescriptor
	for _, imp := range m.Imports {
		if imp.Module == module {
			out = append(out, imp)
		}
	}
	return out
}

// FindImport returns the import of module with the given transit flag.
func (m *ModuleDescriptor) FindImport(module string, transit bool) (ImportDescriptor, bool) {
	for _, imp := range m.ImportsOf(module) {
		if imp.Transit == transit {
			return imp, true
		}
	}
	return ImportDescriptor{}, false
}

// Entry pairs a file with its virtual path.
type Entry struct {
	Path string
	File *SourceFile
}

// Program exposes the files of a lint run and module lookup.
type Program interface {
	// Files lists the program's files in a stable order.
	Files() []Entry

	// GetModule returns the module with the given name, or nil.
	GetModule(name string) *ModuleDescriptor
}
