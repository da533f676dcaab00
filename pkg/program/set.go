package program

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/semantic"
)

// ErrDuplicateFile is returned when a path is added twice.
var ErrDuplicateFile = errors.New("duplicate file")

// Set is an in-memory Program.
type Set struct {
	files   []Entry
	byPath  map[string]int
	modules map[string]*ModuleDescriptor
}

// NewSet returns an empty program.
func NewSet() *Set {
	return &Set{
		byPath:  make(map[string]int),
		modules: make(map[string]*ModuleDescriptor),
	}
}

// Add appends a file. Call Resolve once all files are present.
func (s *Set) Add(sf *SourceFile) error {
	if _, ok := s.byPath[sf.Path]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFile, sf.Path)
	}
	sf.Program = s
	s.byPath[sf.Path] = len(s.files)
	s.files = append(s.files, Entry{Path: sf.Path, File: sf})
	return nil
}

// Replace swaps the file stored under sf.Path, or adds it.
// Call Resolve afterwards to refresh the semantic model.
func (s *Set) Replace(sf *SourceFile) {
	idx, ok := s.byPath[sf.Path]
	if !ok {
		_ = s.Add(sf)
		return
	}
	sf.Program = s
	s.files[idx] = Entry{Path: sf.Path, File: sf}
}

// File returns the file stored under path.
func (s *Set) File(path string) *SourceFile {
	idx, ok := s.byPath[path]
	if !ok {
		return nil
	}
	return s.files[idx].File
}

// Files implements Program.
func (s *Set) Files() []Entry {
	return s.files
}

// GetModule implements Program.
func (s *Set) GetModule(name string) *ModuleDescriptor {
	return s.modules[name]
}

// Resolve builds the semantic model of every file: module scopes, import
// scopes, and the dependency sets derived from references.
func (s *Set) Resolve() {
	s.modules = make(map[string]*ModuleDescriptor, len(s.files))

	for _, e := range s.files {
		sf := e.File
		required := map[string]bool{}
		if sf.Module != nil && sf.Module.RequiredImports != nil {
			required = sf.Module.RequiredImports
		}
		sf.Module = nil
		if sf.AST.Root == nil || len(sf.AST.Root.Modules) == 0 {
			continue
		}
		mod := sf.AST.Root.Modules[0]
		if mod.Name == nil {
			continue
		}
		md := &ModuleDescriptor{
			Name:                sf.Text(mod.Name),
			File:                sf,
			Node:                mod,
			Scope:               semantic.Bind(mod, sf.AST.Src),
			Checker:             semantic.NewChecker(sf.AST.Src),
			Imports:             collectImports(sf, mod),
			Dependencies:        map[string]bool{},
			TransitiveProviders: map[string]bool{},
			RequiredImports:     required,
		}
		sf.Module = md
		if _, dup := s.modules[md.Name]; !dup {
			s.modules[md.Name] = md
		}
	}

	for _, e := range s.files {
		if md := e.File.Module; md != nil {
			s.link(md)
		}
	}
}

func collectImports(sf *SourceFile, mod *ast.Module) []ImportDescriptor {
	var out []ImportDescriptor
	for _, def := range mod.Defs {
		decl, ok := def.Def.(*ast.ImportDecl)
		if !ok || decl.Module == nil {
			continue
		}
		out = append(out, ImportDescriptor{
			Module:  sf.Text(decl.Module),
			Decl:    decl,
			Public:  def.Public,
			Transit: decl.Transit,
		})
	}
	return out
}

// origin records where an imported name comes from.
type origin struct {
	owner    string
	provider string
}

// link attaches the import scope of md and computes its dependencies.
func (s *Set) link(md *ModuleDescriptor) {
	imports := semantic.NewScope(nil, nil)
	origins := map[string]origin{}

	define := func(from *ModuleDescriptor, provider string) {
		for _, sym := range from.Scope.Symbols.Enumerate() {
			if imports.Define(sym) {
				origins[sym.Name] = origin{owner: from.Name, provider: provider}
			}
		}
	}

	for _, imp := range md.Imports {
		if imp.Transit {
			continue
		}
		if dep := s.modules[imp.Module]; dep != nil && dep != md {
			define(dep, "")
		}
	}
	for _, imp := range md.Imports {
		if !imp.Transit {
			continue
		}
		via := s.modules[imp.Module]
		if via == nil || via == md {
			continue
		}
		for _, pub := range via.Imports {
			if !pub.Public {
				continue
			}
			if dep := s.modules[pub.Module]; dep != nil && dep != md {
				define(dep, via.Name)
			}
		}
	}
	md.Scope.Import(imports)

	src := md.File.AST.Src
	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ImportDecl:
			return false
		case *ast.SelectorExpr:
			ast.Inspect(n.X, visit)
			return false
		case *ast.Ident:
			name := ast.Text(src, n)
			sym := semantic.FindScope(md.Scope, n).Resolve(name)
			if sym == nil || sym.Module == md.Name {
				return false
			}
			if o, ok := origins[name]; ok {
				md.Dependencies[o.owner] = true
				if o.provider != "" {
					md.TransitiveProviders[o.provider] = true
				}
			}
			return false
		}
		return true
	}
	ast.Inspect(md.Node, visit)
}
