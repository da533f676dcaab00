package unused

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// ErrImportNotFound is returned when the semantic model lists an import
// that has no matching declaration.
var ErrImportNotFound = errors.New("import declaration not found")

func init() {
	lint.Register(func() lint.Rule { return &NoUnusedImports{} })
}

// NoUnusedImports reports private imports that contribute nothing.
//
// A plain import is unused when no definition of the imported module is
// referenced. A transit import is unused when none of the public imports
// of the imported module supplied a referenced definition. Imports of
// unknown modules, of modules with syntax errors and imports the frontend
// marked as required are never reported. The autofix removes the whole
// import statement.
type NoUnusedImports struct{}

func (*NoUnusedImports) Name() string                   { return "no-unused-imports" }
func (*NoUnusedImports) Description() string            { return "Imported module is never referenced." }
func (*NoUnusedImports) DefaultSeverity() core.Severity { return core.SeverityError }
func (*NoUnusedImports) Fixable() bool                  { return true }

func (r *NoUnusedImports) Exit(ctx *lint.Context) error {
	md := ctx.Module()
	prog := ctx.Program()
	if prog == nil {
		return nil
	}

	var plain, transit []string
	seen := make(map[string]bool)
	for _, imp := range md.Imports {
		if imp.Public {
			continue
		}
		key := imp.Module
		if imp.Transit {
			key += "\x00transit"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		if imp.Transit {
			transit = append(transit, imp.Module)
		} else {
			plain = append(plain, imp.Module)
		}
	}

	for _, name := range plain {
		if md.Dependencies[name] || md.RequiredImports[name] || !resolvable(prog, name) {
			continue
		}
		if err := r.report(ctx, md, name, false, "imported module '%s' is not used directly"); err != nil {
			return err
		}
	}
	for _, name := range transit {
		if md.TransitiveProviders[name] || !resolvable(prog, name) {
			continue
		}
		if err := r.report(ctx, md, name, true, "public imports of imported module '%s' are not used"); err != nil {
			return err
		}
	}
	return nil
}

func (r *NoUnusedImports) report(ctx *lint.Context, md *program.ModuleDescriptor, name string, transit bool, format string) error {
	imp, ok := md.FindImport(name, transit)
	if !ok || imp.Decl == nil {
		return fmt.Errorf("%w: %s in module %s", ErrImportNotFound, name, md.Name)
	}
	stmt := ast.Node(imp.Decl)
	if parent := imp.Decl.Parent(); parent != nil && parent.Kind() == ast.KindModuleDef {
		stmt = parent
	}
	fix := lint.Removal(ctx.File(), stmt.Range())
	ctx.Report(r, imp.Decl.Range(), fmt.Sprintf(format, name), fix)
	return nil
}

// resolvable reports whether the imported module is known and parsed
// cleanly; anything else may hide references.
func resolvable(prog program.Program, name string) bool {
	dep := prog.GetModule(name)
	if dep == nil {
		return false
	}
	return dep.File == nil || !dep.File.HasErrors()
}
