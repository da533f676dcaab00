// Package lint is the TTCN-3 lint engine: a registry of independent rules
// that inspect a parsed file and its semantic model, collect problems and
// optionally repair some of them with textual autofixes.
//
// # Rules
//
// A Rule has a stable name. It takes part in the single tree walk by
// implementing NodeRule, registering the node kinds it wants to see:
//
//	func (r *NoEmpty) Register(match lint.MatcherRegistrar) {
//		match(ast.KindBlockStmt)
//	}
//
// Whole-file analyses implement ExitRule, which runs once after the walk.
// Builtin rules register a factory from init():
//
//	func init() {
//		lint.Register(func() lint.Rule { return &NoEmpty{} })
//	}
//
// # Linting
//
//	l := lint.NewLinter(lint.WithLogger(logger), lint.WithConfig(cfg))
//	if err := l.AddRegistered(); err != nil { ... }
//	problems, err := l.Lint(sf)
//
// Problems are keyed by range: the first problem reported for a range is
// kept and later ones are dropped. A non-nil error from Lint joins the
// *RuleError values of rules that failed; the problems of healthy rules
// are returned regardless.
//
// # Fixing
//
// Fix applies the autofixes of a problem set right to left, dropping any
// autofix that overlaps one already applied. The engine never writes
// files; persisting the result is up to the caller.
package lint
