// Package rules bundles the builtin TTCN-3 lint rules.
//
// Rules are organized by category:
//   - style: how code is written (no-empty, prefer-const, no-unnecessary-valueof)
//   - unused: declarations nothing refers to (no-unused-imports, no-unused-vars)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/ttcnlint/pkg/lint/rules"
//
// Individual categories can also be imported:
//
//	import _ "github.com/leapstack-labs/ttcnlint/pkg/lint/rules/unused"
package rules
