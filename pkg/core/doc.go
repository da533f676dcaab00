// Package core defines the shared language of the ttcnlint system.
//
// This package contains:
//   - Source positions (Range, Location, LineMapping)
//   - Diagnostic vocabulary (Severity, RuleInfo)
//   - Configuration types (LintConfig, RuleOptions)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
