package lint

import (
	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// Rule is a named check. One instance serves every file a Linter
// processes, so a rule must not keep state tied to the file being linted.
//
// A rule opts into the walk by implementing NodeRule and into whole-file
// analysis by implementing ExitRule. Capabilities a rule does not
// implement are no-ops.
type Rule interface {
	// Name is the stable identifier, used as Problem.Reporter.
	Name() string
	Description() string
}

// MatcherRegistrar declares interest in a node kind. It is only valid
// while Register runs.
type MatcherRegistrar func(kind ast.NodeKind)

// NodeRule is called for every node of the kinds it registered.
type NodeRule interface {
	Rule
	Register(match MatcherRegistrar)
	Check(ctx *Context, node ast.Node) error
}

// ExitRule runs once per file after the walk.
type ExitRule interface {
	Rule
	Exit(ctx *Context) error
}

// SeverityRule declares the severity a rule reports with by default.
type SeverityRule interface {
	DefaultSeverity() core.Severity
}

// FixableRule declares that a rule attaches autofixes.
type FixableRule interface {
	Fixable() bool
}

// ConfigurableRule lists the option keys a rule reads.
type ConfigurableRule interface {
	ConfigKeys() []string
}

// RuleType distinguishes builtin rules from scripted ones in listings.
type RuleType interface {
	RuleType() string
}

// describe collects the metadata of a rule for listings and documentation.
func describe(r Rule, kinds []ast.NodeKind) core.RuleInfo {
	info := core.RuleInfo{
		Name:            r.Name(),
		Description:     r.Description(),
		DefaultSeverity: DefaultSeverity(r),
		DocURL:          BuildDocURL(r.Name()),
		Type:            "builtin",
	}
	for _, k := range kinds {
		info.Kinds = append(info.Kinds, k.String())
	}
	if _, ok := r.(ExitRule); ok {
		info.WholeFile = true
	}
	if f, ok := r.(FixableRule); ok {
		info.Fixable = f.Fixable()
	}
	if c, ok := r.(ConfigurableRule); ok {
		info.ConfigKeys = c.ConfigKeys()
	}
	if t, ok := r.(RuleType); ok {
		info.Type = t.RuleType()
	}
	return info
}

// DefaultSeverity returns the rule's declared severity, or error.
func DefaultSeverity(r Rule) core.Severity {
	if s, ok := r.(SeverityRule); ok {
		return s.DefaultSeverity()
	}
	return core.SeverityError
}
