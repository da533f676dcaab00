package core

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule names to disable
	Disabled []string `koanf:"disabled" yaml:"disabled,omitempty"`

	// Severity maps rule name to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity" yaml:"severity,omitempty"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules" yaml:"rules,omitempty"`

	// Scripts lists Starlark rule files loaded next to the builtin rules
	Scripts []string `koanf:"scripts" yaml:"scripts,omitempty"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// IsDisabled reports whether the named rule is listed as disabled.
func (c *LintConfig) IsDisabled(name string) bool {
	if c == nil {
		return false
	}
	for _, d := range c.Disabled {
		if d == name {
			return true
		}
	}
	return false
}

// OptionsFor returns the options configured for a rule, or nil.
func (c *LintConfig) OptionsFor(name string) RuleOptions {
	if c == nil || c.Rules == nil {
		return nil
	}
	return c.Rules[name]
}
