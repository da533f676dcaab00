package lint

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// ErrInvalidSeverity is returned for unknown severity names.
var ErrInvalidSeverity = errors.New("invalid severity")

// Config controls which rules are enabled, their severity and options.
type Config struct {
	// DisabledRules contains rule names to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]core.Severity

	// RuleOptions holds per-rule options keyed by rule name
	RuleOptions map[string]core.RuleOptions
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		RuleOptions:       make(map[string]core.RuleOptions),
	}
}

// ConfigFromLint converts the file-level lint section into a Config.
func ConfigFromLint(lc *core.LintConfig) (*Config, error) {
	cfg := NewConfig()
	if lc == nil {
		return cfg, nil
	}
	for _, name := range lc.Disabled {
		cfg.Disable(name)
	}
	for name, sevName := range lc.Severity {
		sev, ok := core.ParseSeverity(sevName)
		if !ok {
			return nil, fmt.Errorf("%w %q for rule %s", ErrInvalidSeverity, sevName, name)
		}
		cfg.SetSeverity(name, sev)
	}
	for name, opts := range lc.Rules {
		cfg.SetOptions(name, opts)
	}
	return cfg, nil
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(name string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[name]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(name string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[name]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Options returns the options configured for a rule, or nil.
func (c *Config) Options(name string) core.RuleOptions {
	if c == nil {
		return nil
	}
	return c.RuleOptions[name]
}

// Disable disables a rule by name.
func (c *Config) Disable(name string) *Config {
	c.DisabledRules[name] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(name string, severity core.Severity) *Config {
	c.SeverityOverrides[name] = severity
	return c
}

// SetOptions replaces the options of a rule.
func (c *Config) SetOptions(name string, opts core.RuleOptions) *Config {
	c.RuleOptions[name] = opts
	return c
}
