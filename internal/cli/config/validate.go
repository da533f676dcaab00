package config

import (
	"fmt"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("unknown output format %q (want auto, text or json)", c.OutputFormat)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Lint != nil {
		for name, sev := range c.Lint.Severity {
			if _, ok := core.ParseSeverity(sev); !ok {
				return fmt.Errorf("lint.severity.%s: invalid severity %q", name, sev)
			}
		}
	}
	return nil
}
