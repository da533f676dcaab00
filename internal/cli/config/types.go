// Package config provides configuration management for the ttcnlint CLI.
//
// Lint settings use the shared core.LintConfig type, re-exported here via
// type aliases for convenience.
package config

import (
	"runtime"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool        `koanf:"verbose" yaml:"verbose,omitempty"`
	OutputFormat string      `koanf:"output" yaml:"output,omitempty"`
	Jobs         int         `koanf:"jobs" yaml:"jobs,omitempty"`
	Baseline     string      `koanf:"baseline" yaml:"baseline,omitempty"`
	Lint         *LintConfig `koanf:"lint" yaml:"lint,omitempty"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// Config file names, in lookup order.
var ConfigFileNames = []string{"ttcnlint.yaml", "ttcnlint.yml", ".ttcnlint.yaml"}

// Default configuration values.
const (
	DefaultOutput  = "auto"
	DefaultMaxJobs = 4
	EnvPrefix      = "TTCNLINT_"
)

// DefaultJobs is min(NumCPU, DefaultMaxJobs).
func DefaultJobs() int {
	return min(runtime.NumCPU(), DefaultMaxJobs)
}
