package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ttcnlint/internal/cli/config"
	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
)

// exampleScript is the rule script written by init.
const exampleScript = `# Starlark lint rule. Hooks: check(ctx, node) for the node kinds
# listed in kinds, exit(ctx) once per file.
name = "max-functions"
description = "Limits the number of functions per module"
severity = "info"
defaults = {"limit": 50}

def exit(ctx):
    funcs = ctx.nodes("FuncDecl")
    limit = ctx.options["limit"]
    if len(funcs) > limit:
        ctx.report(funcs[limit], "%d functions, limit is %d" % (len(funcs), limit))
`

const (
	configFileName    = "ttcnlint.yaml"
	exampleScriptPath = "rules/max-functions.star"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a ttcnlint configuration",
		Long: `Create a ttcnlint.yaml with the default settings and an example
Starlark rule under rules/.`,
		Example: `  # Initialize in current directory
  ttcnlint init

  # Overwrite an existing configuration
  ttcnlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(NewCommandContext(cmd).Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

// defaultConfig is the configuration written by init.
func defaultConfig() *config.Config {
	return &config.Config{
		OutputFormat: config.DefaultOutput,
		Jobs:         config.DefaultMaxJobs,
		Baseline:     ".ttcnlint/baseline.db",
		Lint: &config.LintConfig{
			Severity: map[string]string{"prefer-const": "hint"},
			Rules: map[string]config.RuleOptions{
				"no-unused-vars": {"ignore_pattern": "^_"},
			},
			Scripts: []string{exampleScriptPath},
		},
	}
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(filepath.Join(dir, filepath.Dir(exampleScriptPath)), 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configFileName)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(defaultConfig()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	files := []struct {
		path    string
		content []byte
	}{
		{configPath, buf.Bytes()},
		{filepath.Join(dir, exampleScriptPath), []byte(exampleScript)},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil && !force {
			r.Warning(fmt.Sprintf("skipped %s: already exists", f.path))
			continue
		}
		if err := os.WriteFile(f.path, f.content, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		r.Println("  created " + f.path)
	}

	r.Println("")
	r.Success("ttcnlint initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Export a program snapshot (.ttsnap) from your TTCN-3 frontend")
	r.Println("  2. Run 'ttcnlint lint' to check it")
	r.Println("  3. Run 'ttcnlint rules' to see the available rules")

	return nil
}
