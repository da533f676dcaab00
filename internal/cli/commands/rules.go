package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	_ "github.com/leapstack-labs/ttcnlint/pkg/lint/rules" // register builtin rules
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Type    string   // Filter by type: builtin, script
	Scripts []string // Extra Starlark rule files
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-name]",
		Short: "List available lint rules",
		Long: `List the builtin rules and the configured Starlark rules.

Severities reflect the lint.severity overrides of the configuration.
Rules listed in lint.disabled are shown as disabled.`,
		Example: `  # List all rules
  ttcnlint rules

  # Show one rule
  ttcnlint rules no-unused-vars

  # Include a rule script
  ttcnlint rules --script rules/no-todo.star -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runRules(cmd, name, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by type: builtin, script")
	cmd.Flags().StringSliceVar(&opts.Scripts, "script", nil, "Starlark rule files to load")

	return cmd
}

func runRules(cmd *cobra.Command, name string, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Bind every rule so that disabled ones can still be described.
	lintOpts := &LintOptions{Scripts: opts.Scripts}
	listCfg := *cmdCtx
	if cmdCtx.Cfg != nil && cmdCtx.Cfg.Lint != nil {
		cfg := *cmdCtx.Cfg
		lc := *cfg.Lint
		lc.Disabled = nil
		cfg.Lint = &lc
		listCfg.Cfg = &cfg
	}
	l, err := buildLinter(&listCfg, lintOpts)
	if err != nil {
		return err
	}

	var rules []output.RuleOutput
	for _, info := range l.Rules() {
		if opts.Type != "" && info.Type != opts.Type {
			continue
		}
		if name != "" && info.Name != name {
			continue
		}
		rules = append(rules, ruleOutput(l, info, isDisabled(cmdCtx, info.Name)))
	}
	if name != "" && len(rules) == 0 {
		return fmt.Errorf("rule %q not found", name)
	}

	if r.EffectiveMode() == output.ModeJSON {
		if rules == nil {
			rules = []output.RuleOutput{}
		}
		return r.JSON(rules)
	}
	if name != "" {
		showRuleText(r, rules[0])
		return nil
	}
	listRulesText(r, rules)
	return nil
}

func isDisabled(cmdCtx *CommandContext, name string) bool {
	return cmdCtx.Cfg != nil && cmdCtx.Cfg.Lint.IsDisabled(name)
}

func ruleOutput(l *lint.Linter, info core.RuleInfo, disabled bool) output.RuleOutput {
	out := output.RuleOutput{
		Name:        info.Name,
		Description: info.Description,
		Type:        info.Type,
		Severity:    l.Severity(info.Name).String(),
		Fixable:     info.Fixable,
		WholeFile:   info.WholeFile,
		Kinds:       info.Kinds,
		Options:     info.ConfigKeys,
		Disabled:    disabled,
	}
	if info.Type == "builtin" {
		out.DocURL = info.DocURL
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// listRulesText outputs rules as a table.
func listRulesText(r *output.Renderer, rules []output.RuleOutput) {
	rows := make([][]string, 0, len(rules))
	for _, rule := range rules {
		sev := rule.Severity
		if rule.Disabled {
			sev = "off"
		}
		rows = append(rows, []string{
			rule.Name,
			rule.Type,
			sev,
			yesNo(rule.Fixable),
			matchSummary(rule),
			rule.Description,
		})
	}
	r.Table([]string{"Rule", "Type", "Severity", "Autofix", "Matches", "Description"}, rows)
	r.Println(r.Styles().Muted.Render(fmt.Sprintf("%d rules. Use 'ttcnlint rules <rule-name>' for details.", len(rules))))
}

func matchSummary(rule output.RuleOutput) string {
	parts := append([]string(nil), rule.Kinds...)
	if rule.WholeFile {
		parts = append(parts, "(file)")
	}
	return strings.Join(parts, ", ")
}

// showRuleText displays one rule.
func showRuleText(r *output.Renderer, rule output.RuleOutput) {
	styles := r.Styles()
	sev, _ := core.ParseSeverity(rule.Severity)

	r.Println(styles.Header.Render(rule.Name))
	r.Println("  " + rule.Description)
	r.Println("")
	r.Printf("  Type:      %s\n", rule.Type)
	r.Printf("  Severity:  %s\n", styles.Severity(sev).Render(rule.Severity))
	r.Printf("  Autofix:   %s\n", yesNo(rule.Fixable))
	r.Printf("  Disabled:  %s\n", yesNo(rule.Disabled))
	if len(rule.Kinds) > 0 {
		r.Printf("  Matches:   %s\n", strings.Join(rule.Kinds, ", "))
	}
	if rule.WholeFile {
		r.Println("  Runs once per file after the tree walk")
	}
	if len(rule.Options) > 0 {
		r.Printf("  Options:   %s\n", strings.Join(rule.Options, ", "))
	}
	if rule.DocURL != "" {
		r.Printf("  Docs:      %s\n", styles.Muted.Render(rule.DocURL))
	}
}
