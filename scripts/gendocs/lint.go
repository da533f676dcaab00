package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	_ "github.com/leapstack-labs/ttcnlint/pkg/lint/rules"
)

// generateLintDocs writes an index of the builtin rules and one page per
// rule. Page names match lint.BuildDocURL.
func generateLintDocs(outDir string) error {
	log.Printf("Generating lint docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	l := lint.NewLinter()
	if err := l.AddRegistered(); err != nil {
		return err
	}
	rules := l.Rules()

	if err := generateLintIndex(outDir, rules); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, rule := range rules {
		if err := generateRulePage(outDir, rule); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", rule.Name, err)
		}
		log.Printf("  Generated %s.md", rule.Name)
	}
	return nil
}

func generateLintIndex(outDir string, rules []core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Lint Rules", "Builtin TTCN-3 lint rules")
	w.GeneratedMarker()

	w.Header(1, "Lint Rules")
	w.Paragraph(fmt.Sprintf("ttcnlint ships %d builtin rules. Rules written in Starlark are loaded next to them from the %s list.",
		len(rules), InlineCode("lint.scripts")))

	var rows [][]string
	for _, r := range rules {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/rules/%s)", InlineCode(r.Name), r.Name),
			InlineCode(r.DefaultSeverity.String()),
			yesNo(r.Fixable),
			cleanDescription(r.Description),
		})
	}
	w.Table([]string{"Rule", "Severity", "Autofix", "Description"}, rows)

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in the " + InlineCode("lint") + " section of " + InlineCode("ttcnlint.yaml") + ":")
	w.CodeBlock("yaml", `lint:
  disabled: [prefer-const]     # never run these rules
  severity:
    no-empty: hint             # override severity
  rules:
    no-unused-vars:
      ignore_pattern: "^_"     # rule-specific option
  scripts:
    - rules/max-functions.star # Starlark rules`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateRulePage(outDir string, rule core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter(rule.Name, cleanDescription(rule.Description))
	w.GeneratedMarker()

	w.Header(1, rule.Name)
	w.Paragraph(rule.Description)

	facts := []string{
		Bold("Severity") + ": " + InlineCode(rule.DefaultSeverity.String()),
		Bold("Autofix") + ": " + yesNo(rule.Fixable),
	}
	if len(rule.Kinds) > 0 {
		kinds := make([]string, len(rule.Kinds))
		for i, k := range rule.Kinds {
			kinds[i] = InlineCode(k)
		}
		facts = append(facts, Bold("Matches")+": "+strings.Join(kinds, ", "))
	}
	if rule.WholeFile {
		facts = append(facts, Bold("Scope")+": whole file, after the tree walk")
	}
	w.BulletList(facts)

	if len(rule.ConfigKeys) > 0 {
		w.Header(2, "Options")
		var b strings.Builder
		fmt.Fprintf(&b, "lint:\n  rules:\n    %s:\n", rule.Name)
		for _, key := range rule.ConfigKeys {
			fmt.Fprintf(&b, "      %s: ...\n", key)
		}
		w.CodeBlock("yaml", b.String())
	}

	w.Header(2, "Disabling")
	w.CodeBlock("yaml", fmt.Sprintf("lint:\n  disabled: [%s]", rule.Name))

	return os.WriteFile(filepath.Join(outDir, rule.Name+".md"), w.Bytes(), 0600)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
