// Package cli provides the command-line interface for ttcnlint.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ttcnlint/internal/cli/commands"
	"github.com/leapstack-labs/ttcnlint/internal/cli/config"
	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
)

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ttcnlint",
		Short: "ttcnlint - TTCN-3 lint engine",
		Long: `ttcnlint checks TTCN-3 programs with a set of independent rules
and repairs some problems automatically.

It reads program snapshots produced by a TTCN-3 frontend, reports the
problems found by the builtin and Starlark rules, and can record a
baseline of accepted problems.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			loader := config.NewLoader()
			cfg, err := loader.Load(cfgFile, cmd.Flags())
			if err != nil {
				return &commands.ExitCodeError{Code: commands.ExitError, Err: err}
			}

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			mode, err := output.ParseMode(cfg.OutputFormat)
			if err != nil {
				return &commands.ExitCodeError{Code: commands.ExitError, Err: err}
			}
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			cmd.SetContext(commands.WithRuntime(cmd.Context(), cfg, logger, renderer))

			if used := loader.FileUsed(); used != "" {
				logger.Debug("using config file", "path", used, "root", cfg.ProjectRoot)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
TTCN-3 lint engine built with Go
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./ttcnlint.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewLintCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command on the process arguments and returns the
// exit code.
func Execute(ctx context.Context) int {
	return Run(ctx, NewRootCmd(), os.Args[1:])
}

// Run executes rootCmd with args and returns the exit code. Errors that
// carry a message are printed to the command's error output.
func Run(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	var exitErr *commands.ExitCodeError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return commands.ExitCode(err)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ttcnlint.

To load completions:

Bash:
  $ source <(ttcnlint completion bash)

Zsh:
  $ ttcnlint completion zsh > "${fpath[1]}/_ttcnlint"

Fish:
  $ ttcnlint completion fish | source

PowerShell:
  PS> ttcnlint completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
