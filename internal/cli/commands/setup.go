package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ttcnlint/internal/cli/config"
	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
)

// Exit codes.
const (
	ExitClean    = 0
	ExitFindings = 1
	ExitError    = 2
)

// ExitCodeError carries the process exit code of a failed command.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error { return e.Err }

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// WithRuntime stores the loaded configuration, logger and renderer in ctx.
func WithRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, r *output.Renderer) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	ctx = context.WithValue(ctx, config.LoggerKey(), logger)
	return context.WithValue(ctx, rendererKey{}, r)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the dependencies stored by the root command.
// Commands run without a root get defaults and a renderer on the
// command's own writers.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		cfg = &config.Config{OutputFormat: config.DefaultOutput, Jobs: config.DefaultJobs()}
	}
	r, ok := ctx.Value(rendererKey{}).(*output.Renderer)
	if !ok {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: r,
	}
}
