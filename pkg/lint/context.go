package lint

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// Context is the per-file session handed to rules. It owns the problems
// reported while linting one file and is discarded afterwards.
type Context struct {
	file     *program.SourceFile
	linter   *Linter
	problems ProblemSet
	taken    bool
}

func newContext(sf *program.SourceFile, l *Linter) *Context {
	return &Context{
		file:     sf,
		linter:   l,
		problems: NewProblemSet(),
	}
}

// File returns the file being linted.
func (c *Context) File() *program.SourceFile {
	return c.file
}

// Module returns the semantic model of the file being linted.
func (c *Context) Module() *program.ModuleDescriptor {
	return c.file.Module
}

// Program returns the program the file belongs to. It may be nil for
// files linted on their own.
func (c *Context) Program() program.Program {
	return c.file.Program
}

// Logger returns the linter's logger.
func (c *Context) Logger() *slog.Logger {
	return c.linter.logger
}

// Options returns the configured options of a rule.
func (c *Context) Options(rule Rule) core.RuleOptions {
	return c.linter.config.Options(rule.Name())
}

// Report records a problem. A problem whose range was already reported
// is dropped; Report returns false in that case.
func (c *Context) Report(rule Rule, rng core.Range, message string, fix *Autofix) bool {
	if c.taken {
		c.linter.logger.Warn("report after problems were taken",
			"rule", rule.Name(), "path", c.file.Path)
		return false
	}
	return c.problems.Insert(Problem{
		Range:       rng,
		Description: message,
		Reporter:    rule.Name(),
		Autofix:     fix,
	})
}

// Reportf records a problem without autofix using a format string.
func (c *Context) Reportf(rule Rule, rng core.Range, format string, args ...any) bool {
	return c.Report(rule, rng, fmt.Sprintf(format, args...), nil)
}

// Problems returns the problems reported so far, ordered by range.
func (c *Context) Problems() []Problem {
	return c.problems.Sorted()
}

// Take hands the problem set over to the caller. It can be called once.
func (c *Context) Take() (ProblemSet, error) {
	if c.taken {
		return nil, ErrProblemsTaken
	}
	c.taken = true
	out := c.problems
	c.problems = nil
	return out, nil
}
