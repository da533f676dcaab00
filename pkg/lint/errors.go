package lint

import (
	"errors"
	"fmt"
)

var (
	// ErrLinterSealed is returned when a rule is added after linting started.
	ErrLinterSealed = errors.New("linter is sealed: rules must be registered before the first Lint")

	// ErrDuplicateRule is returned when two rules share a name.
	ErrDuplicateRule = errors.New("duplicate rule")

	// ErrProblemsTaken is returned when a Context's problems are taken twice.
	ErrProblemsTaken = errors.New("problems already taken")

	// ErrFixNotConverged is returned when autofixes keep appearing after
	// the maximum number of fix passes.
	ErrFixNotConverged = errors.New("fix did not converge")
)

// Phase names the rule hook that failed.
type Phase string

// Rule phases.
const (
	PhaseRegister Phase = "register"
	PhaseCheck    Phase = "check"
	PhaseExit     Phase = "exit"
)

// RuleError reports a rule that failed while linting a file.
// The rule is skipped for the rest of that file; other rules keep running.
type RuleError struct {
	Rule     string
	Path     string
	Phase    Phase
	Panicked bool
	Err      error
}

func (e *RuleError) Error() string {
	what := "failed"
	if e.Panicked {
		what = "panicked"
	}
	if e.Path == "" {
		return fmt.Sprintf("rule %s %s during %s: %v", e.Rule, what, e.Phase, e.Err)
	}
	return fmt.Sprintf("%s: rule %s %s during %s: %v", e.Path, e.Rule, what, e.Phase, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
