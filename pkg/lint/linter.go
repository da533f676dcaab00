package lint

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// MaxFixPasses bounds the patch, reparse and relint cycles of Fix.
const MaxFixPasses = 10

// Linter owns the rules, the node-kind dispatch table and the fix engine.
//
// Rules are registered up front; the first call to Lint seals the linter,
// after which the dispatch table is read-only and Lint may be called from
// several goroutines at once.
type Linter struct {
	logger    *slog.Logger
	config    *Config
	reparser  Reparser
	maxPasses int

	mu       sync.Mutex
	sealOnce sync.Once
	sealed   bool
	rules    []boundRule
	names    map[string]bool
	matching map[ast.NodeKind][]int
}

type boundRule struct {
	rule  Rule
	kinds []ast.NodeKind
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithConfig sets the rule configuration. Disabled rules are never bound.
func WithConfig(cfg *Config) Option {
	return func(l *Linter) {
		if cfg != nil {
			l.config = cfg
		}
	}
}

// WithReparser enables iterative fixing: after each pass the patched text
// is reparsed and linted again until no autofix remains.
func WithReparser(r Reparser) Option {
	return func(l *Linter) {
		l.reparser = r
	}
}

// WithMaxPasses overrides MaxFixPasses.
func WithMaxPasses(n int) Option {
	return func(l *Linter) {
		if n > 0 {
			l.maxPasses = n
		}
	}
}

// NewLinter creates a linter without rules.
func NewLinter(opts ...Option) *Linter {
	l := &Linter{
		logger:    slog.New(slog.DiscardHandler),
		config:    NewConfig(),
		maxPasses: MaxFixPasses,
		names:     make(map[string]bool),
		matching:  make(map[ast.NodeKind][]int),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterRule constructs a T and adds it to the linter.
func RegisterRule[T any, PT interface {
	*T
	Rule
}](l *Linter) (PT, error) {
	rule := PT(new(T))
	return rule, l.Add(rule)
}

// Add binds a rule: it records the rule and lets it register the node
// kinds it wants to see. Rules disabled by the configuration are skipped.
func (l *Linter) Add(rule Rule) error {
	if rule == nil {
		return errors.New("nil rule")
	}
	name := rule.Name()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sealed {
		return fmt.Errorf("%w: %s", ErrLinterSealed, name)
	}
	if l.names[name] {
		return fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}
	if l.config.IsDisabled(name) {
		l.logger.Debug("rule disabled", "rule", name)
		return nil
	}

	kinds, err := l.registerKinds(rule)
	if err != nil {
		return err
	}

	idx := len(l.rules)
	l.rules = append(l.rules, boundRule{rule: rule, kinds: kinds})
	l.names[name] = true
	for _, k := range kinds {
		l.matching[k] = append(l.matching[k], idx)
	}
	l.logger.Debug("rule bound", "rule", name, "kinds", len(kinds))
	return nil
}

// registerKinds runs Register with a registrar that stops accepting kinds
// once Register returns. Repeated kinds are recorded once.
func (l *Linter) registerKinds(rule Rule) (kinds []ast.NodeKind, err error) {
	nr, ok := rule.(NodeRule)
	if !ok {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			kinds = nil
			err = &RuleError{Rule: rule.Name(), Phase: PhaseRegister, Panicked: true, Err: fmt.Errorf("%v", r)}
		}
	}()

	open := true
	seen := make(map[ast.NodeKind]bool)
	nr.Register(func(kind ast.NodeKind) {
		if !open {
			l.logger.Warn("matcher registered after Register returned", "rule", rule.Name(), "kind", kind.String())
			return
		}
		if seen[kind] {
			return
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	})
	open = false
	return kinds, nil
}

func (l *Linter) seal() {
	l.sealOnce.Do(func() {
		l.mu.Lock()
		l.sealed = true
		l.mu.Unlock()
	})
}

// Rules returns the metadata of the bound rules in registration order.
func (l *Linter) Rules() []core.RuleInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.RuleInfo, 0, len(l.rules))
	for _, b := range l.rules {
		out = append(out, describe(b.rule, b.kinds))
	}
	return out
}

// Severity returns the effective severity of problems reported by the
// named rule.
func (l *Linter) Severity(name string) core.Severity {
	def := core.SeverityError
	l.mu.Lock()
	for _, b := range l.rules {
		if b.rule.Name() == name {
			def = DefaultSeverity(b.rule)
			break
		}
	}
	l.mu.Unlock()
	return l.config.GetSeverity(name, def)
}

// Lint runs every rule over one file and returns the problems found.
//
// A file without a semantic model yields an empty set and no rule is
// invoked. A rule that fails or panics is skipped for the rest of the
// file; its failure is returned as a *RuleError joined into the error
// while the problems of the other rules are still returned.
func (l *Linter) Lint(sf *program.SourceFile) (ProblemSet, error) {
	l.seal()
	if sf == nil || sf.Module == nil {
		return NewProblemSet(), nil
	}

	ctx := newContext(sf, l)
	failed := make([]bool, len(l.rules))
	var errs []error

	fail := func(idx int, err error) {
		failed[idx] = true
		errs = append(errs, err)
		l.logger.Warn("rule failed", "rule", l.rules[idx].rule.Name(), "path", sf.Path, "error", err)
	}

	ast.Inspect(sf.AST.Root, func(n ast.Node) bool {
		for _, idx := range l.matching[n.Kind()] {
			if failed[idx] {
				continue
			}
			nr := l.rules[idx].rule.(NodeRule)
			if err := l.guard(nr, sf, PhaseCheck, func() error { return nr.Check(ctx, n) }); err != nil {
				fail(idx, err)
			}
		}
		return true
	})

	for idx, b := range l.rules {
		er, ok := b.rule.(ExitRule)
		if !ok || failed[idx] {
			continue
		}
		if err := l.guard(er, sf, PhaseExit, func() error { return er.Exit(ctx) }); err != nil {
			fail(idx, err)
		}
	}

	problems, err := ctx.Take()
	if err != nil {
		return nil, err
	}
	return problems, errors.Join(errs...)
}

func (l *Linter) guard(rule Rule, sf *program.SourceFile, phase Phase, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RuleError{Rule: rule.Name(), Path: sf.Path, Phase: phase, Panicked: true, Err: fmt.Errorf("%v", r)}
		}
	}()
	if e := fn(); e != nil {
		return &RuleError{Rule: rule.Name(), Path: sf.Path, Phase: phase, Err: e}
	}
	return nil
}

// LintProgram lints every file of p in listing order and hands each
// result to report. Files are processed sequentially.
func (l *Linter) LintProgram(p program.Program, report func(sf *program.SourceFile, problems ProblemSet, err error)) {
	for _, e := range p.Files() {
		problems, err := l.Lint(e.File)
		report(e.File, problems, err)
	}
}
