package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/ttcnlint/internal/baseline"
	"github.com/leapstack-labs/ttcnlint/internal/cli/config"
	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/lint"
	_ "github.com/leapstack-labs/ttcnlint/pkg/lint/rules" // register builtin rules
	"github.com/leapstack-labs/ttcnlint/pkg/lint/starlark"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
	"github.com/leapstack-labs/ttcnlint/pkg/snapshot"
)

// watchDebounce coalesces bursts of snapshot writes into one run.
const watchDebounce = 100 * time.Millisecond

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths          []string // Snapshot files or directories
	Fix            bool     // Write autofixes back to the sources
	UpdateBaseline bool     // Record current problems instead of reporting them
	Watch          bool     // Re-lint when snapshots change
	Disable        []string // Rule names to disable
	Rules          []string // Run only these rules
	Scripts        []string // Extra Starlark rule files
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Lint TTCN-3 program snapshots",
		Long: `Run the lint rules over parsed TTCN-3 files.

Inputs are program snapshots written by a TTCN-3 frontend: .ttsnap
(msgpack) or .json files, or directories searched for .ttsnap files.
Files with syntax errors are reported and skipped; ASN.1 files are
ignored.

Exit status is 0 when no problems are found, 1 when problems are
reported and 2 when a snapshot, script or source could not be processed.`,
		Example: `  # Lint every snapshot below the current directory
  ttcnlint lint

  # Apply autofixes to the sources
  ttcnlint lint --fix build/program.ttsnap

  # Accept the current problems, then only report new ones
  ttcnlint lint --baseline .ttcnlint/baseline.db --update-baseline
  ttcnlint lint --baseline .ttcnlint/baseline.db

  # Run a single rule with a custom script
  ttcnlint lint --rule no-empty --script rules/no-todo.star`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"."}
			}
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Apply autofixes and write the patched sources")
	cmd.Flags().IntP("jobs", "j", 0, "Files linted in parallel (default min(NumCPU, 4))")
	cmd.Flags().String("baseline", "", "Baseline database of accepted problems")
	cmd.Flags().BoolVar(&opts.UpdateBaseline, "update-baseline", false, "Record the current problems in the baseline")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint when snapshots change")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule names to disable")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Run only these rules")
	cmd.Flags().StringSliceVar(&opts.Scripts, "script", nil, "Starlark rule files to load")

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	l, err := buildLinter(cmdCtx, opts)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	if opts.Watch {
		return watchLint(ctx, cmdCtx, l, opts)
	}
	return lintOnce(ctx, cmdCtx, l, opts)
}

func buildLintConfig(cfg *config.Config, opts *LintOptions) (*lint.Config, error) {
	var lc *core.LintConfig
	if cfg != nil {
		lc = cfg.Lint
	}
	lintCfg, err := lint.ConfigFromLint(lc)
	if err != nil {
		return nil, err
	}
	for _, name := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(name))
	}
	return lintCfg, nil
}

func scriptPaths(cfg *config.Config, opts *LintOptions) []string {
	var paths []string
	if cfg != nil && cfg.Lint != nil {
		paths = append(paths, cfg.Lint.Scripts...)
	}
	return append(paths, opts.Scripts...)
}

// buildLinter binds the builtin rules and the configured scripts.
func buildLinter(cmdCtx *CommandContext, opts *LintOptions) (*lint.Linter, error) {
	lintCfg, err := buildLintConfig(cmdCtx.Cfg, opts)
	if err != nil {
		return nil, err
	}

	only := make([]string, 0, len(opts.Rules))
	for _, name := range opts.Rules {
		only = append(only, strings.TrimSpace(name))
	}

	l := lint.NewLinter(lint.WithLogger(cmdCtx.Logger), lint.WithConfig(lintCfg))
	if err := l.AddRegistered(only...); err != nil {
		return nil, err
	}

	known := lint.Names()
	if paths := scriptPaths(cmdCtx.Cfg, opts); len(paths) > 0 {
		loader := starlark.NewLoader(starlark.WithLogger(cmdCtx.Logger))
		scripts, err := loader.Load(paths...)
		if err != nil {
			return nil, err
		}
		for _, s := range scripts {
			known = append(known, s.Name())
			if len(only) > 0 && !slices.Contains(only, s.Name()) {
				continue
			}
			if err := l.Add(s); err != nil {
				return nil, fmt.Errorf("script %s: %w", s.Name(), err)
			}
		}
	}

	for _, name := range only {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
	}
	return l, nil
}

// lintTarget is one file to lint and the snapshot it came from.
type lintTarget struct {
	snapshot string
	file     *program.SourceFile
}

type lintResult struct {
	target     lintTarget
	problems   lint.ProblemSet
	err        error
	fixed      int
	suppressed int
}

// collectSnapshots expands the inputs into snapshot files. Directories
// contribute their .ttsnap files in lexical order.
func collectSnapshots(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), snapshot.ExtMsgpack) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}
	return files, nil
}

// loadTargets reads the snapshots and returns the lintable files.
// Unreadable snapshots and syntax errors are returned as messages.
func loadTargets(cmdCtx *CommandContext, paths []string) ([]lintTarget, []string, error) {
	files, err := collectSnapshots(paths)
	if err != nil {
		return nil, nil, err
	}

	var targets []lintTarget
	var problems []string
	for _, snapPath := range files {
		snap, err := snapshot.ReadFile(snapPath)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		prog, err := snap.Program()
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", snapPath, err))
			continue
		}
		for _, e := range prog.Files() {
			sf := e.File
			if strings.EqualFold(filepath.Ext(sf.Path), ".asn") {
				cmdCtx.Logger.Debug("skipping ASN.1 file", "path", sf.Path)
				continue
			}
			if sf.HasErrors() {
				for _, se := range sf.AST.Errors {
					problems = append(problems, fmt.Sprintf("%s:%s: syntax error: %s", sf.Path, sf.Location(se.Range.Begin), se.Message))
				}
				continue
			}
			targets = append(targets, lintTarget{snapshot: snapPath, file: sf})
		}
	}
	return targets, problems, nil
}

// lintFiles lints the targets with at most jobs files in flight. Results
// keep the order of targets.
func lintFiles(ctx context.Context, l *lint.Linter, targets []lintTarget, jobs int) ([]lintResult, error) {
	if jobs <= 0 {
		jobs = config.DefaultJobs()
	}
	results := make([]lintResult, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, t := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			problems, err := l.Lint(t.file)
			results[i] = lintResult{target: t, problems: problems, err: err}
			return nil
		})
	}
	return results, g.Wait()
}

// ruleErrors flattens the joined error returned by Lint.
func ruleErrors(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func lintOnce(ctx context.Context, cmdCtx *CommandContext, l *lint.Linter, opts *LintOptions) error {
	targets, errs, err := loadTargets(cmdCtx, opts.Paths)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}

	results, err := lintFiles(ctx, l, targets, cmdCtx.Cfg.Jobs)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	for _, res := range results {
		errs = append(errs, ruleErrors(res.err)...)
	}

	store, err := openBaseline(cmdCtx, opts.UpdateBaseline)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	if opts.UpdateBaseline {
		return updateBaseline(ctx, cmdCtx, store, results, errs)
	}
	if store != nil {
		set, err := store.Load(ctx)
		if err != nil {
			return &ExitCodeError{Code: ExitError, Err: err}
		}
		for i := range results {
			res := &results[i]
			sf := res.target.file
			res.problems, res.suppressed = set.Filter(sf.Path, sf.AST.Src, res.problems)
		}
	}

	if opts.Fix {
		errs = append(errs, applyFixes(cmdCtx, l, results)...)
	}

	doc := buildLintOutput(l, targets, results, errs)
	if err := renderLintOutput(cmdCtx.Renderer, doc); err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}

	switch {
	case len(errs) > 0:
		return &ExitCodeError{Code: ExitError}
	case doc.Summary.Problems > 0:
		return &ExitCodeError{Code: ExitFindings}
	}
	return nil
}

// openBaseline opens the configured baseline. Without --update-baseline a
// missing database means nothing is suppressed.
func openBaseline(cmdCtx *CommandContext, update bool) (*baseline.Store, error) {
	path := cmdCtx.Cfg.Baseline
	if path == "" {
		if update {
			return nil, errors.New("--update-baseline requires a baseline path")
		}
		return nil, nil
	}
	if !update {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			cmdCtx.Logger.Debug("baseline not found", "path", path)
			return nil, nil
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create baseline directory: %w", err)
		}
	}
	return baseline.Open(path)
}

func updateBaseline(ctx context.Context, cmdCtx *CommandContext, store *baseline.Store, results []lintResult, errs []string) error {
	var entries []baseline.Entry
	for _, res := range results {
		sf := res.target.file
		entries = append(entries, baseline.EntriesFor(sf.Path, sf.AST.Src, res.problems)...)
	}
	runID, err := store.Replace(ctx, entries)
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: err}
	}
	cmdCtx.Logger.Debug("baseline updated", "run", runID, "path", store.Path())

	r := cmdCtx.Renderer
	for _, e := range errs {
		r.Error(e)
	}
	r.Success(fmt.Sprintf("Baseline updated: %s recorded", plural(len(entries), "problem")))
	if len(errs) > 0 {
		return &ExitCodeError{Code: ExitError}
	}
	return nil
}

// applyFixes patches each file with fixable problems and writes the
// result next to its snapshot.
func applyFixes(cmdCtx *CommandContext, l *lint.Linter, results []lintResult) []string {
	var errs []string
	for i := range results {
		res := &results[i]
		if res.problems.Fixable() == 0 {
			continue
		}
		fixed, err := l.Fix(res.target.file, res.problems)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", res.target.file.Path, err))
			continue
		}
		if !fixed.Patched {
			continue
		}
		dest := sourcePath(res.target)
		if err := writeSource(dest, fixed.Source); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		res.fixed = res.problems.Len() - fixed.Remaining.Len()
		res.problems = fixed.Remaining
		cmdCtx.Logger.Debug("fixed file", "path", dest, "applied", fixed.Applied)
	}
	return errs
}

// sourcePath resolves a file path recorded in a snapshot. Relative paths
// are relative to the snapshot.
func sourcePath(t lintTarget) string {
	if filepath.IsAbs(t.file.Path) {
		return t.file.Path
	}
	return filepath.Join(filepath.Dir(t.snapshot), t.file.Path)
}

func writeSource(path, src string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ttcnlint-fix-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.WriteString(src); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func buildLintOutput(l *lint.Linter, targets []lintTarget, results []lintResult, errs []string) output.LintOutput {
	doc := output.LintOutput{
		Files:   []output.LintFileResult{},
		Errors:  errs,
		Summary: output.LintSummary{Files: len(targets)},
	}
	for _, res := range results {
		doc.Summary.Fixed += res.fixed
		doc.Summary.Suppressed += res.suppressed
		if res.problems.Len() == 0 {
			continue
		}

		sf := res.target.file
		fr := output.LintFileResult{Path: sf.Path}
		for _, p := range res.problems.Sorted() {
			sev := l.Severity(p.Reporter)
			loc := sf.Location(p.Range.Begin)
			fr.Problems = append(fr.Problems, output.LintProblem{
				Rule:        p.Reporter,
				Severity:    sev.String(),
				Description: p.Description,
				Line:        loc.Line + 1,
				Column:      loc.Column + 1,
				Begin:       p.Range.Begin,
				End:         p.Range.End,
				Fixable:     p.Autofix != nil,
			})
			switch sev {
			case core.SeverityError:
				doc.Summary.Errors++
			case core.SeverityWarning:
				doc.Summary.Warnings++
			case core.SeverityInfo:
				doc.Summary.Info++
			default:
				doc.Summary.Hints++
			}
		}
		doc.Summary.Problems += len(fr.Problems)
		doc.Files = append(doc.Files, fr)
	}
	return doc
}

func renderLintOutput(r *output.Renderer, doc output.LintOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(doc)
	}

	styles := r.Styles()
	for _, f := range doc.Files {
		r.Println(styles.Path.Render(f.Path))
		for _, p := range f.Problems {
			sev, _ := core.ParseSeverity(p.Severity)
			r.Printf("  %s  %s  %s  %s\n",
				styles.Location.Render(fmt.Sprintf("%d:%d", p.Line, p.Column)),
				styles.Severity(sev).Render(p.Severity),
				p.Description,
				styles.Rule.Render(p.Rule),
			)
		}
		r.Println("")
	}
	for _, e := range doc.Errors {
		r.Error(e)
	}

	s := doc.Summary
	if s.Fixed > 0 {
		r.Success(fmt.Sprintf("Fixed %s", plural(s.Fixed, "problem")))
	}
	if s.Suppressed > 0 {
		r.Println(styles.Muted.Render(fmt.Sprintf("%s suppressed by baseline", plural(s.Suppressed, "problem"))))
	}
	if s.Problems == 0 {
		r.Success("no problems found")
		return nil
	}
	r.Println(styles.Header.Render(fmt.Sprintf("%s (%d errors, %d warnings, %d info, %d hints)",
		plural(s.Problems, "problem"), s.Errors, s.Warnings, s.Info, s.Hints)))
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// watchLint lints once and again after every change to a snapshot,
// until ctx is cancelled.
func watchLint(ctx context.Context, cmdCtx *CommandContext, l *lint.Linter, opts *LintOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("failed to create watcher: %w", err)}
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range watchDirs(opts.Paths) {
		if err := watcher.Add(dir); err != nil {
			return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("failed to watch %s: %w", dir, err)}
		}
	}

	r := cmdCtx.Renderer
	run := func() {
		var exitErr *ExitCodeError
		if err := lintOnce(ctx, cmdCtx, l, opts); err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
			r.Error(err.Error())
		}
	}
	run()

	var debounce *time.Timer
	trigger := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := snapshot.FormatOf(event.Name); err != nil {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			r.Println(r.Styles().Muted.Render("Change detected, linting again"))
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watch error", "error", err)
		}
	}
}

// watchDirs returns the directories to watch for the inputs: directories
// with all their subdirectories, and the parent of each file.
func watchDirs(paths []string) []string {
	var dirs []string
	add := func(dir string) {
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			add(filepath.Dir(p))
			continue
		}
		_ = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				add(path)
			}
			return nil
		})
	}
	return dirs
}
