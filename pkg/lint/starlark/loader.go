package starlark

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

// LoadError represents an error loading a rule script.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Loader turns Starlark files into rules.
//
// A rule script assigns the globals name (required), description,
// severity, fixable, kinds and defaults, and defines check(ctx, node)
// and/or exit(ctx). check is called for nodes of the listed kinds, exit
// once per file.
type Loader struct {
	logger *slog.Logger
	pool   *ThreadPool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger scripts print to.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxSteps bounds the execution steps of one hook call.
func WithMaxSteps(n uint64) LoaderOption {
	return func(l *Loader) {
		l.pool.maxSteps = n
	}
}

// NewLoader creates a loader. All rules it loads share one thread pool.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: slog.New(slog.DiscardHandler)}
	l.pool = NewThreadPool(0, nil)
	for _, opt := range opts {
		opt(l)
	}
	l.pool.logger = l.logger
	return l
}

// Load loads every path. Directories are searched recursively for .star
// files, which are loaded in lexical order.
func (l *Loader) Load(paths ...string) ([]*ScriptRule, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &LoadError{File: p, Message: fmt.Sprintf("failed to stat: %v", err)}
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".star") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{File: p, Message: fmt.Sprintf("failed to walk directory: %v", err)}
		}
		slices.Sort(found)
		files = append(files, found...)
	}

	rules := make([]*ScriptRule, 0, len(files))
	for _, f := range files {
		rule, err := l.LoadFile(f)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadFile loads a single rule script.
func (l *Loader) LoadFile(path string) (*ScriptRule, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from configuration
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}
	return l.LoadSource(path, content)
}

// LoadSource loads a rule script from memory; path is used in messages.
func (l *Loader) LoadSource(path string, src []byte) (*ScriptRule, error) {
	fail := func(format string, args ...any) (*ScriptRule, error) {
		return nil, &LoadError{File: path, Message: fmt.Sprintf(format, args...)}
	}

	thread := &starlark.Thread{
		Name: "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, msg string) {
			l.logger.Debug("script print", "file", path, "msg", msg)
		},
	}
	thread.SetMaxExecutionSteps(l.pool.maxSteps)

	globals, err := starlark.ExecFile(thread, path, src, nil) //nolint:staticcheck // SA1019: will migrate to ExecFileOptions later
	if err != nil {
		return fail("Starlark execution error: %v", err)
	}

	r := &ScriptRule{path: path, severity: core.SeverityWarning, pool: l.pool}

	name, ok, err := stringGlobal(globals, "name")
	switch {
	case err != nil:
		return fail("%v", err)
	case !ok || name == "":
		return fail("rule script must assign a non-empty name")
	}
	r.name = name

	desc, ok, err := stringGlobal(globals, "description")
	if err != nil {
		return fail("%v", err)
	}
	if !ok {
		desc = "Scripted rule " + filepath.Base(path)
	}
	r.description = desc

	sev, ok, err := stringGlobal(globals, "severity")
	if err != nil {
		return fail("%v", err)
	}
	if ok {
		if r.severity, ok = core.ParseSeverity(sev); !ok {
			return fail("invalid severity %q", sev)
		}
	}

	if v, ok := globals["fixable"]; ok {
		b, isBool := v.(starlark.Bool)
		if !isBool {
			return fail("fixable must be a bool, got %s", v.Type())
		}
		r.fixable = bool(b)
	}

	if r.kinds, err = kindsGlobal(globals); err != nil {
		return fail("%v", err)
	}

	if v, ok := globals["defaults"]; ok {
		d, isDict := v.(*starlark.Dict)
		if !isDict {
			return fail("defaults must be a dict, got %s", v.Type())
		}
		gv, err := ToGo(d)
		if err != nil {
			return fail("defaults: %v", err)
		}
		r.defaults = gv.(map[string]any)
	}

	if r.check, err = hookGlobal(globals, "check", 2); err != nil {
		return fail("%v", err)
	}
	if r.exit, err = hookGlobal(globals, "exit", 1); err != nil {
		return fail("%v", err)
	}

	switch {
	case r.check == nil && r.exit == nil:
		return fail("rule script must define check(ctx, node) or exit(ctx)")
	case r.check != nil && len(r.kinds) == 0:
		return fail("check requires a non-empty kinds list")
	case r.check == nil && len(r.kinds) > 0:
		return fail("kinds is set but check is not defined")
	}

	l.logger.Debug("loaded rule script", "file", path, "rule", r.name, "kinds", len(r.kinds))
	return r, nil
}

func stringGlobal(globals starlark.StringDict, key string) (string, bool, error) {
	v, ok := globals[key]
	if !ok {
		return "", false, nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return "", false, fmt.Errorf("%s must be a string, got %s", key, v.Type())
	}
	return s, true, nil
}

func kindsGlobal(globals starlark.StringDict) ([]ast.NodeKind, error) {
	v, ok := globals["kinds"]
	if !ok {
		return nil, nil
	}
	seq, ok := v.(starlark.Indexable)
	if !ok {
		return nil, fmt.Errorf("kinds must be a list of strings, got %s", v.Type())
	}
	kinds := make([]ast.NodeKind, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		name, ok := starlark.AsString(seq.Index(i))
		if !ok {
			return nil, fmt.Errorf("kinds[%d] must be a string", i)
		}
		kind, ok := ast.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown node kind %q", name)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func hookGlobal(globals starlark.StringDict, key string, params int) (starlark.Callable, error) {
	v, ok := globals[key]
	if !ok {
		return nil, nil
	}
	fn, ok := v.(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("%s must be a function, got %s", key, v.Type())
	}
	if fn.NumParams() != params {
		return nil, fmt.Errorf("%s must take %d parameters, takes %d", key, params, fn.NumParams())
	}
	return fn, nil
}
