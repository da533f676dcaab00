package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// GoToStarlark converts a Go value to a Starlark value.
// Supported types: string, int, int64, float64, bool, []string, []any,
// map[string]any and core.RuleOptions.
func GoToStarlark(v any) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case string:
		return starlark.String(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case bool:
		return starlark.Bool(val), nil
	case []string:
		list := make([]starlark.Value, len(val))
		for i, s := range val {
			list[i] = starlark.String(s)
		}
		return starlark.NewList(list), nil
	case []any:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			sv, err := GoToStarlark(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			list[i] = sv
		}
		return starlark.NewList(list), nil
	case core.RuleOptions:
		return GoToStarlark(map[string]any(val))
	case map[string]any:
		dict := starlark.NewDict(len(val))
		for k, v := range val {
			sv, err := GoToStarlark(v)
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", k, err)
			}
			if err := dict.SetKey(starlark.String(k), sv); err != nil {
				return nil, fmt.Errorf("dict setkey %q: %w", k, err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToGo converts a Starlark value back to a Go value.
// Returns: string, int64, float64, bool, []any, map[string]any, or nil
func ToGo(v starlark.Value) (any, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(val), nil
	case starlark.Int:
		i64, ok := val.Int64()
		if !ok {
			return val.String(), nil
		}
		return i64, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.Bool:
		return bool(val), nil
	case *starlark.List:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			gv, err := ToGo(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			result[i] = gv
		}
		return result, nil
	case starlark.Tuple:
		result := make([]any, val.Len())
		for i := 0; i < val.Len(); i++ {
			gv, err := ToGo(val.Index(i))
			if err != nil {
				return nil, fmt.Errorf("tuple index %d: %w", i, err)
			}
			result[i] = gv
		}
		return result, nil
	case *starlark.Dict:
		result := make(map[string]any)
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, got %s", item[0].Type())
			}
			gv, err := ToGo(item[1])
			if err != nil {
				return nil, fmt.Errorf("dict key %q: %w", key, err)
			}
			result[string(key)] = gv
		}
		return result, nil
	default:
		return val.String(), nil
	}
}

// nodeValue exposes a syntax node to scripts as a struct with the fields
// kind, begin, end, parent (kind name or None) and name (identifier text
// or None).
func nodeValue(sf *program.SourceFile, n ast.Node) starlark.Value {
	parent := starlark.Value(starlark.None)
	if p := n.Parent(); p != nil {
		parent = starlark.String(p.Kind().String())
	}
	name := starlark.Value(starlark.None)
	if id := nameOf(n); id != nil {
		name = starlark.String(sf.Text(id))
	}
	rng := n.Range()
	return starlarkstruct.FromStringDict(starlark.String("node"), starlark.StringDict{
		"kind":   starlark.String(n.Kind().String()),
		"begin":  starlark.MakeInt(rng.Begin),
		"end":    starlark.MakeInt(rng.End),
		"parent": parent,
		"name":   name,
	})
}

// nameOf returns the identifier a declaration introduces.
func nameOf(n ast.Node) *ast.Ident {
	switch n := n.(type) {
	case *ast.Module:
		return n.Name
	case *ast.FuncDecl:
		return n.Name
	case *ast.FormalPar:
		return n.Name
	case *ast.Declarator:
		return n.Name
	case *ast.ImportDecl:
		return n.Module
	case *ast.Ident:
		return n
	}
	return nil
}

// rangeOf accepts a node struct or a (begin, end) tuple. The range must
// lie within a text of length n.
func rangeOf(v starlark.Value, n int) (core.Range, error) {
	var begin, end starlark.Value
	switch t := v.(type) {
	case *starlarkstruct.Struct:
		var err error
		if begin, err = t.Attr("begin"); err != nil {
			return core.Range{}, fmt.Errorf("target has no begin: %w", err)
		}
		if end, err = t.Attr("end"); err != nil {
			return core.Range{}, fmt.Errorf("target has no end: %w", err)
		}
	case starlark.Tuple:
		if t.Len() != 2 {
			return core.Range{}, fmt.Errorf("range tuple must have 2 elements, got %d", t.Len())
		}
		begin, end = t.Index(0), t.Index(1)
	default:
		return core.Range{}, fmt.Errorf("target must be a node or (begin, end), got %s", v.Type())
	}

	b, err := starlark.AsInt32(begin)
	if err != nil {
		return core.Range{}, fmt.Errorf("begin: %w", err)
	}
	e, err := starlark.AsInt32(end)
	if err != nil {
		return core.Range{}, fmt.Errorf("end: %w", err)
	}
	rng := core.Range{Begin: b, End: e}
	if !rng.Valid(n) {
		return core.Range{}, fmt.Errorf("invalid range %s", rng)
	}
	return rng, nil
}
