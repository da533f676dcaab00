package snapshot_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ttcnlint/pkg/ast"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
	"github.com/leapstack-labs/ttcnlint/pkg/program/programtest"
	"github.com/leapstack-labs/ttcnlint/pkg/snapshot"
)

func sampleProgram(t *testing.T) *program.Set {
	t.Helper()
	cb := programtest.New()
	c := cb.File("c.ttcn", cb.Module("C", cb.Function("cfun", nil)))

	ab := programtest.New()
	a := ab.File("a.ttcn", ab.Module("A",
		ab.Import("C"),
		ab.PublicImport("C"),
		ab.TransitImport("C"),
		ab.Const("integer", "k", ab.Lit("1")),
		ab.FunctionReturning("g", "integer", true, programtest.Params(
			ab.Param(ast.DirInOut, "integer", "p"),
			ab.TemplateParam(ast.DirNone, "integer", "tp"),
		),
			ab.Var("integer", "x", ab.Binary(ab.Ident("p"), "+", ab.Lit("1"))),
			ab.VarTemplate("integer", "vt", nil),
			ab.Assign(ab.Select(ab.Ident("r"), "f"), ab.Ident("x")),
			ab.If(ab.Ident("c"), ab.Do(ab.Call("cfun"))),
			ab.While(ab.Ident("c"), ab.Block()),
			ab.Return(ab.Ident("x")),
		),
		ab.Control(ab.LocalConst("integer", "lc", ab.Lit("2"))),
	))
	set := programtest.Program(a, c)
	a.Module.RequiredImports["C"] = true
	return set
}

// shape flattens a tree into kind/range/text lines for comparison.
func shape(sf *program.SourceFile) []string {
	var out []string
	ast.Inspect(sf.AST.Root, func(n ast.Node) bool {
		parent := "-"
		if p := n.Parent(); p != nil {
			parent = p.Kind().String()
		}
		out = append(out, n.Kind().String()+" "+n.Range().String()+" "+parent+" "+sf.Text(n))
		return true
	})
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []snapshot.Format{snapshot.Msgpack, snapshot.JSON} {
		t.Run(map[snapshot.Format]string{snapshot.Msgpack: "msgpack", snapshot.JSON: "json"}[format], func(t *testing.T) {
			orig := sampleProgram(t)
			snap, err := snapshot.Capture(orig)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, snapshot.Encode(&buf, snap, format))
			decoded, err := snapshot.Decode(&buf, format)
			require.NoError(t, err)

			got, err := decoded.Program()
			require.NoError(t, err)

			require.Len(t, got.Files(), 2)
			for i, e := range got.Files() {
				want := orig.Files()[i].File
				assert.Equal(t, want.Path, e.Path)
				assert.Equal(t, want.AST.Src, e.File.AST.Src)
				assert.Equal(t, shape(want), shape(e.File))
			}

			a := got.File("a.ttcn")
			require.NotNil(t, a.Module)
			assert.Equal(t, "A", a.Module.Name)
			assert.Len(t, a.Module.Imports, 3)
			assert.True(t, a.Module.RequiredImports["C"])
			assert.True(t, a.Module.Dependencies["C"])
			assert.NotNil(t, got.GetModule("C"))
		})
	}
}

func TestRoundTrip_Attributes(t *testing.T) {
	snap, err := snapshot.Capture(sampleProgram(t))
	require.NoError(t, err)
	got, err := snap.Program()
	require.NoError(t, err)

	var (
		fn     *ast.FuncDecl
		params []*ast.FormalPar
		decls  []*ast.ValueDecl
		defs   []*ast.ModuleDef
		binOp  string
	)
	ast.Inspect(got.File("a.ttcn").AST.Root, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncDecl:
			fn = n
		case *ast.FormalPar:
			params = append(params, n)
		case *ast.ValueDecl:
			decls = append(decls, n)
		case *ast.ModuleDef:
			defs = append(defs, n)
		case *ast.BinaryExpr:
			binOp = n.Op
		}
		return true
	})

	require.NotNil(t, fn)
	assert.Equal(t, "function", fn.Keyword)
	assert.True(t, fn.ReturnTemplate)
	require.Len(t, params, 2)
	assert.Equal(t, ast.DirInOut, params[0].Direction)
	assert.True(t, params[1].Template)
	assert.Equal(t, "+", binOp)

	var kinds []string
	for _, d := range decls {
		switch {
		case d.Var && d.Template:
			kinds = append(kinds, "var template")
		case d.Var:
			kinds = append(kinds, "var")
		case d.Const:
			kinds = append(kinds, "const")
		}
	}
	assert.Equal(t, []string{"const", "var", "var template", "const"}, kinds)

	var public []bool
	for _, d := range defs {
		public = append(public, d.Public)
	}
	assert.Equal(t, []bool{false, true, false, false, false, false}, public)
}

func TestDecode_Errors(t *testing.T) {
	leaf := func(kind string, b, e uint32) *snapshot.Node {
		return &snapshot.Node{Kind: kind, Begin: b, End: e}
	}
	file := func(src string, root *snapshot.Node) *snapshot.Snapshot {
		return &snapshot.Snapshot{Schema: snapshot.SchemaVersion, Files: []snapshot.File{{Path: "x.ttcn", Src: src, Root: root}}}
	}

	tests := []struct {
		name    string
		snap    *snapshot.Snapshot
		wantErr error
	}{
		{
			name:    "schema mismatch",
			snap:    &snapshot.Snapshot{Schema: snapshot.SchemaVersion + 1},
			wantErr: snapshot.ErrSchemaMismatch,
		},
		{
			name:    "unknown kind",
			snap:    file("abc", &snapshot.Node{Kind: "Root", End: 3, Edges: map[string][]*snapshot.Node{"modules": {leaf("Lambda", 0, 1)}}}),
			wantErr: snapshot.ErrUnknownKind,
		},
		{
			name:    "range outside source",
			snap:    file("abc", leaf("Root", 0, 9)),
			wantErr: snapshot.ErrMalformed,
		},
		{
			name:    "reversed range",
			snap:    file("abc", leaf("Root", 2, 1)),
			wantErr: snapshot.ErrMalformed,
		},
		{
			name:    "wrong child type",
			snap:    file("abc", &snapshot.Node{Kind: "Root", End: 3, Edges: map[string][]*snapshot.Node{"modules": {leaf("Ident", 0, 1)}}}),
			wantErr: snapshot.ErrMalformed,
		},
		{
			name: "unknown direction",
			snap: file("abc", &snapshot.Node{Kind: "FormalPar", End: 3, Attrs: map[string]string{"direction": "sideways"}}),
			wantErr: snapshot.ErrMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, snapshot.Encode(&buf, tt.snap, snapshot.JSON))

			snap, err := snapshot.Decode(&buf, snapshot.JSON)
			if err == nil {
				_, err = snap.Program()
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_Garbage(t *testing.T) {
	_, err := snapshot.Decode(bytes.NewBufferString("not msgpack"), snapshot.Msgpack)
	require.ErrorIs(t, err, snapshot.ErrMalformed)

	_, err = snapshot.Decode(bytes.NewBufferString(`{"schema":1,"bogus":true}`), snapshot.JSON)
	require.ErrorIs(t, err, snapshot.ErrMalformed)
}

func TestFile_SyntaxErrorsSurvive(t *testing.T) {
	sf := program.NewSourceFile("e.ttcn", "module", nil, []program.SyntaxError{{Range: core.Range{Begin: 0, End: 6}, Message: "expected name"}})
	f, err := snapshot.CaptureFile(sf)
	require.NoError(t, err)

	got, err := f.SourceFile()
	require.NoError(t, err)
	assert.True(t, got.HasErrors())
	assert.Equal(t, "expected name", got.AST.Errors[0].Message)
	assert.Nil(t, got.Module)
}

func TestReadWriteFile(t *testing.T) {
	snap, err := snapshot.Capture(sampleProgram(t))
	require.NoError(t, err)
	dir := t.TempDir()

	for _, name := range []string{"prog.ttsnap", "prog.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, snapshot.WriteFile(path, snap))

			got, err := snapshot.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, snap.Files[0].Src, got.Files[0].Src)
			assert.Equal(t, snap.Files[1].Path, got.Files[1].Path)
		})
	}

	t.Run("unknown extension", func(t *testing.T) {
		err := snapshot.WriteFile(filepath.Join(dir, "prog.txt"), snap)
		require.ErrorIs(t, err, snapshot.ErrUnknownFormat)

		_, err = snapshot.ReadFile(filepath.Join(dir, "prog.txt"))
		require.ErrorIs(t, err, snapshot.ErrUnknownFormat)
	})
}
