package program_test

import (
	"testing"

	"github.com/leapstack-labs/ttcnlint/pkg/program"
	"github.com/leapstack-labs/ttcnlint/pkg/program/programtest"
	"github.com/leapstack-labs/ttcnlint/pkg/semantic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeModules() (a, b, c *program.SourceFile) {
	cb := programtest.New()
	c = cb.File("c.ttcn", cb.Module("C",
		cb.Function("helper", nil),
	))

	bb := programtest.New()
	b = bb.File("b.ttcn", bb.Module("B",
		bb.PublicImport("C"),
		bb.Function("bfun", nil),
	))

	ab := programtest.New()
	a = ab.File("a.ttcn", ab.Module("A",
		ab.Import("B"),
		ab.TransitImport("B"),
		ab.Import("D"),
		ab.Function("f", nil,
			ab.Do(ab.Call("helper")),
			ab.Do(ab.Call("bfun")),
		),
	))
	return a, b, c
}

func TestSet_Resolve(t *testing.T) {
	a, b, c := threeModules()
	p := programtest.Program(a, b, c)

	require.NotNil(t, a.Module)
	assert.Equal(t, "A", a.Module.Name)
	assert.Same(t, a.Module, p.GetModule("A"))
	assert.Nil(t, p.GetModule("D"))

	assert.Len(t, a.Module.Imports, 3)
	assert.Equal(t, map[string]bool{"B": true, "C": true}, a.Module.Dependencies)
	assert.Equal(t, map[string]bool{"B": true}, a.Module.TransitiveProviders)

	imp, ok := a.Module.FindImport("B", true)
	require.True(t, ok)
	assert.True(t, imp.Transit)
	assert.Equal(t, "import from B { import all }", a.Text(imp.Decl))

	_, ok = a.Module.FindImport("D", true)
	assert.False(t, ok)

	pub := b.Module.ImportsOf("C")
	require.Len(t, pub, 1)
	assert.True(t, pub[0].Public)
}

func TestSet_ImportScopeResolution(t *testing.T) {
	a, b, c := threeModules()
	programtest.Program(a, b, c)

	sym := a.Module.Scope.Resolve("helper")
	require.NotNil(t, sym)
	assert.Equal(t, "C", sym.Module)
	assert.True(t, sym.Flags.Has(semantic.FlagFunction))

	assert.Nil(t, c.Module.Scope.Resolve("bfun"), "C imports nothing")
}

func TestSet_AddDuplicate(t *testing.T) {
	a, _, _ := threeModules()
	set := program.NewSet()

	require.NoError(t, set.Add(a))
	assert.ErrorIs(t, set.Add(a), program.ErrDuplicateFile)
}

func TestSet_ReplaceKeepsOrderAndRequiredImports(t *testing.T) {
	a, b, c := threeModules()
	p := programtest.Program(a, b, c)
	a.Module.RequiredImports["D"] = true

	nb := programtest.New()
	b2 := nb.File("b.ttcn", nb.Module("B", nb.Function("other", nil)))
	p.Replace(b2)
	p.Resolve()

	paths := []string{}
	for _, e := range p.Files() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"a.ttcn", "b.ttcn", "c.ttcn"}, paths)
	assert.Same(t, b2, p.File("b.ttcn"))
	assert.True(t, a.Module.RequiredImports["D"])
	assert.Equal(t, map[string]bool{}, a.Module.Dependencies, "B no longer provides bfun or C")
}

func TestSourceFile_NoModule(t *testing.T) {
	sf := program.NewSourceFile("empty.ttcn", "", nil, nil)
	programtest.Program(sf)

	assert.Nil(t, sf.Module)
	assert.NotNil(t, sf.AST.Root)
	assert.False(t, sf.HasErrors())
}
