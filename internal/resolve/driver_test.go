package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/graph"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/structure"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// buildCase opens a store, writes files under a temp case dir and builds the
// graph for modules A and B (B depends on A).
func buildCase(t *testing.T, files map[string]string) (*project.Store, *graph.Graph) {
	t.Helper()
	ctx := context.Background()

	root := t.TempDir()
	writeFiles(t, root, files)

	s, err := project.Open(project.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	st := &structure.TestStructure{
		Modules: []structure.ModuleSpec{
			{Name: "A"},
			{Name: "B", DependsOn: []string{"A"}},
		},
		FileToResolve: structure.FileRef{ModuleName: "B", RelativePath: "f.src"},
	}
	g, err := graph.Build(ctx, s, st, root, nil)
	require.NoError(t, err)
	return s, g
}

func treeWith(decls ...Declaration) ProviderFunc {
	return func(_ context.Context, file project.File) (*Tree, error) {
		return &Tree{Path: file.FullPath(), Declarations: decls}, nil
	}
}

func TestDriver_ExtractsInheritors(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": "sealed"})

	var seen project.File
	d := &Driver{
		Files: s,
		Provider: ProviderFunc(func(_ context.Context, file project.File) (*Tree, error) {
			seen = file
			return &Tree{Declarations: []Declaration{
				{Name: "B.helper", Kind: KindFunction},
				{Name: "B.Base", Kind: KindClass, Sealed: true, Inheritors: []string{"B.Y", "B.X"}},
			}}, nil
		}),
	}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	require.False(t, out.Failed())
	require.NotNil(t, out.Fact)

	assert.Equal(t, "B.Base", out.Fact.Declaration)
	assert.Equal(t, []string{"B.Y", "B.X"}, out.Inheritors(), "driver keeps provider order")
	assert.Equal(t, "B/f.src", seen.FullPath())
	assert.Equal(t, "sealed", string(seen.Content))
}

func TestDriver_FirstSealedWins(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": ""})
	d := &Driver{Files: s, Provider: treeWith(
		Declaration{Name: "B.Open", Kind: KindClass},
		Declaration{Name: "B.First", Kind: KindInterface, Sealed: true, Inheritors: []string{"B.One"}},
		Declaration{Name: "B.Second", Kind: KindClass, Sealed: true, Inheritors: []string{"B.Two"}},
	)}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	require.NotNil(t, out.Fact)
	assert.Equal(t, "B.First", out.Fact.Declaration)
	assert.Equal(t, []string{"B.One"}, out.Fact.Inheritors)
}

func TestDriver_SealedNonClassIgnored(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": ""})
	d := &Driver{Files: s, Provider: treeWith(
		Declaration{Name: "B.fn", Kind: KindFunction, Sealed: true, Inheritors: []string{"B.Z"}},
	)}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	assert.False(t, out.Failed())
	assert.Nil(t, out.Fact)
	assert.Nil(t, out.Inheritors())
}

func TestDriver_NoSealedDeclarationIsAbsentFact(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": ""})
	d := &Driver{Files: s, Provider: treeWith(Declaration{Name: "B.C", Kind: KindClass})}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	assert.False(t, out.Failed())
	assert.Nil(t, out.Fact)
}

func TestDriver_NilTreeIsAbsentFact(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": ""})
	d := &Driver{Files: s, Provider: ProviderFunc(func(context.Context, project.File) (*Tree, error) {
		return nil, nil
	})}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	assert.Nil(t, out.Fact)
}

func TestDriver_UnknownModule(t *testing.T) {
	s, g := buildCase(t, nil)
	d := &Driver{Files: s, Provider: treeWith()}

	_, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "Z", RelativePath: "f.src"})
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.UnknownModule))
}

func TestDriver_FileNotFound(t *testing.T) {
	s, g := buildCase(t, map[string]string{"A/f.src": ""})
	called := false
	d := &Driver{Files: s, Provider: ProviderFunc(func(context.Context, project.File) (*Tree, error) {
		called = true
		return nil, nil
	})}

	_, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.Error(t, err)

	var ferr *failure.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, failure.FileNotFound, ferr.Kind)
	assert.Equal(t, "B/f.src", ferr.Path)
	assert.False(t, called, "provider must not run for a missing file")
}

func TestDriver_ProviderFailureUnmodified(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": ""})
	sentinel := errors.New("engine crashed")
	d := &Driver{Files: s, Provider: ProviderFunc(func(context.Context, project.File) (*Tree, error) {
		return nil, sentinel
	})}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	require.True(t, out.Failed())
	assert.Same(t, sentinel, out.Err)
	assert.Nil(t, out.Fact)
}

func TestDriver_ProviderPanic(t *testing.T) {
	s, g := buildCase(t, map[string]string{"B/f.src": ""})
	d := &Driver{Files: s, Provider: ProviderFunc(func(context.Context, project.File) (*Tree, error) {
		panic("boom")
	})}

	out, err := d.Resolve(context.Background(), g, structure.FileRef{ModuleName: "B", RelativePath: "f.src"})
	require.NoError(t, err)
	require.True(t, out.Failed())

	var perr *PanicError
	require.ErrorAs(t, out.Err, &perr)
	assert.Equal(t, "boom", perr.Value)
	assert.Contains(t, out.Err.Error(), "provider panicked: boom")
}
