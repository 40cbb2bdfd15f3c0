package graph

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/structure"
)

// recordingHost is an in-process Host that records every call.
type recordingHost struct {
	created []string
	roots   []string
	edges   []Edge
	failOn  string
	nextID  int64
}

func (h *recordingHost) CreateModule(_ context.Context, name, sourceRoot string) (project.Module, error) {
	if name == h.failOn {
		return project.Module{}, errors.New("host refused module")
	}
	h.nextID++
	h.created = append(h.created, name)
	h.roots = append(h.roots, sourceRoot)
	return project.Module{ID: h.nextID, Name: name, SourceRoot: sourceRoot}, nil
}

func (h *recordingHost) AddDependency(_ context.Context, from, to project.Module) error {
	h.edges = append(h.edges, Edge{From: from.Name, To: to.Name})
	return nil
}

func modules(specs ...structure.ModuleSpec) *structure.TestStructure {
	return &structure.TestStructure{
		Modules:       specs,
		FileToResolve: structure.FileRef{ModuleName: specs[0].Name, RelativePath: "f.go"},
	}
}

func TestBuild_NodesAndEdgesMirrorStructure(t *testing.T) {
	host := &recordingHost{}
	st := modules(
		structure.ModuleSpec{Name: "A"},
		structure.ModuleSpec{Name: "B", DependsOn: []string{"A"}},
		structure.ModuleSpec{Name: "C", DependsOn: []string{"B", "A"}},
	)

	g, err := Build(context.Background(), host, st, "/cases/one", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"A", "B", "C"}, host.created)
	assert.Equal(t, filepath.Join("/cases/one", "B"), host.roots[1])

	assert.Equal(t, []Edge{
		{From: "B", To: "A"},
		{From: "C", To: "A"},
		{From: "C", To: "B"},
	}, g.Edges())
	assert.Equal(t, []Edge{
		{From: "B", To: "A"},
		{From: "C", To: "B"},
		{From: "C", To: "A"},
	}, host.edges)

	assert.Equal(t, []string{"B", "A"}, g.Dependencies("C"))
	assert.Empty(t, g.Dependencies("A"))
	assert.Nil(t, g.Dependencies("missing"))
}

func TestBuild_NodeCountAndEdgeSetProperty(t *testing.T) {
	// Chains of increasing length: node count equals module count and the
	// edge set is exactly the declared dependsOn pairs.
	for n := 1; n <= 8; n++ {
		t.Run(fmt.Sprintf("chain_%d", n), func(t *testing.T) {
			specs := make([]structure.ModuleSpec, n)
			var want []Edge
			for i := 0; i < n; i++ {
				specs[i] = structure.ModuleSpec{Name: fmt.Sprintf("m%d", i)}
				for j := 0; j < i; j++ {
					specs[i].DependsOn = append(specs[i].DependsOn, fmt.Sprintf("m%d", j))
					want = append(want, Edge{From: fmt.Sprintf("m%d", i), To: fmt.Sprintf("m%d", j)})
				}
			}

			g, err := Build(context.Background(), &recordingHost{}, modules(specs...), t.TempDir(), nil)
			require.NoError(t, err)

			assert.Equal(t, n, g.Len())
			assert.ElementsMatch(t, want, g.Edges())
		})
	}
}

func TestBuild_UnknownDependencyNeverSilent(t *testing.T) {
	host := &recordingHost{}
	st := modules(
		structure.ModuleSpec{Name: "A"},
		structure.ModuleSpec{Name: "B", DependsOn: []string{"A", "ghost"}},
	)

	_, err := Build(context.Background(), host, st, t.TempDir(), nil)
	require.Error(t, err)

	var ferr *failure.Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, failure.UnknownDependency, ferr.Kind)
	assert.Equal(t, "B", ferr.Module)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestBuild_DuplicateModule(t *testing.T) {
	st := modules(structure.ModuleSpec{Name: "A"}, structure.ModuleSpec{Name: "A"})

	_, err := Build(context.Background(), &recordingHost{}, st, t.TempDir(), nil)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.DuplicateModule))
}

func TestBuild_CyclesAreLegal(t *testing.T) {
	st := modules(
		structure.ModuleSpec{Name: "A", DependsOn: []string{"B"}},
		structure.ModuleSpec{Name: "B", DependsOn: []string{"A"}},
	)

	g, err := Build(context.Background(), &recordingHost{}, st, t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, g.Dependencies("A"))
	assert.Equal(t, []string{"A"}, g.Dependencies("B"))
}

func TestBuild_HostError(t *testing.T) {
	st := modules(structure.ModuleSpec{Name: "A"}, structure.ModuleSpec{Name: "B"})

	_, err := Build(context.Background(), &recordingHost{failOn: "B"}, st, t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to create module "B"`)
	assert.False(t, failure.IsStructural(err))
}

func TestBuild_WithProjectStore(t *testing.T) {
	ctx := context.Background()
	s, err := project.Open(project.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	st := modules(
		structure.ModuleSpec{Name: "A"},
		structure.ModuleSpec{Name: "B", DependsOn: []string{"A"}},
	)

	g, err := Build(ctx, s, st, t.TempDir(), nil)
	require.NoError(t, err)

	b, ok := g.Lookup("B")
	require.True(t, ok)
	deps, err := s.Dependencies(ctx, b.Handle)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "A", deps[0].Name)
}

func TestGraph_LookupAndNode(t *testing.T) {
	st := modules(structure.ModuleSpec{Name: "A"}, structure.ModuleSpec{Name: "B", DependsOn: []string{"A"}})

	g, err := Build(context.Background(), &recordingHost{}, st, t.TempDir(), nil)
	require.NoError(t, err)

	b, ok := g.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, "A", g.Node(b.Deps[0]).Name)

	_, ok = g.Lookup("C")
	assert.False(t, ok)

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	nodes[0].Name = "mutated"
	assert.Equal(t, "A", g.Node(0).Name, "Nodes returns a copy")
}
