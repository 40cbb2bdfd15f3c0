// Package graph assembles the module graph of a test case.
//
// Nodes live in a single arena owned by the Graph and are addressed by
// index; dependency edges are index lists. Cycles are allowed and nothing
// in this package walks edges recursively.
package graph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/structure"
)

// Host is the part of the host project model the builder drives.
type Host interface {
	CreateModule(ctx context.Context, name, sourceRoot string) (project.Module, error)
	AddDependency(ctx context.Context, from, to project.Module) error
}

// ModuleNode is one module of the graph.
type ModuleNode struct {
	Index  int
	Name   string
	Handle project.Module

	// Deps holds arena indices of direct dependencies in declaration order.
	Deps []int
}

// Edge is a directed dependency between two named modules.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a name-keyed arena of module nodes.
type Graph struct {
	nodes  []ModuleNode
	byName map[string]int
}

// Build creates one node per declared module, registers each module with the
// host using <root>/<name> as its source root, then wires dependency edges.
func Build(ctx context.Context, host Host, st *structure.TestStructure, root string, logger *slog.Logger) (*Graph, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	g := &Graph{
		nodes:  make([]ModuleNode, 0, len(st.Modules)),
		byName: make(map[string]int, len(st.Modules)),
	}

	for _, spec := range st.Modules {
		if _, dup := g.byName[spec.Name]; dup {
			return nil, failure.Duplicate(spec.Name)
		}
		handle, err := host.CreateModule(ctx, spec.Name, filepath.Join(root, spec.Name))
		if err != nil {
			return nil, fmt.Errorf("failed to create module %q: %w", spec.Name, err)
		}
		idx := len(g.nodes)
		g.nodes = append(g.nodes, ModuleNode{Index: idx, Name: spec.Name, Handle: handle})
		g.byName[spec.Name] = idx
	}

	for _, spec := range st.Modules {
		from := g.byName[spec.Name]
		for _, depName := range spec.DependsOn {
			to, ok := g.byName[depName]
			if !ok {
				return nil, failure.UnknownDep(spec.Name, depName)
			}
			if err := host.AddDependency(ctx, g.nodes[from].Handle, g.nodes[to].Handle); err != nil {
				return nil, fmt.Errorf("failed to add dependency: %w", err)
			}
			g.nodes[from].Deps = append(g.nodes[from].Deps, to)
			logger.Debug("dependency added", "module", spec.Name, "depends_on", depName)
		}
	}

	logger.Debug("graph built", "modules", len(g.nodes), "edges", g.edgeCount())
	return g, nil
}

// Len returns the number of modules.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Lookup returns the node with the given name.
func (g *Graph) Lookup(name string) (*ModuleNode, bool) {
	idx, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return &g.nodes[idx], true
}

// Node returns the node at arena index i.
func (g *Graph) Node(i int) *ModuleNode {
	return &g.nodes[i]
}

// Nodes returns the nodes in declaration order.
func (g *Graph) Nodes() []ModuleNode {
	out := make([]ModuleNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Dependencies returns the names of the direct dependencies of a module,
// in declaration order.
func (g *Graph) Dependencies(name string) []string {
	n, ok := g.Lookup(name)
	if !ok {
		return nil
	}
	names := make([]string, len(n.Deps))
	for i, d := range n.Deps {
		names[i] = g.nodes[d].Name
	}
	return names
}

// Edges returns every edge sorted by source then target name.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edgeCount())
	for _, n := range g.nodes {
		for _, d := range n.Deps {
			edges = append(edges, Edge{From: n.Name, To: g.nodes[d].Name})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

func (g *Graph) edgeCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.Deps)
	}
	return n
}
