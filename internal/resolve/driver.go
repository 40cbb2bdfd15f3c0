// Package resolve locates the file under test, hands it to a resolution
// provider and extracts the inheritors of its first sealed declaration.
//
// The provider call is the only blocking step of a run. It executes on a
// dedicated worker goroutine and the driver waits for it to return; there
// is no timeout. Provider failures are reported back untouched in
// Outcome.Err so that the caller decides whether they were anticipated.
package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/graph"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/structure"
)

// Provider turns a source file into a resolved declaration tree.
// It must be safe to call from a worker goroutine.
type Provider interface {
	Resolve(ctx context.Context, file project.File) (*Tree, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, file project.File) (*Tree, error)

// Resolve calls f.
func (f ProviderFunc) Resolve(ctx context.Context, file project.File) (*Tree, error) {
	return f(ctx, file)
}

// FileFinder looks files up inside a module's source roots.
type FileFinder interface {
	FindFile(ctx context.Context, m project.Module, relPath string) (project.File, bool, error)
}

// Driver runs the resolution step of a case.
type Driver struct {
	Files    FileFinder
	Provider Provider
	Logger   *slog.Logger
}

// Resolve locates ref in g, resolves it and extracts the fact.
//
// The returned error is non-nil only for structural problems (unknown
// module, missing file) or host failures. A provider failure is returned in
// Outcome.Err, unwrapped.
func (d *Driver) Resolve(ctx context.Context, g *graph.Graph, ref structure.FileRef) (Outcome, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	node, ok := g.Lookup(ref.ModuleName)
	if !ok {
		return Outcome{}, failure.NoModule(ref.ModuleName)
	}

	file, found, err := d.Files.FindFile(ctx, node.Handle, ref.RelativePath)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to look up %s: %w", ref.FullPath(), err)
	}
	if !found {
		return Outcome{}, failure.NoFile(ref.ModuleName, ref.FullPath())
	}

	logger.Debug("resolving file", "path", file.FullPath())

	tree, err := OnWorker(ctx, func(ctx context.Context) (*Tree, error) {
		return d.Provider.Resolve(ctx, file)
	})
	if err != nil {
		logger.Debug("resolution failed", "path", file.FullPath(), "error", err)
		return Outcome{Err: err}, nil
	}

	decl, ok := tree.FirstSealed()
	if !ok {
		logger.Debug("no sealed declaration", "path", file.FullPath())
		return Outcome{}, nil
	}

	inheritors := make([]string, len(decl.Inheritors))
	copy(inheritors, decl.Inheritors)

	logger.Debug("sealed declaration resolved",
		"path", file.FullPath(),
		"declaration", decl.Name,
		"inheritors", len(inheritors),
	)
	return Outcome{Fact: &Fact{Declaration: decl.Name, Inheritors: inheritors}}, nil
}
