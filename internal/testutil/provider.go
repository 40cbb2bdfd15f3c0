// Package testutil provides scripted collaborators for sealcheck tests:
// resolution providers with canned answers, baselines that count reads and
// fixed run IDs.
package testutil

import (
	"context"
	"sync"

	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/resolve"
)

// SealedTree returns a tree with a single sealed class named decl whose
// direct subtypes are inheritors, in the given order.
func SealedTree(decl string, inheritors ...string) *resolve.Tree {
	return &resolve.Tree{Declarations: []resolve.Declaration{{
		Name:       decl,
		Kind:       resolve.KindClass,
		Sealed:     true,
		Inheritors: inheritors,
	}}}
}

// ScriptedProvider answers every resolution with a fixed tree or error and
// records the files it was asked to resolve.
//
// Thread-safety: safe for concurrent use.
type ScriptedProvider struct {
	Tree *resolve.Tree
	Err  error

	mu    sync.Mutex
	calls []string
}

// Inheritors returns a provider that resolves every file to a sealed
// declaration with the given subtypes.
func Inheritors(names ...string) *ScriptedProvider {
	return &ScriptedProvider{Tree: SealedTree("Sealed", names...)}
}

// Failing returns a provider that fails every resolution with err.
func Failing(err error) *ScriptedProvider {
	return &ScriptedProvider{Err: err}
}

// Resolve implements resolve.Provider.
func (p *ScriptedProvider) Resolve(_ context.Context, file project.File) (*resolve.Tree, error) {
	p.mu.Lock()
	p.calls = append(p.calls, file.FullPath())
	p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}
	return p.Tree, nil
}

// Calls returns the module-qualified paths resolved so far.
func (p *ScriptedProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}
