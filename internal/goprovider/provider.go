// Package goprovider resolves Go source files with go/parser and go/types.
//
// A sealed declaration is an interface carrying an unexported method of
// its own package: nothing outside the package can implement it. Its
// direct subtypes are the named types of that package that implement it
// (by value or by pointer) and the interfaces that embed it directly. A
// type that already implements one of those sub-interfaces is a subtype of
// the sub-interface and is not listed.
//
// Modules become import path roots. A file at "sub/f.go" of module "B"
// belongs to package "B/sub"; files at the source root belong to "B". An
// import of another module's package only resolves when the importing
// module declares that module as a direct dependency.
//
// Module names may contain slashes. An import path belongs to the declared
// module with the longest name that equals the path or prefixes it at a
// slash, so "x/y/z" goes to module "x/y" before module "x". A declared
// module shadows a standard library package of the same path; paths that
// match no module are imported from the standard library.
package goprovider

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/resolve"
)

// Source is the part of the host project model the provider reads.
type Source interface {
	ModuleByName(ctx context.Context, name string) (project.Module, bool, error)
	Dependencies(ctx context.Context, m project.Module) ([]project.Module, error)
	PackageFiles(ctx context.Context, m project.Module, dir string) ([]project.File, error)
}

// Provider implements resolve.Provider for Go sources.
//
// Thread-safety: safe for concurrent use; every Resolve call type-checks
// from scratch with its own file set.
type Provider struct {
	src    Source
	Logger *slog.Logger
}

// New returns a provider reading sources from src.
func New(src Source) *Provider {
	return &Provider{
		src:    src,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

var _ resolve.Provider = (*Provider)(nil)

// Resolve type-checks the package holding file and returns the top-level
// declarations of file in source order.
func (p *Provider) Resolve(ctx context.Context, file project.File) (*resolve.Tree, error) {
	r := &run{
		ctx:     ctx,
		src:     p.src,
		logger:  p.Logger,
		fset:    token.NewFileSet(),
		pkgs:    make(map[string]*checked),
		loading: make(map[string]bool),
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dir := file.Dir()
	pkg, err := r.check(file.Module, dir, importPath(file.Module.Name, dir))
	if err != nil {
		return nil, err
	}

	syntax, ok := pkg.files[file.Path]
	if !ok {
		return nil, fmt.Errorf("file %s was not part of package %s", file.FullPath(), pkg.types.Path())
	}

	return &resolve.Tree{
		Path:         file.FullPath(),
		Declarations: declarations(pkg.types, syntax),
	}, nil
}

// importPath maps a module directory to the package import path.
func importPath(module, dir string) string {
	if dir == "" || dir == "." {
		return module
	}
	return module + "/" + dir
}

// checked is a type-checked package and its parsed files keyed by
// module-relative path.
type checked struct {
	types *types.Package
	files map[string]*ast.File
}

// run holds the state of one Resolve call.
type run struct {
	ctx    context.Context
	src    Source
	logger *slog.Logger
	fset   *token.FileSet

	pkgs    map[string]*checked
	loading map[string]bool
	std     types.Importer
}

func (r *run) check(m project.Module, dir, pkgPath string) (*checked, error) {
	if c, ok := r.pkgs[pkgPath]; ok {
		return c, nil
	}
	if r.loading[pkgPath] {
		return nil, fmt.Errorf("import cycle through %s", pkgPath)
	}
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	r.loading[pkgPath] = true
	defer delete(r.loading, pkgPath)

	sources, err := r.src.PackageFiles(r.ctx, m, dir)
	if err != nil {
		return nil, err
	}

	resErr := &Error{Package: pkgPath}
	files := make(map[string]*ast.File)
	var syntax []*ast.File
	for _, f := range sources {
		if !strings.HasSuffix(f.Path, ".go") || strings.HasSuffix(f.Path, "_test.go") {
			continue
		}
		af, err := parser.ParseFile(r.fset, f.FullPath(), f.Content, parser.SkipObjectResolution)
		if err != nil {
			resErr.Errs = append(resErr.Errs, err)
			continue
		}
		files[f.Path] = af
		syntax = append(syntax, af)
	}
	if len(resErr.Errs) > 0 {
		return nil, resErr
	}
	if len(syntax) == 0 {
		return nil, fmt.Errorf("no Go files in %s", pkgPath)
	}

	conf := types.Config{
		Importer: &moduleImporter{run: r, from: m},
		Error: func(err error) {
			resErr.Errs = append(resErr.Errs, err)
		},
	}
	pkg, _ := conf.Check(pkgPath, r.fset, syntax, nil)
	if len(resErr.Errs) > 0 {
		r.logger.Debug("type check failed", "package", pkgPath, "errors", len(resErr.Errs))
		return nil, resErr
	}

	r.logger.Debug("package checked", "package", pkgPath, "files", len(syntax))
	c := &checked{types: pkg, files: files}
	r.pkgs[pkgPath] = c
	return c, nil
}

// moduleImporter resolves imports on behalf of one module.
type moduleImporter struct {
	run  *run
	from project.Module
}

func (i *moduleImporter) Import(importPath string) (*types.Package, error) {
	r := i.run
	target, rest, ok, err := r.moduleFor(importPath)
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.stdImport(importPath)
	}

	if target.ID != i.from.ID {
		deps, err := r.src.Dependencies(r.ctx, i.from)
		if err != nil {
			return nil, err
		}
		if !containsModule(deps, target) {
			return nil, fmt.Errorf("module %s does not depend on module %s", i.from.Name, target.Name)
		}
	}

	dir := path.Clean(rest)
	if rest == "" {
		dir = "."
	}
	c, err := r.check(target, dir, importPath)
	if err != nil {
		return nil, err
	}
	return c.types, nil
}

// moduleFor returns the declared module owning importPath and the package
// directory inside it. Longer module names are tried first.
func (r *run) moduleFor(importPath string) (project.Module, string, bool, error) {
	prefix := importPath
	for {
		m, ok, err := r.src.ModuleByName(r.ctx, prefix)
		if err != nil {
			return project.Module{}, "", false, err
		}
		if ok {
			rest := strings.TrimPrefix(importPath[len(prefix):], "/")
			return m, rest, true, nil
		}
		i := strings.LastIndex(prefix, "/")
		if i <= 0 {
			return project.Module{}, "", false, nil
		}
		prefix = prefix[:i]
	}
}

func (r *run) stdImport(importPath string) (*types.Package, error) {
	if r.std == nil {
		r.std = importer.ForCompiler(r.fset, "source", nil)
	}
	return r.std.Import(importPath)
}

func containsModule(mods []project.Module, m project.Module) bool {
	for _, d := range mods {
		if d.ID == m.ID {
			return true
		}
	}
	return false
}
