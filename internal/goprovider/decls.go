package goprovider

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/roach88/sealcheck/internal/resolve"
)

// declarations lists the top-level declarations of file in source order.
// Methods and blank identifiers are skipped.
func declarations(pkg *types.Package, file *ast.File) []resolve.Declaration {
	scope := pkg.Scope()
	decls := []resolve.Declaration{}

	for _, d := range file.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil || d.Name.Name == "_" {
				continue
			}
			decls = append(decls, resolve.Declaration{Name: qualify(pkg, d.Name.Name), Kind: resolve.KindFunction})

		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					if spec.Name.Name == "_" {
						continue
					}
					tn, ok := scope.Lookup(spec.Name.Name).(*types.TypeName)
					if !ok {
						continue
					}
					decls = append(decls, typeDeclaration(pkg, tn))

				case *ast.ValueSpec:
					kind := resolve.KindVariable
					if d.Tok == token.CONST {
						kind = resolve.KindConstant
					}
					for _, n := range spec.Names {
						if n.Name == "_" {
							continue
						}
						decls = append(decls, resolve.Declaration{Name: qualify(pkg, n.Name), Kind: kind})
					}
				}
			}
		}
	}
	return decls
}

func typeDeclaration(pkg *types.Package, tn *types.TypeName) resolve.Declaration {
	decl := resolve.Declaration{Name: qualify(pkg, tn.Name()), Kind: resolve.KindClass}
	if tn.IsAlias() {
		decl.Kind = resolve.KindAlias
		return decl
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		return decl
	}
	if _, ok := named.Underlying().(*types.Interface); !ok {
		return decl
	}

	decl.Kind = resolve.KindInterface
	if sealed(pkg, named) {
		decl.Sealed = true
		decl.Inheritors = inheritors(pkg, named)
	}
	return decl
}

// sealed reports whether named is an interface with an unexported method
// belonging to pkg.
func sealed(pkg *types.Package, named *types.Named) bool {
	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if !m.Exported() && m.Pkg() == pkg {
			return true
		}
	}
	return false
}

// inheritors returns the qualified names of the direct subtypes of base:
// embedding interfaces first, then implementations, each in scope order.
func inheritors(pkg *types.Package, base *types.Named) []string {
	iface := base.Underlying().(*types.Interface)
	scope := pkg.Scope()

	var subs []*types.Named
	var impls []*types.Named
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named == base || named.TypeParams().Len() > 0 {
			continue
		}
		if sub, ok := named.Underlying().(*types.Interface); ok {
			if embeds(sub, base) {
				subs = append(subs, named)
			}
			continue
		}
		if implements(named, iface) {
			impls = append(impls, named)
		}
	}

	out := []string{}
	for _, s := range subs {
		out = append(out, qualify(pkg, s.Obj().Name()))
	}
	for _, t := range impls {
		if viaSubInterface(t, subs) {
			continue
		}
		out = append(out, qualify(pkg, t.Obj().Name()))
	}
	return out
}

func embeds(iface *types.Interface, base *types.Named) bool {
	for i := 0; i < iface.NumEmbeddeds(); i++ {
		if types.Identical(iface.EmbeddedType(i), base) {
			return true
		}
	}
	return false
}

func implements(t types.Type, iface *types.Interface) bool {
	return types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface)
}

func viaSubInterface(t *types.Named, subs []*types.Named) bool {
	for _, s := range subs {
		if implements(t, s.Underlying().(*types.Interface)) {
			return true
		}
	}
	return false
}

func qualify(pkg *types.Package, name string) string {
	return pkg.Path() + "." + name
}
