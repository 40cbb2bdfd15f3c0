package resolve

// DeclKind classifies a top-level declaration.
type DeclKind string

const (
	KindClass     DeclKind = "class"
	KindInterface DeclKind = "interface"
	KindFunction  DeclKind = "function"
	KindVariable  DeclKind = "variable"
	KindConstant  DeclKind = "constant"
	KindAlias     DeclKind = "alias"
)

// ClassLike reports whether declarations of this kind can have subtypes.
func (k DeclKind) ClassLike() bool {
	return k == KindClass || k == KindInterface
}

// Declaration is a resolved top-level declaration.
type Declaration struct {
	// Name is the qualified name, e.g. "B.Shape".
	Name string   `json:"name"`
	Kind DeclKind `json:"kind"`

	// Sealed marks a declaration whose direct subtypes are closed and
	// enumerated in Inheritors.
	Sealed bool `json:"sealed,omitempty"`

	// Inheritors lists qualified names of direct subtypes in the order the
	// provider found them. Only meaningful when Sealed is set.
	Inheritors []string `json:"inheritors,omitempty"`
}

// Tree is the resolved form of one file.
type Tree struct {
	// Path is the module-qualified path of the resolved file.
	Path string `json:"path"`

	// Declarations in source order.
	Declarations []Declaration `json:"declarations"`
}

// FirstSealed returns the first declaration that is class-like and sealed.
func (t *Tree) FirstSealed() (Declaration, bool) {
	if t == nil {
		return Declaration{}, false
	}
	for _, d := range t.Declarations {
		if d.Kind.ClassLike() && d.Sealed {
			return d, true
		}
	}
	return Declaration{}, false
}

// Fact is the value extracted from a resolved file: the direct subtypes of
// its first sealed declaration.
type Fact struct {
	Declaration string   `json:"declaration"`
	Inheritors  []string `json:"inheritors"`
}

// Outcome is the result of the resolution step.
type Outcome struct {
	// Fact is nil when the file declares no sealed type or resolution failed.
	Fact *Fact

	// Err is the provider's failure, exactly as returned.
	Err error
}

// Failed reports whether the provider failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Inheritors returns the extracted names, or nil when there is no fact.
func (o Outcome) Inheritors() []string {
	if o.Fact == nil {
		return nil
	}
	return o.Fact.Inheritors
}
