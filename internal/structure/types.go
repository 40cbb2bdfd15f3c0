package structure

// TestStructure is the parsed form of a case's structure file.
type TestStructure struct {
	// Modules in declaration order. Names are unique.
	Modules []ModuleSpec `json:"modules" yaml:"modules"`

	// FileToResolve names the single file to analyze.
	FileToResolve FileRef `json:"fileToResolve" yaml:"fileToResolve"`

	// Fails declares the case as a known resolution failure.
	Fails bool `json:"fails,omitempty" yaml:"fails,omitempty"`
}

// ModuleSpec declares one module and the modules it depends on.
type ModuleSpec struct {
	Name      string   `json:"name" yaml:"name"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// FileRef locates a file relative to its owning module's source root.
type FileRef struct {
	ModuleName   string `json:"module" yaml:"module"`
	RelativePath string `json:"file" yaml:"file"`
}

// FullPath returns the module-qualified path used in diagnostics.
func (f FileRef) FullPath() string {
	return f.ModuleName + "/" + f.RelativePath
}

// Module returns the declared module with the given name.
func (s *TestStructure) Module(name string) (ModuleSpec, bool) {
	for _, m := range s.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ModuleSpec{}, false
}
