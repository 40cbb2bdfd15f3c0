package project

import "path"

// Module is a handle to a module row.
type Module struct {
	ID         int64
	Name       string
	SourceRoot string
}

// File is a source file owned by a module.
type File struct {
	Module Module

	// Path is slash-separated and relative to the module's source root.
	Path string

	Content []byte
}

// Dir returns the slash-separated directory of the file within its module,
// "." for files at the source root.
func (f File) Dir() string {
	return path.Dir(f.Path)
}

// FullPath returns the module-qualified path used in diagnostics.
func (f File) FullPath() string {
	return f.Module.Name + "/" + f.Path
}
