// Package failure defines the error taxonomy shared by every stage of a
// sealcheck run.
//
// Structural kinds (malformed input, unknown names, missing files) always
// terminate a run. Resolution failures are not represented here: they are
// whatever the resolution provider returns, and they are the only errors the
// "fails" flag of a test case may anticipate.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a harness error.
type Kind string

const (
	// MalformedStructure indicates a missing or invalid field in the test structure.
	MalformedStructure Kind = "MALFORMED_STRUCTURE"

	// DuplicateModule indicates two modules share a name.
	DuplicateModule Kind = "DUPLICATE_MODULE"

	// UnknownDependency indicates a dependsOn entry names no declared module.
	UnknownDependency Kind = "UNKNOWN_DEPENDENCY"

	// UnknownModule indicates the file to resolve lives in an undeclared module.
	UnknownModule Kind = "UNKNOWN_MODULE"

	// FileNotFound indicates the file to resolve is absent from its module.
	FileNotFound Kind = "FILE_NOT_FOUND"

	// BaselineMismatch indicates the resolved inheritors differ from the baseline.
	BaselineMismatch Kind = "BASELINE_MISMATCH"

	// UnexpectedSuccess indicates a case declared as failing now passes.
	UnexpectedSuccess Kind = "UNEXPECTED_SUCCESS"
)

// Structural reports whether the kind describes broken test input rather
// than a verdict about resolution.
func (k Kind) Structural() bool {
	switch k {
	case MalformedStructure, DuplicateModule, UnknownDependency, UnknownModule, FileNotFound:
		return true
	}
	return false
}

// Error is a harness error with enough context to diagnose a case without
// rerunning it.
type Error struct {
	Kind    Kind
	Message string

	// Field is the structure field path for MalformedStructure (e.g. "modules[1].name").
	Field string

	// Module is the module name involved, when there is one.
	Module string

	// Path is the module-qualified file path for FileNotFound.
	Path string

	// Expected and Actual hold normalized baseline texts for BaselineMismatch.
	Expected string
	Actual   string

	// Diff is a readable diff between Expected and Actual.
	Diff string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	switch {
	case e.Field != "":
		fmt.Fprintf(&b, " (field=%s)", e.Field)
	case e.Path != "":
		fmt.Fprintf(&b, " (path=%s)", e.Path)
	case e.Module != "":
		fmt.Fprintf(&b, " (module=%s)", e.Module)
	}
	if e.Kind == BaselineMismatch {
		fmt.Fprintf(&b, "\n--- expected\n%s--- actual\n%s", e.Expected, e.Actual)
		if e.Diff != "" {
			fmt.Fprintf(&b, "--- diff (-expected +actual)\n%s", e.Diff)
		}
	}
	return b.String()
}

// Malformed creates a MalformedStructure error for a field path.
func Malformed(field, format string, args ...any) *Error {
	return &Error{Kind: MalformedStructure, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Duplicate creates a DuplicateModule error.
func Duplicate(module string) *Error {
	return &Error{Kind: DuplicateModule, Module: module, Message: fmt.Sprintf("module %q is declared more than once", module)}
}

// UnknownDep creates an UnknownDependency error for a module depending on name.
func UnknownDep(module, name string) *Error {
	return &Error{Kind: UnknownDependency, Module: module, Message: fmt.Sprintf("module %q depends on undeclared module %q", module, name)}
}

// NoModule creates an UnknownModule error.
func NoModule(module string) *Error {
	return &Error{Kind: UnknownModule, Module: module, Message: fmt.Sprintf("module %q is not declared", module)}
}

// NoFile creates a FileNotFound error for a module-qualified path.
func NoFile(module, fullPath string) *Error {
	return &Error{Kind: FileNotFound, Module: module, Path: fullPath, Message: fmt.Sprintf("file %s not found", fullPath)}
}

// Is reports whether err is, or wraps, a harness error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsStructural reports whether err is, or wraps, a structural harness error.
func IsStructural(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Structural()
	}
	return false
}

// KindOf returns the kind of a harness error, or "" for any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
