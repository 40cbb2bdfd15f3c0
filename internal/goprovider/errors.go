package goprovider

import (
	"fmt"
	"strings"
)

// Error reports a package that failed to parse or type-check.
type Error struct {
	// Package is the import path of the failing package.
	Package string

	// Errs are the parser and type checker diagnostics, in report order.
	Errs []error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolution of %s failed", e.Package)
	if len(e.Errs) > 0 {
		fmt.Fprintf(&b, ": %v", e.Errs[0])
	}
	if n := len(e.Errs) - 1; n > 0 {
		fmt.Fprintf(&b, " (and %d more)", n)
	}
	return b.String()
}

// Unwrap exposes every diagnostic to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return e.Errs
}
