package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Structural(t *testing.T) {
	structural := []Kind{MalformedStructure, DuplicateModule, UnknownDependency, UnknownModule, FileNotFound}
	for _, k := range structural {
		assert.True(t, k.Structural(), "%s should be structural", k)
	}

	assert.False(t, BaselineMismatch.Structural())
	assert.False(t, UnexpectedSuccess.Structural())
	assert.False(t, Kind("").Structural())
}

func TestIs_Wrapped(t *testing.T) {
	err := fmt.Errorf("building graph: %w", UnknownDep("B", "C"))

	assert.True(t, Is(err, UnknownDependency))
	assert.False(t, Is(err, UnknownModule))
	assert.True(t, IsStructural(err))
	assert.Equal(t, UnknownDependency, KindOf(err))
}

func TestIs_ForeignError(t *testing.T) {
	err := errors.New("provider exploded")

	assert.False(t, Is(err, MalformedStructure))
	assert.False(t, IsStructural(err))
	assert.Equal(t, Kind(""), KindOf(err))
}

func TestError_MessageContext(t *testing.T) {
	assert.Equal(t,
		`MALFORMED_STRUCTURE: missing required field (field=fileToResolve.module)`,
		Malformed("fileToResolve.module", "missing required field").Error())

	assert.Equal(t,
		`FILE_NOT_FOUND: file B/f.go not found (path=B/f.go)`,
		NoFile("B", "B/f.go").Error())

	assert.Equal(t,
		`UNKNOWN_MODULE: module "Z" is not declared (module=Z)`,
		NoModule("Z").Error())
}

func TestError_BaselineMismatchShowsBothTexts(t *testing.T) {
	err := &Error{
		Kind:     BaselineMismatch,
		Message:  "inheritors differ from expected.txt",
		Expected: "B.X\n",
		Actual:   "B.X\nB.Y\n",
		Diff:     "+ B.Y",
	}

	msg := err.Error()
	assert.Contains(t, msg, "--- expected\nB.X\n")
	assert.Contains(t, msg, "--- actual\nB.X\nB.Y\n")
	assert.Contains(t, msg, "+ B.Y")
}
