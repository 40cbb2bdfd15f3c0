package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/resolve"
)

func TestSealedTree(t *testing.T) {
	tree := SealedTree("B.Base", "B.Y", "B.X")

	d, ok := tree.FirstSealed()
	require.True(t, ok)
	assert.Equal(t, "B.Base", d.Name)
	assert.Equal(t, resolve.KindClass, d.Kind)
	assert.Equal(t, []string{"B.Y", "B.X"}, d.Inheritors)
}

func TestScriptedProvider_RecordsCalls(t *testing.T) {
	p := Inheritors("B.X")
	file := project.File{Module: project.Module{Name: "B"}, Path: "f.go"}

	tree, err := p.Resolve(context.Background(), file)
	require.NoError(t, err)
	d, ok := tree.FirstSealed()
	require.True(t, ok)
	assert.Equal(t, []string{"B.X"}, d.Inheritors)
	assert.Equal(t, []string{"B/f.go"}, p.Calls())
}

func TestScriptedProvider_Failing(t *testing.T) {
	sentinel := errors.New("engine down")
	p := Failing(sentinel)

	_, err := p.Resolve(context.Background(), project.File{})
	assert.Same(t, sentinel, err)
	assert.Len(t, p.Calls(), 1)
}

func TestRecordingBaseline(t *testing.T) {
	b := NewRecordingBaseline("B.X\n")

	text, err := b.Read()
	require.NoError(t, err)
	assert.Equal(t, "B.X\n", text)
	assert.Equal(t, 1, b.Reads())

	require.NoError(t, b.Write("B.Y\n"))
	text, err = b.Read()
	require.NoError(t, err)
	assert.Equal(t, "B.Y\n", text)
	assert.Equal(t, []string{"B.Y\n"}, b.Writes())
	assert.Equal(t, 2, b.Reads())
}

func TestFailingBaseline(t *testing.T) {
	sentinel := errors.New("disk gone")
	b := FailingBaseline(sentinel)

	_, err := b.Read()
	assert.Same(t, sentinel, err)
	assert.Equal(t, 1, b.Reads())
}
