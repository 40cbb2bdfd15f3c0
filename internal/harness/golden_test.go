package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sealcheck/internal/testutil"
)

func TestAssertBaseline_NormalizesBaselineFile(t *testing.T) {
	for _, name := range []string{"unsorted-baseline", "no-trailing-newline"} {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(casesDir, name)
			result := Run(context.Background(), dir, Options{})
			require.NoError(t, result.Err)
			assert.ElementsMatch(t, []string{"B.X", "B.Y"}, result.Inheritors)

			AssertBaseline(t, dir, result)
		})
	}
}

func TestAssertBaseline_ScriptedBaselines(t *testing.T) {
	tests := []struct {
		name     string
		baseline string
	}{
		{"sorted", "B.X\nB.Y\n"},
		{"unsorted", "B.Y\nB.X\n"},
		{"no trailing newline", "B.X\nB.Y"},
		{"crlf", "B.Y\r\nB.X\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeCase(t, map[string]string{
				"structure.json": twoModules,
				"expected.txt":   tt.baseline,
				"B/f.src":        "",
			})
			result := Run(context.Background(), dir, scripted(testutil.Inheritors("B.Y", "B.X")))
			require.NoError(t, result.Err)

			AssertBaseline(t, dir, result)
		})
	}
}

func TestBaselineDiff(t *testing.T) {
	dir := writeCase(t, map[string]string{
		"expected.txt": "B.Y\nB.X",
		"other.txt":    "B.X\n",
	})

	diff, err := baselineDiff(dir, "expected.txt", "B.X\nB.Y\n")
	require.NoError(t, err)
	assert.Empty(t, diff)

	diff, err = baselineDiff(dir, "other.txt", "B.X\nB.Y\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "B.Y")

	diff, err = baselineDiff(dir, "missing.txt", "")
	require.NoError(t, err)
	assert.Empty(t, diff, "a missing baseline reads as empty")

	_, err = baselineDiff(dir, ".", "")
	assert.Error(t, err, "a directory is not a readable baseline")
}
