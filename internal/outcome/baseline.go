package outcome

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultBaselineName is the baseline file stored next to a case's
// structure file.
const DefaultBaselineName = "expected.txt"

// Baseline supplies the golden text of a case.
type Baseline interface {
	Read() (string, error)
}

// BaselineWriter replaces the golden text of a case.
type BaselineWriter interface {
	Baseline
	Write(text string) error
}

// FileBaseline is a baseline stored on disk. A missing file reads as an
// empty baseline.
type FileBaseline struct {
	Path string
}

// BaselineFor returns the file baseline for a case directory. An empty
// name selects DefaultBaselineName.
func BaselineFor(caseDir, name string) FileBaseline {
	if name == "" {
		name = DefaultBaselineName
	}
	return FileBaseline{Path: filepath.Join(caseDir, name)}
}

// Read returns the file content, or "" when the file does not exist.
func (b FileBaseline) Read() (string, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read baseline %s: %w", b.Path, err)
	}
	return string(data), nil
}

// Write replaces the file content.
func (b FileBaseline) Write(text string) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}
	if err := os.WriteFile(b.Path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write baseline %s: %w", b.Path, err)
	}
	return nil
}
