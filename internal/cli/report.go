package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/sealcheck/internal/harness"
	"github.com/roach88/sealcheck/internal/outcome"
)

// CaseReport is the JSON form of one run.
type CaseReport struct {
	Case        string    `json:"case"`
	RunID       string    `json:"run_id"`
	Pass        bool      `json:"pass"`
	Verdict     string    `json:"verdict,omitempty"`
	Declaration string    `json:"declaration,omitempty"`
	Inheritors  []string  `json:"inheritors"`
	Error       *CLIError `json:"error,omitempty"`
}

func newCaseReport(name string, r *harness.Result) CaseReport {
	rep := CaseReport{
		Case:        name,
		RunID:       r.RunID,
		Pass:        r.Pass,
		Verdict:     string(r.Verdict),
		Declaration: r.Declaration,
		Inheritors:  r.Inheritors,
	}
	if r.Err != nil {
		rep.Error = &CLIError{Code: errorCode(r.Err), Message: r.Message()}
	}
	return rep
}

// caseName is dir relative to root, or dir itself when it is not below root.
func caseName(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

// writeCaseText prints one verdict line and, for failures, the indented
// failure message.
func writeCaseText(w io.Writer, name string, r *harness.Result, updated bool) {
	if r.Pass {
		note := outcome.Describe(r.Verdict)
		if updated && !r.ExpectedFailure {
			note = "baseline updated"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", color.GreenString("✓"), name, note)
		return
	}

	fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), name)
	for _, line := range strings.Split(strings.TrimRight(r.Message(), "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
