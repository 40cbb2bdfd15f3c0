package harness

import (
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/outcome"
)

// AssertBaseline compares the inheritors of result against the baseline
// file of caseDir. Both sides are normalized first, so a baseline written
// unsorted or without a trailing newline still matches. To regenerate
// baselines through goldie, run:
//
//	go test ./internal/harness -update
//
// A case that failed as declared has nothing to compare. Any failure other
// than a baseline mismatch fails the test immediately.
func AssertBaseline(t *testing.T, caseDir string, result *Result) {
	t.Helper()
	AssertBaselineNamed(t, caseDir, outcome.DefaultBaselineName, result)
}

// AssertBaselineNamed is AssertBaseline for a baseline file other than
// expected.txt.
func AssertBaselineNamed(t *testing.T, caseDir, baselineName string, result *Result) {
	t.Helper()

	if result.ExpectedFailure {
		return
	}
	if result.Err != nil && !failure.Is(result.Err, failure.BaselineMismatch) {
		t.Fatalf("case %s: %v", caseDir, result.Err)
	}

	got := outcome.Normalize(result.Inheritors)
	if updatingGolden() {
		ext := filepath.Ext(baselineName)
		g := goldie.New(t,
			goldie.WithFixtureDir(caseDir),
			goldie.WithNameSuffix(ext),
		)
		if err := g.Update(t, strings.TrimSuffix(baselineName, ext), []byte(got)); err != nil {
			t.Fatalf("case %s: %v", caseDir, err)
		}
		return
	}

	diff, err := baselineDiff(caseDir, baselineName, got)
	if err != nil {
		t.Fatalf("case %s: %v", caseDir, err)
	}
	if diff != "" {
		t.Errorf("case %s: %s differs (-expected +actual):\n%s", caseDir, baselineName, diff)
	}
}

// baselineDiff returns the difference between the normalized baseline file
// and got, or "" when they agree.
func baselineDiff(caseDir, baselineName, got string) (string, error) {
	raw, err := outcome.BaselineFor(caseDir, baselineName).Read()
	if err != nil {
		return "", err
	}
	return cmp.Diff(outcome.NormalizeText(raw), got), nil
}

// updatingGolden reports whether goldie's -update flag is set. goldie
// registers the flag itself and seeds it from GOLDIE_UPDATE.
func updatingGolden() bool {
	f := flag.Lookup("update")
	return f != nil && f.Value.String() == "true"
}
