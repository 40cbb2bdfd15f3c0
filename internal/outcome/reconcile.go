package outcome

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/resolve"
)

// Verdict is the passing result of a reconciled run.
type Verdict string

const (
	// VerdictPassed means the fact matched the baseline.
	VerdictPassed Verdict = "passed"

	// VerdictExpectedFailure means resolution failed and the case declared it would.
	VerdictExpectedFailure Verdict = "expected_failure"
)

// Reconcile turns a resolution outcome into a verdict.
//
// A provider failure is anticipated when expectFailure is set; the baseline
// is then never read. Otherwise the failure is returned as is. A resolved
// fact is compared with the baseline ignoring order; a match on a case
// declared as failing is an UnexpectedSuccess.
func Reconcile(o resolve.Outcome, expectFailure bool, b Baseline) (Verdict, error) {
	if o.Failed() {
		if expectFailure {
			return VerdictExpectedFailure, nil
		}
		return "", o.Err
	}

	raw, err := b.Read()
	if err != nil {
		return "", err
	}

	expected := NormalizeText(raw)
	actual := Normalize(o.Inheritors())
	if expected != actual {
		return "", mismatch(expected, actual)
	}

	if expectFailure {
		return "", &failure.Error{
			Kind:    failure.UnexpectedSuccess,
			Message: `looks like the case is passing, please remove "fails": true from the structure file`,
		}
	}
	return VerdictPassed, nil
}

// Update writes the resolved fact as the new baseline, then reconciles
// against it. Nothing is written when resolution failed.
func Update(o resolve.Outcome, expectFailure bool, b BaselineWriter) (Verdict, error) {
	if !o.Failed() {
		if err := b.Write(Normalize(o.Inheritors())); err != nil {
			return "", err
		}
	}
	return Reconcile(o, expectFailure, b)
}

func mismatch(expected, actual string) *failure.Error {
	return &failure.Error{
		Kind:     failure.BaselineMismatch,
		Message:  "inheritors differ from baseline",
		Expected: expected,
		Actual:   actual,
		Diff:     cmp.Diff(lines(expected), lines(actual)),
	}
}

// lines splits normalized text back into names.
func lines(normalized string) []string {
	if normalized == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(normalized, "\n"), "\n")
}

// Describe renders a verdict for humans.
func Describe(v Verdict) string {
	switch v {
	case VerdictPassed:
		return "baseline matched"
	case VerdictExpectedFailure:
		return "failed as declared"
	default:
		return fmt.Sprintf("verdict %q", string(v))
	}
}
