package harness

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/sealcheck/internal/goprovider"
	"github.com/roach88/sealcheck/internal/outcome"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/resolve"
)

// RunIDGenerator hands out the ID attached to each run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ProviderFactory builds the resolution provider of one run from that
// run's project store.
type ProviderFactory func(store *project.Store) resolve.Provider

// Options configure a run. The zero value resolves Go sources and compares
// against expected.txt.
type Options struct {
	// Provider defaults to the Go source provider.
	Provider ProviderFactory

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator

	// StructureName overrides structure file discovery.
	StructureName string

	// BaselineName defaults to expected.txt.
	BaselineName string

	// Update rewrites baselines with the resolved inheritors.
	Update bool

	// OnResult is called after each run of RunAll, one call at a time.
	OnResult func(*Result)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.RunIDs == nil {
		o.RunIDs = UUIDv7Generator{}
	}
	if o.BaselineName == "" {
		o.BaselineName = outcome.DefaultBaselineName
	}
	if o.Provider == nil {
		logger := o.Logger
		o.Provider = func(store *project.Store) resolve.Provider {
			p := goprovider.New(store)
			p.Logger = logger
			return p
		}
	}
	return o
}

// Result is the outcome of one run.
type Result struct {
	// Case is the case directory as given to Run.
	Case string `json:"case"`

	RunID string `json:"run_id"`

	// Pass is true when the baseline matched or the case failed as declared.
	Pass bool `json:"pass"`

	// ExpectedFailure is true when resolution failed on a case declared
	// with "fails": true.
	ExpectedFailure bool `json:"expected_failure,omitempty"`

	Verdict outcome.Verdict `json:"verdict,omitempty"`

	// Declaration is the qualified name of the sealed declaration, empty
	// when none was found.
	Declaration string `json:"declaration,omitempty"`

	// Inheritors are the resolved direct subtypes as produced.
	Inheritors []string `json:"inheritors"`

	// Err explains a failed run: a structural error, a baseline mismatch,
	// an unexpected success or the provider's own error.
	Err error `json:"-"`
}

// Message returns the failure message, or "" for a passing run.
func (r *Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
