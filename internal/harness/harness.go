package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/sealcheck/internal/graph"
	"github.com/roach88/sealcheck/internal/outcome"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/resolve"
	"github.com/roach88/sealcheck/internal/structure"
)

// StructureNames are the structure file names tried, in order, when
// Options.StructureName is empty.
var StructureNames = []string{"structure.json", "structure.yaml", "structure.yml", "structure.cue"}

// Run executes the case in caseDir and returns its result.
//
// Execution flow:
//  1. Parse the structure file
//  2. Build the module graph into a fresh in-memory project
//  3. Resolve the target file
//  4. Reconcile the outcome with the baseline (or update it)
//
// Run never returns nil; failures are reported in Result.Err.
func Run(ctx context.Context, caseDir string, opts Options) *Result {
	opts = opts.withDefaults()

	res := &Result{
		Case:       caseDir,
		RunID:      opts.RunIDs.Generate(),
		Inheritors: []string{},
	}
	logger := opts.Logger.With("case", caseDir, "run_id", res.RunID)

	o, verdict, err := execute(ctx, caseDir, opts, logger)
	if o.Fact != nil {
		res.Declaration = o.Fact.Declaration
		res.Inheritors = o.Fact.Inheritors
	}
	if err != nil {
		res.Err = err
		logger.Debug("case failed", "error", err)
		return res
	}

	res.Pass = true
	res.Verdict = verdict
	res.ExpectedFailure = verdict == outcome.VerdictExpectedFailure
	logger.Debug("case passed", "verdict", string(verdict))
	return res
}

func execute(ctx context.Context, caseDir string, opts Options, logger *slog.Logger) (resolve.Outcome, outcome.Verdict, error) {
	path, err := StructureFile(caseDir, opts.StructureName)
	if err != nil {
		return resolve.Outcome{}, "", err
	}

	st, err := structure.Load(path)
	if err != nil {
		return resolve.Outcome{}, "", err
	}
	logger.Debug("structure parsed", "path", path, "modules", len(st.Modules), "fails", st.Fails)

	store, err := project.Open(project.MemoryPath)
	if err != nil {
		return resolve.Outcome{}, "", fmt.Errorf("failed to create in-memory project: %w", err)
	}
	defer store.Close()

	g, err := graph.Build(ctx, store, st, caseDir, logger)
	if err != nil {
		return resolve.Outcome{}, "", err
	}
	logger.Debug("graph built", "modules", g.Len(), "edges", len(g.Edges()))

	driver := &resolve.Driver{
		Files:    store,
		Provider: opts.Provider(store),
		Logger:   logger,
	}
	o, err := driver.Resolve(ctx, g, st.FileToResolve)
	if err != nil {
		return resolve.Outcome{}, "", err
	}

	baseline := outcome.BaselineFor(caseDir, opts.BaselineName)
	var verdict outcome.Verdict
	if opts.Update {
		verdict, err = outcome.Update(o, st.Fails, baseline)
	} else {
		verdict, err = outcome.Reconcile(o, st.Fails, baseline)
	}
	return o, verdict, err
}

// StructureFile returns the structure file of caseDir. With an explicit
// name it is used as is; otherwise the first of StructureNames that exists.
func StructureFile(caseDir, name string) (string, error) {
	if name != "" {
		return filepath.Join(caseDir, name), nil
	}
	for _, candidate := range StructureNames {
		p := filepath.Join(caseDir, candidate)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("no structure file in %s", caseDir)
}
