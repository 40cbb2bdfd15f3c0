package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sealcheck/internal/failure"
	"github.com/roach88/sealcheck/internal/graph"
	"github.com/roach88/sealcheck/internal/harness"
	"github.com/roach88/sealcheck/internal/project"
	"github.com/roach88/sealcheck/internal/structure"
)

// ValidationResult describes a structurally valid case.
type ValidationResult struct {
	Valid     bool         `json:"valid"`
	Structure string       `json:"structure"`
	Modules   []string     `json:"modules"`
	Edges     []graph.Edge `json:"edges"`
	File      string       `json:"file"`
	Fails     bool         `json:"fails,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <case-dir>",
		Short: "Validate a case without resolving it",
		Long: `Parse the structure file, build the module graph and check that the
file to resolve exists. Nothing is resolved and the baseline is not read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, caseDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd, cfg.Verbose)

	if info, err := os.Stat(caseDir); err != nil || !info.IsDir() {
		return outputValidateError(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("case directory not found: %s", caseDir))
	}

	result, err := validateCase(ctx, caseDir, cfg.Structure)
	if err != nil {
		code := ErrCodeGeneric
		if failure.IsStructural(err) {
			code = errorCode(err)
		}
		return outputValidateError(formatter, ExitFailure, code, err.Error())
	}
	formatter.VerboseLog("Validated %d module(s) from %s", len(result.Modules), result.Structure)

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "✓ %s is valid\n", caseDir)
	fmt.Fprintf(w, "  modules: %s\n", strings.Join(result.Modules, ", "))
	for _, e := range result.Edges {
		fmt.Fprintf(w, "  %s -> %s\n", e.From, e.To)
	}
	fmt.Fprintf(w, "  resolves: %s\n", result.File)
	return nil
}

// validateCase runs every pipeline step that precedes resolution.
func validateCase(ctx context.Context, caseDir, structureName string) (*ValidationResult, error) {
	path, err := harness.StructureFile(caseDir, structureName)
	if err != nil {
		return nil, err
	}
	st, err := structure.Load(path)
	if err != nil {
		return nil, err
	}

	store, err := project.Open(project.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory project: %w", err)
	}
	defer store.Close()

	g, err := graph.Build(ctx, store, st, caseDir, nil)
	if err != nil {
		return nil, err
	}

	node, ok := g.Lookup(st.FileToResolve.ModuleName)
	if !ok {
		return nil, failure.NoModule(st.FileToResolve.ModuleName)
	}
	_, found, err := store.FindFile(ctx, node.Handle, st.FileToResolve.RelativePath)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, failure.NoFile(st.FileToResolve.ModuleName, st.FileToResolve.FullPath())
	}

	modules := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		modules = append(modules, n.Name)
	}
	return &ValidationResult{
		Valid:     true,
		Structure: path,
		Modules:   modules,
		Edges:     g.Edges(),
		File:      st.FileToResolve.FullPath(),
		Fails:     st.Fails,
	}, nil
}

func outputValidateError(formatter *OutputFormatter, exitCode int, code, message string) error {
	if err := formatter.Error(code, message, nil); err != nil {
		return err
	}
	return NewExitError(exitCode, message)
}
