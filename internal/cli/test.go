package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/sealcheck/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update   bool   // regenerate baselines
	Filter   string // case filter (glob pattern)
	Jobs     int    // concurrent runs, 0 = one per CPU
	Progress bool   // draw a progress bar on stderr
}

// TestResult holds the overall test result.
type TestResult struct {
	Cases  []CaseReport `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <cases-dir>",
		Short: "Run every case under a directory",
		Long: `Discover and run every case under a directory.

A case is any directory holding a structure file. Cases run concurrently,
each in its own in-memory project; results are reported in discovery order.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid paths, etc.)

Examples:
  sealcheck test ./cases
  sealcheck test ./cases --filter "nested*"
  sealcheck test ./cases --update
  sealcheck test ./cases --jobs 4 --progress
  sealcheck test ./cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate baselines")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "concurrent runs (0 = one per CPU)")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "show a progress bar")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, root string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagChanged(cmd, "filter") {
		cfg.Filter = opts.Filter
	}
	if flagChanged(cmd, "jobs") {
		cfg.Jobs = opts.Jobs
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid options", err)
	}
	formatter := opts.formatter(cmd, cfg.Verbose)

	// Validate directory
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		msg := fmt.Sprintf("cases directory not found: %s", root)
		if err := formatter.Error(ErrCodeNotFound, msg, nil); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, msg)
	}

	dirs, err := harness.Discover(root, cfg.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find cases", err)
	}
	formatter.VerboseLog("Found %d case(s) in %s", len(dirs), root)

	if len(dirs) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(formatter, TestResult{Cases: []CaseReport{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No cases found.")
		return nil
	}

	hopts := harness.Options{
		Logger:        logger(cmd, cfg.Verbose),
		StructureName: cfg.Structure,
		BaselineName:  cfg.Baseline,
		Update:        opts.Update,
	}
	if opts.Progress && opts.Format != "json" {
		hopts.OnResult = progressReporter(cmd, len(dirs))
	}

	results := harness.RunAll(ctx, dirs, hopts, cfg.Jobs)

	summary := TestResult{
		Cases: make([]CaseReport, 0, len(results)),
		Total: len(results),
	}
	for i, r := range results {
		name := caseName(root, dirs[i])
		summary.Cases = append(summary.Cases, newCaseReport(name, r))
		if r.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
		if opts.Format != "json" {
			writeCaseText(cmd.OutOrStdout(), name, r, opts.Update)
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputTestJSON(formatter, summary)
	}
	return outputTestText(cmd, summary)
}

// progressReporter draws a bar on stderr advanced once per finished run.
func progressReporter(cmd *cobra.Command, total int) func(*harness.Result) {
	passed, failed := 0, 0
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describeProgress(passed, failed)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	return func(r *harness.Result) {
		if r.Pass {
			passed++
		} else {
			failed++
		}
		bar.Describe(describeProgress(passed, failed))
		_ = bar.Add(1)
	}
}

func describeProgress(passed, failed int) string {
	return color.CyanString("Running cases: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d case(s) failed", result.Failed),
		}
	}

	if err := formatter.JSON(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}
