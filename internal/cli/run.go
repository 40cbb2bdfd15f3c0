package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sealcheck/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Update bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <case-dir>",
		Short: "Run a single case",
		Long: `Run one case: parse its structure file, build the module graph,
resolve the target file and compare the inheritors with the baseline.

Exit codes:
  0 - Case passed
  1 - Case failed
  2 - Command error (missing directory, bad config, etc.)

Examples:
  sealcheck run ./cases/basic
  sealcheck run ./cases/basic --update
  sealcheck run ./cases/basic --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCase(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite the baseline with the resolved inheritors")

	return cmd
}

func runCase(ctx context.Context, opts *RunOptions, caseDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd, cfg.Verbose)

	if info, err := os.Stat(caseDir); err != nil || !info.IsDir() {
		msg := fmt.Sprintf("case directory not found: %s", caseDir)
		if err := formatter.Error(ErrCodeNotFound, msg, nil); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, msg)
	}

	result := harness.Run(ctx, caseDir, harness.Options{
		Logger:        logger(cmd, cfg.Verbose),
		StructureName: cfg.Structure,
		BaselineName:  cfg.Baseline,
		Update:        opts.Update,
	})
	formatter.VerboseLog("run %s finished", result.RunID)

	if opts.Format == "json" {
		rep := newCaseReport(caseDir, result)
		resp := CLIResponse{Status: "ok", Data: rep, TraceID: result.RunID}
		if !result.Pass {
			resp.Status = "error"
			resp.Error = rep.Error
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		writeCaseText(cmd.OutOrStdout(), caseDir, result, opts.Update)
	}

	if !result.Pass {
		return WrapExitError(ExitFailure, fmt.Sprintf("case %s failed", caseDir), result.Err)
	}
	return nil
}
