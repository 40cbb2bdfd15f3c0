package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sealcheck/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // explicit config file
	Dir     string // working directory for config lookup; "." when empty
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sealcheck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sealcheck",
		Short: "sealcheck - sealed type resolution harness",
		Long: `Run sealed type resolution cases across multi-module projects.

Each case declares a few modules, their dependencies and one file to
resolve. The direct subtypes of the file's first sealed declaration are
compared with the case baseline.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./.sealcheck.yaml)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// loadConfig reads the layered config; the --verbose flag wins over it. A
// config that cannot be loaded is reported as ErrCodeConfig.
func (o *RootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	cfg, err := config.Load(dir, o.Config)
	if err != nil {
		if ferr := o.formatter(cmd, o.Verbose).Error(ErrCodeConfig, err.Error(), nil); ferr != nil {
			return nil, ferr
		}
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if flagChanged(cmd, "verbose") {
		cfg.Verbose = o.Verbose
	}
	return cfg, nil
}

// logger returns a debug-level stderr logger when verbose, else a
// discarding one.
func logger(cmd *cobra.Command, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

func (o *RootOptions) formatter(cmd *cobra.Command, verbose bool) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   verbose,
	}
}
