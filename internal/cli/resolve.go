package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/langfeat/internal/directive"
	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
	"github.com/roach88/langfeat/internal/resolve"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Werror bool
	Output string

	// Recorder receives the feature flags in command-line order.
	Recorder directive.Recorder

	// IDGenerator allows overriding the resolution ID generator (for testing).
	// If nil, defaults to resolve.UUIDv7Generator.
	IDGenerator resolve.IDGenerator
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}
	return newResolveCommand(opts)
}

func newResolveCommand(opts *ResolveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve feature states from flags",
		Long: `Resolve the state of every catalog feature for one invocation.

Feature flags are applied in command-line order; for each feature the last
applicable flag wins. Flags that cannot apply are reported as diagnostics.

Value syntax: <name>[:undef|:adoption][=<value>]

Exit codes:
  0 - Resolved (diagnostics may have been reported)
  1 - Warnings reported and --werror set
  2 - Command error (bad language mode, registry not found, etc.)

Examples:
  langfeat resolve --language-version 6
  langfeat resolve --enable-upcoming-feature StrictConcurrency=targeted \
                   --disable-upcoming-feature StrictConcurrency
  langfeat resolve --enable-upcoming-feature ExistentialAny:adoption --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, cmd)
		},
	}

	opts.Recorder.Register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.Werror, "werror", false, "treat warning diagnostics as errors")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result to a file instead of stdout")

	return cmd
}

func runResolve(opts *ResolveOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Diagnostics and verbose logs go to stderr
		Verbose:   opts.Verbose,
	}

	catalog, err := loadCatalogOrExit(formatter, opts.Registry)
	if err != nil {
		return err
	}

	occs := opts.Recorder.Occurrences()
	if err := checkLanguageVersion(catalog, occs); err != nil {
		_ = formatter.Error(ErrCodeInvalidMode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid language mode", err)
	}

	var resolveOpts []resolve.Option
	if opts.IDGenerator != nil {
		resolveOpts = append(resolveOpts, resolve.WithIDGenerator(opts.IDGenerator))
	}
	cfg, err := resolve.FromOccurrences(catalog, occs, resolveOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidMode, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid language mode", err)
	}

	formatter.VerboseLog("Resolution %s: mode %s, %d flag(s), fingerprint %s",
		cfg.ID(), cfg.Mode(), len(occs), cfg.Fingerprint())

	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to create output file", err)
		}
		defer f.Close()
		formatter.Writer = f
	}

	warnings := countWarnings(cfg)
	failed := opts.Werror && warnings > 0

	if opts.Format == "json" {
		if err := outputResolveJSON(formatter, cfg, failed, warnings); err != nil {
			return err
		}
	} else {
		if err := resolve.WriteTable(formatter.Writer, cfg); err != nil {
			return WrapExitError(ExitCommandError, "failed to write result", err)
		}
		resolve.WriteDiagnostics(formatter.GetErrWriter(), cfg)
	}

	if failed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d warning(s) treated as errors", warnings))
	}
	return nil
}

// checkLanguageVersion rejects a --language-version that does not parse or
// that the catalog does not list.
func checkLanguageVersion(catalog *feature.Catalog, occs []directive.Occurrence) error {
	v, ok := directive.LanguageVersion(occs)
	if !ok {
		return nil
	}
	mode, err := langmode.Parse(v)
	if err != nil {
		return err
	}
	if !catalog.KnowsMode(mode) {
		return fmt.Errorf("language mode %s is not one of %v", mode, catalog.Modes())
	}
	return nil
}

func countWarnings(cfg *resolve.Config) int {
	n := 0
	for _, d := range cfg.Diagnostics() {
		if d.Severity == resolve.SeverityWarning {
			n++
		}
	}
	return n
}

// outputResolveJSON writes the snapshot. Under --werror with warnings the
// response carries status "error" alongside the data.
func outputResolveJSON(formatter *OutputFormatter, cfg *resolve.Config, failed bool, warnings int) error {
	if !failed {
		return formatter.SuccessWithTrace(cfg.Snapshot(), cfg.ID())
	}

	response := CLIResponse{
		Status:  "error",
		Data:    cfg.Snapshot(),
		TraceID: cfg.ID(),
		Error: &CLIError{
			Code:    ErrCodeDiagnostics,
			Message: fmt.Sprintf("%d warning(s) treated as errors", warnings),
		},
	}
	return json.NewEncoder(formatter.Writer).Encode(response)
}
