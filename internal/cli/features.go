package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
	"github.com/roach88/langfeat/internal/resolve"
)

// FeaturesOptions holds flags for the features command.
type FeaturesOptions struct {
	*RootOptions
	LanguageVersion string
	Tier            string
}

// FeatureInfo describes one catalog feature and its default state.
type FeatureInfo struct {
	Name      string   `json:"name"`
	Tier      string   `json:"tier"`
	Since     string   `json:"since,omitempty"`
	Adoptable bool     `json:"adoptable,omitempty"`
	Values    []string `json:"values,omitempty"`
	Default   string   `json:"default"`
}

// FeaturesResult is the output of the features command.
type FeaturesResult struct {
	Mode     string        `json:"mode"`
	Features []FeatureInfo `json:"features"`
}

// NewFeaturesCommand creates the features command.
func NewFeaturesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeaturesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List catalog features",
		Long: `List the features of the catalog with their tier, threshold mode,
and their state under a language mode when no flags are given.

Examples:
  langfeat features
  langfeat features --language-version 6 --tier upcoming
  langfeat features --registry ./catalog --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeatures(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LanguageVersion, "language-version", "", "language mode (default from the catalog)")
	cmd.Flags().StringVar(&opts.Tier, "tier", "", "only list features of this tier (baseline|upcoming|experimental)")

	return cmd
}

func runFeatures(opts *FeaturesOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var tierFilter *feature.Tier
	if opts.Tier != "" {
		t, err := feature.ParseTier(opts.Tier)
		if err != nil {
			_ = formatter.Error(ErrCodeInvalidInput, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid tier", err)
		}
		tierFilter = &t
	}

	catalog, err := loadCatalogOrExit(formatter, opts.Registry)
	if err != nil {
		return err
	}

	mode := catalog.DefaultMode()
	if opts.LanguageVersion != "" {
		mode, err = langmode.Parse(opts.LanguageVersion)
		if err == nil && !catalog.KnowsMode(mode) {
			err = fmt.Errorf("language mode %s is not one of %v", mode, catalog.Modes())
		}
		if err != nil {
			_ = formatter.Error(ErrCodeInvalidMode, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid language mode", err)
		}
	}

	cfg := resolve.Resolve(catalog, mode, nil)
	result := FeaturesResult{Mode: mode.String(), Features: []FeatureInfo{}}
	for _, f := range catalog.Features() {
		if tierFilter != nil && f.Tier != *tierFilter {
			continue
		}
		info := FeatureInfo{
			Name:      f.Name,
			Tier:      f.Tier.String(),
			Adoptable: f.Adoptable,
			Values:    f.Values,
			Default:   cfg.State(f.Name).String(),
		}
		if f.HasThreshold() {
			info.Since = f.Threshold.String()
		}
		result.Features = append(result.Features, info)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputFeaturesText(formatter, result)
}

func outputFeaturesText(formatter *OutputFormatter, result FeaturesResult) error {
	fmt.Fprintf(formatter.Writer, "Language mode %s\n\n", result.Mode)

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "FEATURE\tTIER\tSINCE\tADOPTABLE\tVALUES\tDEFAULT\n")
	for _, f := range result.Features {
		since := f.Since
		if since == "" {
			since = "-"
		}
		adoptable := "-"
		if f.Adoptable {
			adoptable = "yes"
		}
		values := "-"
		if len(f.Values) > 0 {
			values = strings.Join(f.Values, "|")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", f.Name, f.Tier, since, adoptable, values, f.Default)
	}
	return tw.Flush()
}
