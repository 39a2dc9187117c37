package resolve

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/langfeat/internal/directive"
	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
)

// Option configures a resolution.
type Option func(*options)

type options struct {
	ids IDGenerator
}

// WithIDGenerator sets the generator used for the Config's resolution ID.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// FromOccurrences runs the whole pipeline for one invocation: it selects the
// language mode (last --language-version, else the registry default),
// normalizes the occurrences, and resolves them.
//
// The only error is an unparseable --language-version; everything else is
// reported as a Diagnostic on the returned Config.
func FromOccurrences(reg feature.Registry, occs []directive.Occurrence, opts ...Option) (*Config, error) {
	mode := reg.DefaultMode()
	if v, ok := directive.LanguageVersion(occs); ok {
		parsed, err := langmode.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", directive.FlagLanguageVersion, err)
		}
		mode = parsed
	}

	directives, problems := directive.Normalize(occs)

	pre := make([]Diagnostic, 0, len(problems))
	for _, p := range problems {
		pre = append(pre, malformedModifier(p))
	}

	return resolve(reg, mode, directives, pre, opts), nil
}

// Resolve computes the final state of every feature in reg under mode.
//
// Directives may arrive in any order; they are folded per feature in
// ordinal order. Directives naming features absent from reg are reported
// and otherwise ignored.
func Resolve(reg feature.Registry, mode langmode.Mode, directives []directive.Directive, opts ...Option) *Config {
	return resolve(reg, mode, directives, nil, opts)
}

func resolve(reg feature.Registry, mode langmode.Mode, directives []directive.Directive, pre []Diagnostic, opts []Option) *Config {
	o := options{ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&o)
	}

	id := o.ids.Generate()
	slog.Debug("resolution started",
		"resolution_id", id,
		"mode", mode.String(),
		"directives", len(directives))

	byFeature := groupByFeature(directives)
	diags := append([]Diagnostic(nil), pre...)

	for name, ds := range byFeature {
		if _, ok := reg.Lookup(name); ok {
			continue
		}
		for _, d := range ds {
			diags = append(diags, unknownFeature(d))
		}
	}

	features := reg.Features()
	outcomes := make(map[string]outcome, len(features))
	for _, f := range features {
		out, fdiags := resolveFeature(f, mode, byFeature[f.Name])
		outcomes[f.Name] = out
		diags = append(diags, fdiags...)

		slog.Debug("feature resolved",
			"resolution_id", id,
			"feature", f.Name,
			"tier", f.Tier.String(),
			"state", out.state.String())
	}

	// Report in command-line order; several diagnostics on one ordinal keep
	// the order they were produced in.
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Ordinal < diags[j].Ordinal
	})

	if len(diags) > 0 {
		slog.Info("resolution produced diagnostics",
			"resolution_id", id,
			"count", len(diags))
	}

	return newConfig(id, mode, features, outcomes, diags)
}

// groupByFeature buckets directives by feature name, each bucket sorted by
// ordinal.
func groupByFeature(directives []directive.Directive) map[string][]directive.Directive {
	groups := make(map[string][]directive.Directive)
	for _, d := range directives {
		groups[d.Feature] = append(groups[d.Feature], d)
	}
	for _, ds := range groups {
		sort.SliceStable(ds, func(i, j int) bool {
			return ds[i].Ordinal < ds[j].Ordinal
		})
	}
	return groups
}

// outcome is the running state of one feature during the fold.
type outcome struct {
	state    feature.State
	value    string
	adopting bool
}

// defaultOutcome is the state of f under mode before any directive.
func defaultOutcome(f feature.Feature, mode langmode.Mode) outcome {
	switch f.Tier {
	case feature.TierBaseline:
		return outcome{state: feature.StateEnabled}
	case feature.TierUpcoming:
		if f.GrantedBy(mode) {
			return outcome{state: feature.StateEnabled}
		}
		return outcome{state: feature.StateOff}
	case feature.TierExperimental:
		return outcome{state: feature.StateOff}
	default:
		panic(fmt.Sprintf("resolve: unhandled tier %v", f.Tier))
	}
}

// resolveFeature folds ds (ordinal order, all targeting f) over f's default
// state. Each eligible directive replaces the running outcome outright, so
// the last eligible directive decides the result.
func resolveFeature(f feature.Feature, mode langmode.Mode, ds []directive.Directive) (outcome, []Diagnostic) {
	acc := defaultOutcome(f, mode)
	var diags []Diagnostic

	if f.Tier == feature.TierBaseline {
		for _, d := range ds {
			diags = append(diags, baselineFeature(f, d))
		}
		return acc, diags
	}

	for _, d := range ds {
		if reject, ok := ineligible(f, mode, d); ok {
			slog.Debug("directive ignored",
				"feature", f.Name,
				"ordinal", d.Ordinal,
				"code", string(reject.Code))
			diags = append(diags, reject)
			continue
		}
		if d.Action == directive.ActionEnable && d.Modifier.Value != "" && !f.AcceptsValue(d.Modifier.Value) {
			diags = append(diags, valueNotAccepted(f, d))
		}
		acc = apply(d)
	}

	return acc, diags
}

// ineligible reports why d cannot act on f, if it cannot.
func ineligible(f feature.Feature, mode langmode.Mode, d directive.Directive) (Diagnostic, bool) {
	switch d.Namespace {
	case directive.NamespaceUpcoming:
		if f.Tier == feature.TierExperimental {
			return namespaceMismatch(f, d), true
		}
	case directive.NamespaceExperimental:
		// reaches every tier
	default:
		panic(fmt.Sprintf("resolve: unhandled namespace %v", d.Namespace))
	}

	switch d.Modifier.Kind {
	case directive.ModifierUndef, directive.ModifierAdoption:
		if !f.Adoptable {
			return modifierIgnored(f, d), true
		}
	case directive.ModifierNone, directive.ModifierNamedValue:
	default:
		panic(fmt.Sprintf("resolve: unhandled modifier %v", d.Modifier.Kind))
	}

	if d.Action == directive.ActionDisable && f.GrantedBy(mode) {
		return grantedByMode(f, mode, d), true
	}

	return Diagnostic{}, false
}

// apply is the outcome an eligible directive leaves behind.
func apply(d directive.Directive) outcome {
	if d.Action == directive.ActionDisable {
		return outcome{state: feature.StateOff}
	}
	return outcome{
		state:    feature.StateEnabled,
		value:    d.Modifier.Value,
		adopting: d.Modifier.Kind == directive.ModifierAdoption,
	}
}
