package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
)

// CompileCatalog parses a CUE value into a feature catalog.
// Uses the CUE SDK's Go API directly.
//
// The value is the catalog root:
//
//	default_mode: "5"
//	modes: ["4", "4.2", "5", "6"]
//	feature: StrictConcurrency: {
//		tier:   "upcoming"
//		mode:   "6"
//		values: ["minimal", "targeted", "complete"]
//	}
//	feature: NamedOpaqueTypes: tier: "experimental"
//
// Returns the first error found. Use Validate to collect every problem.
func CompileCatalog(v cue.Value) (*feature.Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	defaultMode, err := compileDefaultMode(v)
	if err != nil {
		return nil, err
	}

	modes, err := compileModes(v)
	if err != nil {
		return nil, err
	}

	var features []feature.Feature
	featuresVal := v.LookupPath(cue.ParsePath("feature"))
	if featuresVal.Exists() {
		iter, err := featuresVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			f, err := CompileFeature(iter.Value())
			if err != nil {
				return nil, err
			}
			features = append(features, f)
		}
	}

	catalog, err := feature.NewCatalog(defaultMode, features...)
	if err != nil {
		return nil, &CompileError{Field: "feature", Message: err.Error(), Pos: v.Pos()}
	}
	return catalog.WithModes(modes...), nil
}

// CompileFeature parses one feature entry. The feature name is the entry's
// label, e.g. the value at path feature.StrictConcurrency.
func CompileFeature(v cue.Value) (feature.Feature, error) {
	var f feature.Feature
	if err := v.Err(); err != nil {
		return f, formatCUEError(err)
	}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		f.Name = labels[len(labels)-1].String()
	}
	if f.Name == "" {
		return f, &CompileError{Field: "feature", Message: "feature name is required", Pos: v.Pos()}
	}

	// tier (required)
	tierVal := v.LookupPath(cue.ParsePath("tier"))
	if !tierVal.Exists() {
		return f, &CompileError{
			Field:   "tier",
			Message: fmt.Sprintf("feature %q: tier is required", f.Name),
			Pos:     v.Pos(),
		}
	}
	tierStr, err := tierVal.String()
	if err != nil {
		return f, formatCUEError(err)
	}
	f.Tier, err = feature.ParseTier(tierStr)
	if err != nil {
		return f, &CompileError{
			Field:   "tier",
			Message: fmt.Sprintf("feature %q: %v", f.Name, err),
			Pos:     tierVal.Pos(),
		}
	}

	// mode (required for upcoming, forbidden otherwise)
	modeVal := v.LookupPath(cue.ParsePath("mode"))
	switch {
	case modeVal.Exists() && f.Tier != feature.TierUpcoming:
		return f, &CompileError{
			Field:   "mode.forbidden",
			Message: fmt.Sprintf("feature %q: %s features must not have a threshold mode", f.Name, f.Tier),
			Pos:     modeVal.Pos(),
		}
	case !modeVal.Exists() && f.Tier == feature.TierUpcoming:
		return f, &CompileError{
			Field:   "mode.required",
			Message: fmt.Sprintf("feature %q: upcoming features require a threshold mode", f.Name),
			Pos:     v.Pos(),
		}
	case modeVal.Exists():
		f.Threshold, err = compileMode(modeVal, "mode")
		if err != nil {
			return f, err
		}
	}

	// adoptable (optional, default false)
	adoptVal := v.LookupPath(cue.ParsePath("adoptable"))
	if adoptVal.Exists() {
		f.Adoptable, err = adoptVal.Bool()
		if err != nil {
			return f, formatCUEError(err)
		}
	}

	// values (optional)
	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if valuesVal.Exists() {
		f.Values, err = compileValues(f.Name, valuesVal)
		if err != nil {
			return f, err
		}
	}

	return f, nil
}

func compileDefaultMode(v cue.Value) (langmode.Mode, error) {
	modeVal := v.LookupPath(cue.ParsePath("default_mode"))
	if !modeVal.Exists() {
		return langmode.Mode{}, &CompileError{
			Field:   "default_mode.required",
			Message: "default_mode is required",
			Pos:     v.Pos(),
		}
	}
	return compileMode(modeVal, "default_mode")
}

func compileModes(v cue.Value) ([]langmode.Mode, error) {
	modesVal := v.LookupPath(cue.ParsePath("modes"))
	if !modesVal.Exists() {
		return nil, nil
	}

	iter, err := modesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var modes []langmode.Mode
	for iter.Next() {
		m, err := compileMode(iter.Value(), "modes")
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

func compileMode(v cue.Value, field string) (langmode.Mode, error) {
	s, err := v.String()
	if err != nil {
		return langmode.Mode{}, formatCUEError(err)
	}
	m, err := langmode.Parse(s)
	if err != nil {
		return langmode.Mode{}, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return m, nil
}

func compileValues(name string, v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var values []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if s == "" {
			return nil, &CompileError{
				Field:   "values",
				Message: fmt.Sprintf("feature %q: values must be non-empty strings", name),
				Pos:     iter.Value().Pos(),
			}
		}
		values = append(values, s)
	}
	return values, nil
}
