package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
)

// Catalog validation error codes (E200-E299)
const (
	ErrCatalogGeneric      = "E200" // CUE evaluation or unexpected error
	ErrInvalidTier         = "E201" // tier missing or not baseline/upcoming/experimental
	ErrThresholdMissing    = "E202" // upcoming feature without mode
	ErrThresholdForbidden  = "E203" // baseline/experimental feature with mode
	ErrInvalidMode         = "E204" // mode string does not parse
	ErrUnknownThreshold    = "E205" // threshold not listed in modes
	ErrUnknownDefaultMode  = "E206" // default_mode not listed in modes
	ErrInvalidValues       = "E207" // empty or duplicate entries in values
	ErrDefaultModeRequired = "E208" // default_mode missing
)

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a CUE catalog value and returns every problem found
// (does not fail-fast). An empty result means CompileCatalog will succeed.
func Validate(v cue.Value) []ValidationError {
	if err := v.Err(); err != nil {
		return []ValidationError{toValidationError("catalog", formatCUEError(err))}
	}

	var errs []ValidationError

	defaultMode, err := compileDefaultMode(v)
	if err != nil {
		errs = append(errs, toValidationError("default_mode", err))
	}

	modes, err := compileModes(v)
	if err != nil {
		errs = append(errs, toValidationError("modes", err))
	}
	known := func(m langmode.Mode) bool {
		if len(modes) == 0 {
			return true
		}
		for _, k := range modes {
			if k.Equal(m) {
				return true
			}
		}
		return false
	}

	if !defaultMode.IsZero() && !known(defaultMode) {
		errs = append(errs, ValidationError{
			Field:   "default_mode",
			Message: fmt.Sprintf("default mode %s is not listed in modes", defaultMode),
			Code:    ErrUnknownDefaultMode,
		})
	}

	featuresVal := v.LookupPath(cue.ParsePath("feature"))
	if !featuresVal.Exists() {
		return errs
	}
	iter, err := featuresVal.Fields()
	if err != nil {
		return append(errs, toValidationError("feature", formatCUEError(err)))
	}

	for iter.Next() {
		name := iter.Label()
		f, err := CompileFeature(iter.Value())
		if err != nil {
			errs = append(errs, toValidationError("feature."+name, err))
			continue
		}
		errs = append(errs, validateFeature(f, known)...)
	}

	return errs
}

// validateFeature runs the cross-field checks CompileFeature does not.
func validateFeature(f feature.Feature, known func(langmode.Mode) bool) []ValidationError {
	var errs []ValidationError

	// E205: threshold must be a known mode
	if f.HasThreshold() && !known(f.Threshold) {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("feature.%s.mode", f.Name),
			Message: fmt.Sprintf("threshold mode %s is not listed in modes", f.Threshold),
			Code:    ErrUnknownThreshold,
		})
	}

	// E207: values must be unique
	seen := make(map[string]bool, len(f.Values))
	for i, v := range f.Values {
		if seen[v] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("feature.%s.values[%d]", f.Name, i),
				Message: fmt.Sprintf("duplicate value %q", v),
				Code:    ErrInvalidValues,
			})
		}
		seen[v] = true
	}

	return errs
}

// toValidationError converts a compile error into a ValidationError with
// a code derived from the failing field.
func toValidationError(context string, err error) ValidationError {
	var cErr *CompileError
	if errors.As(err, &cErr) {
		line := 0
		if cErr.Pos.IsValid() {
			line = cErr.Pos.Line()
		}
		return ValidationError{
			Field:   context,
			Message: cErr.Message,
			Code:    MapFieldToCode(cErr.Field),
			Line:    line,
		}
	}
	return ValidationError{Field: context, Message: err.Error(), Code: ErrCatalogGeneric}
}

// MapFieldToCode maps a CompileError field to a validation code.
func MapFieldToCode(field string) string {
	switch field {
	case "tier":
		return ErrInvalidTier
	case "mode.required":
		return ErrThresholdMissing
	case "mode.forbidden":
		return ErrThresholdForbidden
	case "mode", "modes", "default_mode":
		return ErrInvalidMode
	case "default_mode.required":
		return ErrDefaultModeRequired
	case "values":
		return ErrInvalidValues
	default:
		return ErrCatalogGeneric
	}
}
