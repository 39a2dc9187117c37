package resolve

import (
	"fmt"

	"github.com/roach88/langfeat/internal/directive"
	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// DiagnosticCode identifies the kind of diagnostic (W300-W399).
type DiagnosticCode string

const (
	CodeUnknownFeature    DiagnosticCode = "W301" // directive names a feature absent from the registry
	CodeMalformedModifier DiagnosticCode = "W302" // value does not match the modifier grammar
	CodeModifierIgnored   DiagnosticCode = "W303" // :undef/:adoption on a non-adoptable feature
	CodeNamespaceMismatch DiagnosticCode = "W304" // upcoming flag targeting an experimental feature
	CodeGrantedByMode     DiagnosticCode = "W305" // disable of a feature the mode already grants
	CodeBaselineFeature   DiagnosticCode = "W306" // directive on an always-enabled feature
	CodeValueNotAccepted  DiagnosticCode = "W307" // =value outside the feature's accepted values
)

// Diagnostic is a non-fatal finding produced during resolution.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     DiagnosticCode `json:"code"`
	Message  string         `json:"message"`
	Feature  string         `json:"feature,omitempty"`
	Ordinal  int            `json:"ordinal"`
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] position %d: %s", d.Severity, d.Code, d.Ordinal, d.Message)
}

func unknownFeature(d directive.Directive) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeUnknownFeature,
		Message:  fmt.Sprintf("unknown feature %q in %s", d.Feature, d),
		Feature:  d.Feature,
		Ordinal:  d.Ordinal,
	}
}

func malformedModifier(pe *directive.ParseError) Diagnostic {
	name, _, _ := directive.ParseValue(pe.Value)
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeMalformedModifier,
		Message:  pe.Error(),
		Feature:  name,
		Ordinal:  pe.Ordinal,
	}
}

func modifierIgnored(f feature.Feature, d directive.Directive) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeModifierIgnored,
		Message:  fmt.Sprintf("feature %q is not adoptable; %s has no effect", f.Name, d),
		Feature:  f.Name,
		Ordinal:  d.Ordinal,
	}
}

func namespaceMismatch(f feature.Feature, d directive.Directive) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeNamespaceMismatch,
		Message:  fmt.Sprintf("%q is an experimental feature; use --%s-experimental-feature", f.Name, d.Action),
		Feature:  f.Name,
		Ordinal:  d.Ordinal,
	}
}

func grantedByMode(f feature.Feature, mode langmode.Mode, d directive.Directive) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeGrantedByMode,
		Message: fmt.Sprintf("feature %q is enabled by language mode %s (since %s) and cannot be disabled",
			f.Name, mode, f.Threshold),
		Feature: f.Name,
		Ordinal: d.Ordinal,
	}
}

func baselineFeature(f feature.Feature, d directive.Directive) Diagnostic {
	return Diagnostic{
		Severity: SeverityNote,
		Code:     CodeBaselineFeature,
		Message:  fmt.Sprintf("feature %q is always enabled; %s has no effect", f.Name, d),
		Feature:  f.Name,
		Ordinal:  d.Ordinal,
	}
}

func valueNotAccepted(f feature.Feature, d directive.Directive) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeValueNotAccepted,
		Message:  fmt.Sprintf("value %q is not one of %v for feature %q", d.Modifier.Value, f.Values, f.Name),
		Feature:  f.Name,
		Ordinal:  d.Ordinal,
	}
}
