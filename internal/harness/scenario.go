package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/langfeat/internal/directive"
	"github.com/roach88/langfeat/internal/feature"
)

// Scenario defines a conformance test scenario.
// A scenario is one compiler invocation: a language mode and an ordered
// list of feature flags, plus the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Registry is an optional path to a CUE catalog file.
	// Empty means the builtin catalog.
	Registry string `yaml:"registry,omitempty"`

	// ResolutionID is an optional fixed resolution ID.
	// If empty, defaults to "test-resolution-default".
	ResolutionID string `yaml:"resolution_id,omitempty"`

	// LanguageVersion is passed as a trailing --language-version flag.
	LanguageVersion string `yaml:"language_version,omitempty"`

	// Flags are the feature flags in command-line order.
	Flags []FlagStep `yaml:"flags"`

	// Expect maps feature names to their expected state ("enabled" or "off").
	// Features not listed are not checked.
	Expect map[string]string `yaml:"expect"`

	// Diagnostics is the exact list of diagnostic codes expected, in order.
	// Nil skips the check; an empty list requires no diagnostics.
	Diagnostics []string `yaml:"diagnostics,omitempty"`

	// Assertions are additional checks on the result.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// FlagStep is one flag occurrence.
type FlagStep struct {
	// Flag is the flag name without leading dashes,
	// e.g. "enable-upcoming-feature".
	Flag string `yaml:"flag"`

	// Value is the raw flag value, e.g. "StrictConcurrency=targeted".
	Value string `yaml:"value"`
}

// Assertion validates diagnostics, values, or adoption.
type Assertion struct {
	// Type specifies the assertion type:
	// - "diagnostic_contains": a diagnostic with Code (and Feature, if set)
	// - "diagnostic_order": Codes appear in this relative order
	// - "diagnostic_count": Code appears exactly Count times
	// - "value": Feature's named value equals Value
	// - "adopting": Feature's adoption flag equals Adopting
	Type string `yaml:"type"`

	// Code is a diagnostic code such as "W301".
	Code string `yaml:"code,omitempty"`

	// Codes is the expected diagnostic order (used by diagnostic_order).
	Codes []string `yaml:"codes,omitempty"`

	// Feature is the feature name (used by value, adopting, and optionally
	// diagnostic_contains).
	Feature string `yaml:"feature,omitempty"`

	// Count is the expected number of occurrences (used by diagnostic_count).
	Count int `yaml:"count,omitempty"`

	// Value is the expected named value (used by value).
	Value string `yaml:"value,omitempty"`

	// Adopting is the expected adoption flag (used by adopting).
	Adopting bool `yaml:"adopting,omitempty"`
}

// Assertion type constants.
const (
	AssertDiagnosticContains = "diagnostic_contains"
	AssertDiagnosticOrder    = "diagnostic_order"
	AssertDiagnosticCount    = "diagnostic_count"
	AssertValue              = "value"
	AssertAdopting           = "adopting"
)

// LoadScenario reads and parses a scenario YAML file. A relative registry
// path is resolved against the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the registry path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve registry path BEFORE validation
	if scenario.Registry != "" && !filepath.IsAbs(scenario.Registry) && basePath != "" {
		scenario.Registry = filepath.Join(basePath, scenario.Registry)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return scenario, nil
}

// ParseScenario decodes scenario YAML without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Expect) == 0 {
		return fmt.Errorf("expect map is required and must be non-empty")
	}

	if s.Registry != "" {
		if _, err := os.Stat(s.Registry); os.IsNotExist(err) {
			return fmt.Errorf("registry file not found: %s", s.Registry)
		}
	}

	for i, step := range s.Flags {
		if step.Flag == directive.FlagLanguageVersion {
			return fmt.Errorf("flags[%d]: use language_version instead of %s", i, step.Flag)
		}
		if !directive.IsFeatureFlag(step.Flag) {
			return fmt.Errorf("flags[%d]: unknown flag %q", i, step.Flag)
		}
	}

	for name, state := range s.Expect {
		if _, err := feature.ParseState(state); err != nil {
			return fmt.Errorf("expect[%s]: %w", name, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertDiagnosticContains:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic_contains", index)
		}
	case AssertDiagnosticOrder:
		if len(a.Codes) == 0 {
			return fmt.Errorf("assertions[%d]: codes list is required for diagnostic_order", index)
		}
	case AssertDiagnosticCount:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for diagnostic_count", index)
		}
	case AssertValue, AssertAdopting:
		if a.Feature == "" {
			return fmt.Errorf("assertions[%d]: feature is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// DiscoverScenarios returns the YAML scenario files in dir, sorted by name.
func DiscoverScenarios(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths, nil
}
