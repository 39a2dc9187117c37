package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Trace    []string // Diagnostics for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nDiagnostics:\n")
		for i, line := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, line)
		}
	}

	return buf.String()
}

func diagnosticTrace(result *Result) []string {
	lines := make([]string, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		lines = append(lines, d.String())
	}
	return lines
}

// assertDiagnosticContains checks that a diagnostic with the code (and the
// feature, if given) was reported.
func assertDiagnosticContains(result *Result, assertion Assertion) error {
	for _, d := range result.Diagnostics {
		if string(d.Code) != assertion.Code {
			continue
		}
		if assertion.Feature == "" || d.Feature == assertion.Feature {
			return nil
		}
	}

	expected := assertion.Code
	if assertion.Feature != "" {
		expected = fmt.Sprintf("%s for feature %s", assertion.Code, assertion.Feature)
	}
	return &AssertionError{
		Type:     AssertDiagnosticContains,
		Expected: expected,
		Actual:   "not reported",
		Trace:    diagnosticTrace(result),
	}
}

// assertDiagnosticOrder checks that the codes appear in the given relative
// order. Other diagnostics may appear in between.
func assertDiagnosticOrder(result *Result, assertion Assertion) error {
	codes := result.DiagnosticCodes()

	// Find first position of each expected code, searching after the
	// previous match
	pos := 0
	for _, want := range assertion.Codes {
		idx := slices.Index(codes[pos:], want)
		if idx < 0 {
			actual := fmt.Sprintf("%s not found after position %d", want, pos)
			if !slices.Contains(codes, want) {
				actual = fmt.Sprintf("missing code: %s", want)
			}
			return &AssertionError{
				Type:     AssertDiagnosticOrder,
				Expected: fmt.Sprintf("codes in order: %v", assertion.Codes),
				Actual:   actual,
				Trace:    diagnosticTrace(result),
			}
		}
		pos += idx + 1
	}

	return nil
}

// assertDiagnosticCount checks that the code appears exactly Count times.
func assertDiagnosticCount(result *Result, assertion Assertion) error {
	count := 0
	for _, d := range result.Diagnostics {
		if string(d.Code) == assertion.Code {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertDiagnosticCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Code),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    diagnosticTrace(result),
		}
	}

	return nil
}

// assertValue checks the feature's winning named value.
func assertValue(result *Result, assertion Assertion) error {
	got := result.Values[assertion.Feature]
	if got != assertion.Value {
		return &AssertionError{
			Type:     AssertValue,
			Expected: fmt.Sprintf("feature %s value %q", assertion.Feature, assertion.Value),
			Actual:   fmt.Sprintf("value %q", got),
		}
	}
	return nil
}

// assertAdopting checks whether the feature was enabled in adoption mode.
func assertAdopting(result *Result, assertion Assertion) error {
	got := slices.Contains(result.Adopting, assertion.Feature)
	if got != assertion.Adopting {
		return &AssertionError{
			Type:     AssertAdopting,
			Expected: fmt.Sprintf("feature %s adopting=%t", assertion.Feature, assertion.Adopting),
			Actual:   fmt.Sprintf("adopting=%t", got),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertDiagnosticContains:
			err = assertDiagnosticContains(result, assertion)
		case AssertDiagnosticOrder:
			err = assertDiagnosticOrder(result, assertion)
		case AssertDiagnosticCount:
			err = assertDiagnosticCount(result, assertion)
		case AssertValue:
			err = assertValue(result, assertion)
		case AssertAdopting:
			err = assertAdopting(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
