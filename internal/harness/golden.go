package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/langfeat/internal/resolve"
)

// Snapshot captures the resolved outcome of a scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. Diagnostic messages are left out so that rewording a
// message does not invalidate every golden file.
func (s *Snapshot) toCanonicalMap() map[string]any {
	features := make(map[string]any, len(s.Result.States))
	for name, state := range s.Result.States {
		entry := map[string]any{"state": state}
		if v, ok := s.Result.Values[name]; ok {
			entry["value"] = v
		}
		features[name] = entry
	}
	for _, name := range s.Result.Adopting {
		if entry, ok := features[name].(map[string]any); ok {
			entry["adopting"] = true
		}
	}

	diags := make([]any, len(s.Result.Diagnostics))
	for i, d := range s.Result.Diagnostics {
		entry := map[string]any{
			"code":     string(d.Code),
			"ordinal":  d.Ordinal,
			"severity": string(d.Severity),
		}
		if d.Feature != "" {
			entry["feature"] = d.Feature
		}
		diags[i] = entry
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"mode":          s.Result.Mode,
		"features":      features,
		"diagnostics":   diags,
	}
}

// SnapshotJSON returns the canonical JSON golden content for a result.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Result: result}
	return resolve.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the outcome against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the outcome doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
