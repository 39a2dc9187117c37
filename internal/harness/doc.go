// Package harness provides conformance testing for feature resolution.
//
// The harness loads a feature catalog, feeds a scenario's flags through the
// resolver, and checks the resolved states and diagnostics against the
// scenario's expectations.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	registry: catalog.cue            # optional, defaults to the builtin catalog
//	resolution_id: test-resolution-1 # optional, fixed ID for snapshots
//	language_version: "6"            # optional
//	flags:
//	  - flag: enable-upcoming-feature
//	    value: StrictConcurrency=targeted
//	  - flag: disable-upcoming-feature
//	    value: StrictConcurrency
//	expect:
//	  StrictConcurrency: off
//	  AsyncAwait: enabled
//	diagnostics: [W301]
//	assertions:
//	  - type: diagnostic_contains
//	    code: W301
//	    feature: Unknown
//	  - type: value
//	    feature: StrictConcurrency
//	    value: targeted
//
// # Assertion Types
//
//   - diagnostic_contains: a diagnostic with the code (and feature) was reported
//   - diagnostic_order: the codes were reported in this relative order
//   - diagnostic_count: the code was reported exactly N times
//   - value: the feature's winning named value ("" for none)
//   - adopting: whether the feature was enabled in adoption mode
//
// # Deterministic Testing
//
// Every scenario resolves with a fixed resolution ID (from resolution_id or
// testutil's default), so results can be compared against golden snapshots.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/strict.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, err := range result.Errors {
//	        log.Println(err)
//	    }
//	}
package harness
