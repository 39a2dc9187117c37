package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/langfeat/internal/compiler"
	"github.com/roach88/langfeat/internal/directive"
	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/resolve"
	"github.com/roach88/langfeat/internal/testutil"
)

// Harness is the test execution engine.
// It resolves scenarios against one registry with a fixed resolution ID.
type Harness struct {
	registry feature.Registry
	ids      *testutil.FixedIDGenerator
	logger   *slog.Logger
}

// Run executes a test scenario against the registry it names (or the
// builtin catalog) and returns the result.
//
// Execution flow:
// 1. Load and compile the scenario's registry
// 2. Replay the flags (plus language_version) as occurrences
// 3. Resolve them with a fixed resolution ID
// 4. Check expected states and diagnostic codes
// 5. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	reg, err := LoadRegistry(scenario.Registry)
	if err != nil {
		return nil, err
	}
	return RunWithRegistry(scenario, reg)
}

// RunWithRegistry executes a scenario against reg, ignoring scenario.Registry.
func RunWithRegistry(scenario *Scenario, reg feature.Registry) (*Result, error) {
	h := &Harness{
		registry: reg,
		ids:      testutil.NewFixedIDGenerator(scenario.ResolutionID),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	return h.run(scenario)
}

func (h *Harness) run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	occs := h.occurrences(scenario, result)
	cfg, err := resolve.FromOccurrences(h.registry, occs, resolve.WithIDGenerator(h.ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve flags: %w", err)
	}

	result.ResolutionID = cfg.ID()
	result.Mode = cfg.Mode().String()
	result.Fingerprint = cfg.Fingerprint()
	result.Diagnostics = cfg.Diagnostics()
	for _, name := range cfg.Features() {
		result.States[name] = cfg.State(name).String()
		if v, ok := cfg.Value(name); ok {
			result.Values[name] = v
		}
		if cfg.IsAdopting(name) {
			result.Adopting = append(result.Adopting, name)
		}
	}

	h.checkExpect(scenario, result)

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario resolved",
		"scenario", scenario.Name,
		"resolution_id", result.ResolutionID,
		"mode", result.Mode,
		"diagnostics", len(result.Diagnostics),
		"pass", result.Pass,
	)

	return result, nil
}

// occurrences converts the scenario's flags into occurrences and records
// them in the trace. The language version, if any, comes last.
func (h *Harness) occurrences(scenario *Scenario, result *Result) []directive.Occurrence {
	occs := make([]directive.Occurrence, 0, len(scenario.Flags)+1)
	for _, step := range scenario.Flags {
		occs = append(occs, directive.Occurrence{Flag: step.Flag, Value: step.Value})
	}
	if scenario.LanguageVersion != "" {
		occs = append(occs, directive.Occurrence{
			Flag:  directive.FlagLanguageVersion,
			Value: scenario.LanguageVersion,
		})
	}
	for i, occ := range occs {
		result.AddTrace(i, occ.Flag, occ.Value)
	}
	return occs
}

// checkExpect compares resolved states and diagnostic codes with the
// scenario's expectations.
func (h *Harness) checkExpect(scenario *Scenario, result *Result) {
	names := make([]string, 0, len(scenario.Expect))
	for name := range scenario.Expect {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		want := scenario.Expect[name]
		got, ok := result.States[name]
		if !ok {
			result.AddError(fmt.Sprintf("expect: feature %q is not in the registry", name))
			continue
		}
		if got != want {
			result.AddError(fmt.Sprintf("expect: feature %q is %s, want %s", name, got, want))
			continue
		}
		h.logger.Debug("state matched", "feature", name, "state", got)
	}

	if scenario.Diagnostics != nil {
		codes := result.DiagnosticCodes()
		if !slices.Equal(codes, scenario.Diagnostics) {
			result.AddError(fmt.Sprintf("diagnostics: got %v, want %v", codes, scenario.Diagnostics))
		}
	}
}

// LoadRegistry compiles the CUE catalog file at path.
// An empty path returns the builtin catalog.
func LoadRegistry(path string) (*feature.Catalog, error) {
	if path == "" {
		return compiler.Builtin()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	catalog, err := compiler.CompileCatalog(v)
	if err != nil {
		return nil, fmt.Errorf("failed to compile registry %s: %w", path, err)
	}
	return catalog, nil
}
