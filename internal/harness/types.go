package harness

import "github.com/roach88/langfeat/internal/resolve"

// TraceEvent is one flag occurrence as the resolver saw it.
type TraceEvent struct {
	Ordinal int    `json:"ordinal"`
	Flag    string `json:"flag"`
	Value   string `json:"value"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation and assertion holds.
	Pass bool `json:"pass"`

	// ResolutionID is the ID stamped on the resolved configuration.
	ResolutionID string `json:"resolution_id"`

	// Mode is the language mode the flags were resolved under.
	Mode string `json:"mode"`

	// Trace contains the flag occurrences in command-line order.
	Trace []TraceEvent `json:"trace"`

	// States maps every registry feature to "enabled" or "off".
	States map[string]string `json:"states"`

	// Values maps features enabled with "=value" to that value.
	Values map[string]string `json:"values,omitempty"`

	// Adopting lists features enabled in adoption mode, sorted.
	Adopting []string `json:"adopting,omitempty"`

	// Diagnostics are the resolver's diagnostics in command-line order.
	Diagnostics []resolve.Diagnostic `json:"diagnostics,omitempty"`

	// Fingerprint is the resolved configuration's fingerprint.
	Fingerprint string `json:"fingerprint"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		States: make(map[string]string),
		Values: make(map[string]string),
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace records a flag occurrence.
func (r *Result) AddTrace(ordinal int, flag, value string) {
	r.Trace = append(r.Trace, TraceEvent{Ordinal: ordinal, Flag: flag, Value: value})
}

// DiagnosticCodes returns the diagnostic codes in order.
func (r *Result) DiagnosticCodes() []string {
	codes := make([]string, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		codes = append(codes, string(d.Code))
	}
	return codes
}
