// Package resolve computes the final on/off state of every known feature.
//
// Resolution folds a feature's default state (from its tier and the selected
// language mode) with the directives that target it, in ordinal order:
//
//	baseline      always enabled; directives are accepted as no-ops
//	upcoming      enabled when mode >= threshold, else off
//	experimental  off
//
// A directive overwrites the running state only when it is eligible:
//
//   - upcoming-flag directives never reach experimental features
//   - :undef and :adoption only act on adoptable features
//   - a disable cannot revoke an upcoming feature the mode already grants
//
// Ineligible directives and directives naming unknown features leave the
// state untouched and are reported as Diagnostics. Resolution never fails.
//
// The result is a Config: built once, never mutated, safe for any number of
// concurrent readers.
package resolve
