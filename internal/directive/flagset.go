package directive

import (
	"github.com/spf13/pflag"
)

// Recorder captures feature flag occurrences in command-line order.
//
// pflag invokes Value.Set once per occurrence, left to right, so routing all
// five flags into one Recorder preserves the interleaving across flags that
// the resolver's last-write-wins rule depends on.
type Recorder struct {
	occurrences []Occurrence
}

// Register adds the four feature flags and --language-version to fs.
func (r *Recorder) Register(fs *pflag.FlagSet) {
	fs.Var(&recordingValue{flag: FlagEnableUpcoming, rec: r}, FlagEnableUpcoming,
		"enable an upcoming feature: <name>[:undef|:adoption][=<value>] (repeatable)")
	fs.Var(&recordingValue{flag: FlagEnableExperimental, rec: r}, FlagEnableExperimental,
		"enable an experimental feature: <name>[:undef|:adoption][=<value>] (repeatable)")
	fs.Var(&recordingValue{flag: FlagDisableUpcoming, rec: r}, FlagDisableUpcoming,
		"disable an upcoming feature: <name> (repeatable)")
	fs.Var(&recordingValue{flag: FlagDisableExperimental, rec: r}, FlagDisableExperimental,
		"disable an experimental feature: <name> (repeatable)")
	fs.Var(&recordingValue{flag: FlagLanguageVersion, rec: r}, FlagLanguageVersion,
		"language mode, e.g. 5 or 6 (default from the catalog)")
}

// Occurrences returns the recorded occurrences in order.
func (r *Recorder) Occurrences() []Occurrence {
	return append([]Occurrence(nil), r.occurrences...)
}

// LanguageVersion returns the last --language-version value, if any.
func (r *Recorder) LanguageVersion() (string, bool) {
	return LanguageVersion(r.occurrences)
}

// Reset clears recorded occurrences.
func (r *Recorder) Reset() {
	r.occurrences = nil
}

// LanguageVersion returns the last --language-version value in occs.
func LanguageVersion(occs []Occurrence) (string, bool) {
	for i := len(occs) - 1; i >= 0; i-- {
		if occs[i].Flag == FlagLanguageVersion {
			return occs[i].Value, true
		}
	}
	return "", false
}

type recordingValue struct {
	flag string
	rec  *Recorder
	last string
}

func (v *recordingValue) Set(s string) error {
	v.rec.occurrences = append(v.rec.occurrences, Occurrence{Flag: v.flag, Value: s})
	v.last = s
	return nil
}

func (v *recordingValue) String() string { return v.last }

func (v *recordingValue) Type() string {
	if v.flag == FlagLanguageVersion {
		return "mode"
	}
	return "feature"
}
