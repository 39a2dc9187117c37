package feature

import (
	"fmt"

	"github.com/roach88/langfeat/internal/langmode"
)

// Tier is the maturity classification of a feature.
type Tier int

const (
	// TierBaseline features are part of every language mode and are always enabled.
	TierBaseline Tier = iota

	// TierUpcoming features are enabled by default once the language mode
	// reaches the feature's threshold.
	TierUpcoming

	// TierExperimental features are off unless explicitly enabled.
	TierExperimental
)

// String returns the lowercase tier name used in catalogs and output.
func (t Tier) String() string {
	switch t {
	case TierBaseline:
		return "baseline"
	case TierUpcoming:
		return "upcoming"
	case TierExperimental:
		return "experimental"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier converts a catalog tier name to a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "baseline":
		return TierBaseline, nil
	case "upcoming":
		return TierUpcoming, nil
	case "experimental":
		return TierExperimental, nil
	default:
		return 0, fmt.Errorf("unknown tier %q, must be \"baseline\", \"upcoming\", or \"experimental\"", s)
	}
}

// Feature is the immutable metadata of one optional language feature.
type Feature struct {
	// Name uniquely identifies the feature (e.g. "StrictConcurrency").
	Name string

	// Tier decides the default state and which flags can reach the feature.
	Tier Tier

	// Threshold is the language mode at or above which an upcoming feature
	// is enabled by default. Zero for baseline and experimental features.
	Threshold langmode.Mode

	// Adoptable reports whether the :undef and :adoption modifiers apply.
	Adoptable bool

	// Values lists accepted "=value" payloads. Empty means any payload.
	Values []string
}

// HasThreshold reports whether the feature carries a threshold mode.
func (f Feature) HasThreshold() bool {
	return !f.Threshold.IsZero()
}

// AcceptsValue reports whether v is an accepted payload for the feature.
func (f Feature) AcceptsValue(v string) bool {
	if len(f.Values) == 0 {
		return true
	}
	for _, allowed := range f.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

// GrantedBy reports whether mode m enables the feature without any flag.
// Only upcoming features can be granted by a mode; baseline features are
// always on and experimental features never are.
func (f Feature) GrantedBy(m langmode.Mode) bool {
	return f.Tier == TierUpcoming && f.HasThreshold() && m.AtLeast(f.Threshold)
}

// State is the resolved on/off state of a feature.
type State int

const (
	// StateOff means the feature is disabled.
	StateOff State = iota

	// StateEnabled means the feature is enabled.
	StateEnabled
)

// String returns "enabled" or "off".
func (s State) String() string {
	if s == StateEnabled {
		return "enabled"
	}
	return "off"
}

// ParseState converts "enabled" or "off" to a State.
func ParseState(s string) (State, error) {
	switch s {
	case "enabled":
		return StateEnabled, nil
	case "off":
		return StateOff, nil
	default:
		return StateOff, fmt.Errorf("unknown feature state %q, must be \"enabled\" or \"off\"", s)
	}
}
