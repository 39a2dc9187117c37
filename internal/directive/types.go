package directive

import "fmt"

// Flag names recognised by the normalizer (without leading dashes).
const (
	FlagEnableUpcoming      = "enable-upcoming-feature"
	FlagEnableExperimental  = "enable-experimental-feature"
	FlagDisableUpcoming     = "disable-upcoming-feature"
	FlagDisableExperimental = "disable-experimental-feature"
	FlagLanguageVersion     = "language-version"
)

// FeatureFlags lists the four directive-producing flags.
var FeatureFlags = []string{
	FlagEnableUpcoming,
	FlagEnableExperimental,
	FlagDisableUpcoming,
	FlagDisableExperimental,
}

// Action is what a directive asks for.
type Action int

const (
	ActionEnable Action = iota
	ActionDisable
)

func (a Action) String() string {
	if a == ActionDisable {
		return "disable"
	}
	return "enable"
}

// Namespace mirrors which CLI flag family produced a directive.
type Namespace int

const (
	NamespaceUpcoming Namespace = iota
	NamespaceExperimental
)

func (n Namespace) String() string {
	if n == NamespaceExperimental {
		return "experimental"
	}
	return "upcoming"
}

// ModifierKind tags the suffix qualifying a directive.
type ModifierKind int

const (
	ModifierNone ModifierKind = iota
	ModifierUndef
	ModifierAdoption
	ModifierNamedValue
)

func (k ModifierKind) String() string {
	switch k {
	case ModifierNone:
		return "none"
	case ModifierUndef:
		return "undef"
	case ModifierAdoption:
		return "adoption"
	case ModifierNamedValue:
		return "value"
	default:
		return fmt.Sprintf("modifier(%d)", int(k))
	}
}

// Modifier is the parsed suffix of a directive value.
// Value holds the "=value" payload; it is always set for ModifierNamedValue
// and may accompany ModifierUndef or ModifierAdoption.
type Modifier struct {
	Kind  ModifierKind
	Value string
}

// RequiresAdoptable reports whether the modifier only takes effect on
// adoptable features.
func (m Modifier) RequiresAdoptable() bool {
	return m.Kind == ModifierUndef || m.Kind == ModifierAdoption
}

func (m Modifier) String() string {
	switch m.Kind {
	case ModifierNone:
		return ""
	case ModifierNamedValue:
		return "=" + m.Value
	default:
		if m.Value != "" {
			return ":" + m.Kind.String() + "=" + m.Value
		}
		return ":" + m.Kind.String()
	}
}

// Occurrence is one recognised flag as reported by the argument parser.
type Occurrence struct {
	// Flag is the flag name without leading dashes.
	Flag string

	// Value is the raw flag argument.
	Value string
}

// Directive is one enable/disable instruction.
type Directive struct {
	Action    Action
	Namespace Namespace
	Feature   string
	Modifier  Modifier

	// Ordinal is the position of the originating occurrence in the combined
	// flag list. Strictly increasing across both namespaces.
	Ordinal int
}

// String renders the directive the way it was written on the command line.
func (d Directive) String() string {
	return fmt.Sprintf("--%s-%s-feature %s%s", d.Action, d.Namespace, d.Feature, d.Modifier)
}
