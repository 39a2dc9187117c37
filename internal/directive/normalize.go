package directive

import (
	"fmt"
	"strings"
)

// ParseError reports a flag value that does not match the modifier grammar.
// Parse errors are never fatal; the caller surfaces them as diagnostics.
type ParseError struct {
	Ordinal int
	Flag    string
	Value   string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("--%s %q (position %d): %s", e.Flag, e.Value, e.Ordinal, e.Reason)
}

// flagBinding is the action and namespace implied by a feature flag.
type flagBinding struct {
	action    Action
	namespace Namespace
}

var bindings = map[string]flagBinding{
	FlagEnableUpcoming:      {ActionEnable, NamespaceUpcoming},
	FlagEnableExperimental:  {ActionEnable, NamespaceExperimental},
	FlagDisableUpcoming:     {ActionDisable, NamespaceUpcoming},
	FlagDisableExperimental: {ActionDisable, NamespaceExperimental},
}

// IsFeatureFlag reports whether flag produces directives.
func IsFeatureFlag(flag string) bool {
	_, ok := bindings[flag]
	return ok
}

// Normalize converts flag occurrences into directives in ordinal order.
//
// The ordinal of a directive is the index of its occurrence in occs, so
// occurrences of other flags (such as --language-version) still consume a
// position. Values that break the modifier grammar are recovered where
// possible and reported as ParseErrors; a value with no feature name is
// dropped.
func Normalize(occs []Occurrence) ([]Directive, []*ParseError) {
	var (
		directives []Directive
		problems   []*ParseError
	)

	for i, occ := range occs {
		b, ok := bindings[occ.Flag]
		if !ok {
			continue
		}

		name, mod, reason := ParseValue(occ.Value)
		if reason != "" {
			problems = append(problems, &ParseError{
				Ordinal: i,
				Flag:    occ.Flag,
				Value:   occ.Value,
				Reason:  reason,
			})
		}
		if name == "" {
			continue
		}

		directives = append(directives, Directive{
			Action:    b.action,
			Namespace: b.namespace,
			Feature:   name,
			Modifier:  mod,
			Ordinal:   i,
		})
	}

	return directives, problems
}

// ParseValue splits a flag value into a feature name and modifier.
//
// A non-empty reason means the value did not match the grammar; the returned
// name and modifier are the best recovery (unrecognised suffixes and empty
// payloads degrade to ModifierNone). An empty name means nothing usable was
// found.
func ParseValue(raw string) (name string, mod Modifier, reason string) {
	value := strings.TrimSpace(raw)

	head, payload, hasPayload := strings.Cut(value, "=")

	name = head
	if idx := strings.LastIndexByte(head, ':'); idx >= 0 {
		name = head[:idx]
		switch suffix := head[idx+1:]; suffix {
		case "undef":
			mod.Kind = ModifierUndef
		case "adoption":
			mod.Kind = ModifierAdoption
		default:
			reason = fmt.Sprintf("unrecognized modifier %q, expected \":undef\" or \":adoption\"", suffix)
		}
	}

	if name == "" {
		return "", Modifier{}, "missing feature name"
	}

	if hasPayload {
		switch {
		case payload == "":
			if reason == "" {
				reason = "empty value after \"=\""
			}
		case mod.Kind == ModifierNone:
			mod = Modifier{Kind: ModifierNamedValue, Value: payload}
		default:
			// name:adoption=value keeps the adoption semantics and the payload.
			mod.Value = payload
		}
	}

	return name, mod, reason
}
