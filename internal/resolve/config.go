package resolve

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/langmode"
)

// DomainConfig prefixes the fingerprint hash input.
const DomainConfig = "langfeat/config/v1"

// Config is the resolved feature configuration of one invocation.
//
// A Config is created once by Resolve and never changes afterwards. All
// methods are read-only and safe for concurrent use without locking.
type Config struct {
	id          string
	mode        langmode.Mode
	names       []string // sorted
	tiers       map[string]feature.Tier
	states      map[string]feature.State
	values      map[string]string
	adopting    map[string]bool
	diagnostics []Diagnostic
	fingerprint string
}

func newConfig(id string, mode langmode.Mode, features []feature.Feature, outcomes map[string]outcome, diags []Diagnostic) *Config {
	c := &Config{
		id:          id,
		mode:        mode,
		names:       make([]string, 0, len(features)),
		tiers:       make(map[string]feature.Tier, len(features)),
		states:      make(map[string]feature.State, len(features)),
		values:      make(map[string]string),
		adopting:    make(map[string]bool),
		diagnostics: diags,
	}

	for _, f := range features {
		out := outcomes[f.Name]
		c.names = append(c.names, f.Name)
		c.tiers[f.Name] = f.Tier
		c.states[f.Name] = out.state
		if out.state == feature.StateEnabled && out.value != "" {
			c.values[f.Name] = out.value
		}
		if out.state == feature.StateEnabled && out.adopting {
			c.adopting[f.Name] = true
		}
	}

	c.fingerprint = c.computeFingerprint()
	return c
}

// ID returns the resolution ID used to correlate logs and diagnostics.
func (c *Config) ID() string { return c.id }

// Mode returns the language mode the configuration was resolved under.
func (c *Config) Mode() langmode.Mode { return c.mode }

// State returns the resolved state of the named feature.
// Features absent from the registry are reported as off.
func (c *Config) State(name string) feature.State {
	return c.states[name]
}

// IsEnabled reports whether the named feature resolved to enabled.
func (c *Config) IsEnabled(name string) bool {
	return c.states[name] == feature.StateEnabled
}

// Known reports whether the named feature was part of the resolution.
func (c *Config) Known(name string) bool {
	_, ok := c.states[name]
	return ok
}

// Value returns the "=value" payload carried by the directive that enabled
// the feature, if any.
func (c *Config) Value(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// IsAdopting reports whether the feature was enabled through the :adoption
// modifier.
func (c *Config) IsAdopting(name string) bool {
	return c.adopting[name]
}

// Features returns the resolved feature names, sorted.
func (c *Config) Features() []string {
	return append([]string(nil), c.names...)
}

// Enabled returns the names of enabled features, sorted.
func (c *Config) Enabled() []string {
	var out []string
	for _, name := range c.names {
		if c.states[name] == feature.StateEnabled {
			out = append(out, name)
		}
	}
	return out
}

// Diagnostics returns the diagnostics in command-line order.
func (c *Config) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), c.diagnostics...)
}

// Fingerprint is a stable hex digest of the mode, states, and values.
// Two resolutions with equal results have equal fingerprints, however the
// flags that produced them were written.
func (c *Config) Fingerprint() string { return c.fingerprint }

// FeatureSnapshot is the serialisable form of one resolved feature.
type FeatureSnapshot struct {
	Name     string `json:"name"`
	Tier     string `json:"tier"`
	State    string `json:"state"`
	Value    string `json:"value,omitempty"`
	Adopting bool   `json:"adopting,omitempty"`
}

// Snapshot is the serialisable form of a Config.
type Snapshot struct {
	ID          string            `json:"id"`
	Mode        string            `json:"mode"`
	Fingerprint string            `json:"fingerprint"`
	Features    []FeatureSnapshot `json:"features"`
	Diagnostics []Diagnostic      `json:"diagnostics,omitempty"`
}

// Snapshot returns a serialisable copy of the configuration.
func (c *Config) Snapshot() Snapshot {
	s := Snapshot{
		ID:          c.id,
		Mode:        c.mode.String(),
		Fingerprint: c.fingerprint,
		Features:    make([]FeatureSnapshot, 0, len(c.names)),
		Diagnostics: c.Diagnostics(),
	}
	for _, name := range c.names {
		s.Features = append(s.Features, FeatureSnapshot{
			Name:     name,
			Tier:     c.tiers[name].String(),
			State:    c.states[name].String(),
			Value:    c.values[name],
			Adopting: c.adopting[name],
		})
	}
	return s
}

// CanonicalMap returns the identity-bearing part of the configuration
// (mode, states, values, adoption) as a map for canonical JSON. The
// resolution ID and diagnostics are excluded.
func (c *Config) CanonicalMap() map[string]any {
	features := make(map[string]any, len(c.names))
	for _, name := range c.names {
		entry := map[string]any{"state": c.states[name].String()}
		if v, ok := c.values[name]; ok {
			entry["value"] = v
		}
		if c.adopting[name] {
			entry["adopting"] = true
		}
		features[name] = entry
	}
	return map[string]any{
		"mode":     c.mode.String(),
		"features": features,
	}
}

func (c *Config) computeFingerprint() string {
	data, err := MarshalCanonical(c.CanonicalMap())
	if err != nil {
		// CanonicalMap only produces strings, bools, and maps.
		panic("resolve: canonical marshal failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(DomainConfig))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
