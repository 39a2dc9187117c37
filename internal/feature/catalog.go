package feature

import (
	"fmt"
	"sort"

	"github.com/roach88/langfeat/internal/langmode"
)

// Registry is the read-only view of known features consumed by the resolver.
type Registry interface {
	// Lookup returns the feature with the given name.
	Lookup(name string) (Feature, bool)

	// Features returns every known feature sorted by name.
	Features() []Feature

	// DefaultMode is the language mode used when none is selected.
	DefaultMode() langmode.Mode
}

// Catalog is the standard Registry implementation.
//
// A Catalog is built once by NewCatalog and never mutated afterwards, so it
// is safe for concurrent readers.
type Catalog struct {
	byName      map[string]Feature
	ordered     []Feature
	defaultMode langmode.Mode
	modes       []langmode.Mode
}

// NewCatalog builds a catalog from the given features.
//
// Returns an error if a name is empty or duplicated, or if a feature breaks
// the tier/threshold pairing (upcoming needs a threshold, the others must not
// have one). The default mode must not be zero.
func NewCatalog(defaultMode langmode.Mode, features ...Feature) (*Catalog, error) {
	if defaultMode.IsZero() {
		return nil, fmt.Errorf("catalog: default mode is required")
	}

	c := &Catalog{
		byName:      make(map[string]Feature, len(features)),
		ordered:     make([]Feature, 0, len(features)),
		defaultMode: defaultMode,
	}

	for _, f := range features {
		if f.Name == "" {
			return nil, fmt.Errorf("catalog: feature name is required")
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate feature %q", f.Name)
		}
		switch f.Tier {
		case TierUpcoming:
			if !f.HasThreshold() {
				return nil, fmt.Errorf("catalog: upcoming feature %q requires a threshold mode", f.Name)
			}
		case TierBaseline, TierExperimental:
			if f.HasThreshold() {
				return nil, fmt.Errorf("catalog: %s feature %q must not have a threshold mode", f.Tier, f.Name)
			}
		default:
			return nil, fmt.Errorf("catalog: feature %q has invalid tier %d", f.Name, int(f.Tier))
		}

		// Copy the value list so callers cannot mutate the catalog through it.
		if f.Values != nil {
			f.Values = append([]string(nil), f.Values...)
		}
		c.byName[f.Name] = f
		c.ordered = append(c.ordered, f)
	}

	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].Name < c.ordered[j].Name
	})

	return c, nil
}

// WithModes returns a copy of the catalog that also records the list of
// known language modes, sorted ascending.
func (c *Catalog) WithModes(modes ...langmode.Mode) *Catalog {
	cp := *c
	cp.modes = append([]langmode.Mode(nil), modes...)
	sort.Slice(cp.modes, func(i, j int) bool {
		return cp.modes[i].Less(cp.modes[j])
	})
	return &cp
}

// Lookup returns the feature with the given name.
func (c *Catalog) Lookup(name string) (Feature, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Features returns every known feature sorted by name.
// The returned slice is a copy.
func (c *Catalog) Features() []Feature {
	return append([]Feature(nil), c.ordered...)
}

// DefaultMode is the language mode used when none is selected.
func (c *Catalog) DefaultMode() langmode.Mode {
	return c.defaultMode
}

// Modes returns the known language modes in ascending order.
// Empty if the catalog does not restrict modes.
func (c *Catalog) Modes() []langmode.Mode {
	return append([]langmode.Mode(nil), c.modes...)
}

// KnowsMode reports whether m is one of the catalog's language modes.
// A catalog without a mode list accepts every mode.
func (c *Catalog) KnowsMode(m langmode.Mode) bool {
	if len(c.modes) == 0 {
		return true
	}
	for _, known := range c.modes {
		if known.Equal(m) {
			return true
		}
	}
	return false
}

// Len returns the number of features in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
