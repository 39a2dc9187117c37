package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/langfeat/internal/langmode"
)

var (
	mode5 = langmode.MustParse("5")
	mode6 = langmode.MustParse("6")
)

func TestNewCatalogSortsAndLooksUp(t *testing.T) {
	c, err := NewCatalog(mode5,
		Feature{Name: "Zeta", Tier: TierExperimental},
		Feature{Name: "Alpha", Tier: TierBaseline},
		Feature{Name: "Mid", Tier: TierUpcoming, Threshold: mode6},
	)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	names := []string{}
	for _, f := range c.Features() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)

	f, ok := c.Lookup("Mid")
	require.True(t, ok)
	assert.Equal(t, TierUpcoming, f.Tier)
	assert.True(t, f.Threshold.Equal(mode6))

	_, ok = c.Lookup("Missing")
	assert.False(t, ok)
	assert.True(t, c.DefaultMode().Equal(mode5))
}

func TestNewCatalogRejects(t *testing.T) {
	tests := []struct {
		name     string
		mode     langmode.Mode
		features []Feature
		wantErr  string
	}{
		{
			name:    "missing default mode",
			mode:    langmode.Mode{},
			wantErr: "default mode",
		},
		{
			name:     "empty name",
			mode:     mode5,
			features: []Feature{{Tier: TierBaseline}},
			wantErr:  "name is required",
		},
		{
			name: "duplicate",
			mode: mode5,
			features: []Feature{
				{Name: "A", Tier: TierBaseline},
				{Name: "A", Tier: TierExperimental},
			},
			wantErr: "duplicate",
		},
		{
			name:     "upcoming without threshold",
			mode:     mode5,
			features: []Feature{{Name: "U", Tier: TierUpcoming}},
			wantErr:  "requires a threshold",
		},
		{
			name:     "baseline with threshold",
			mode:     mode5,
			features: []Feature{{Name: "B", Tier: TierBaseline, Threshold: mode6}},
			wantErr:  "must not have a threshold",
		},
		{
			name:     "experimental with threshold",
			mode:     mode5,
			features: []Feature{{Name: "E", Tier: TierExperimental, Threshold: mode6}},
			wantErr:  "must not have a threshold",
		},
		{
			name:     "invalid tier",
			mode:     mode5,
			features: []Feature{{Name: "X", Tier: Tier(9)}},
			wantErr:  "invalid tier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.mode, tt.features...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCatalogIsolatedFromCallerSlices(t *testing.T) {
	values := []string{"a", "b"}
	c, err := NewCatalog(mode5, Feature{Name: "V", Tier: TierExperimental, Values: values})
	require.NoError(t, err)

	values[0] = "mutated"
	f, _ := c.Lookup("V")
	assert.Equal(t, []string{"a", "b"}, f.Values)

	features := c.Features()
	features[0].Name = "changed"
	_, ok := c.Lookup("V")
	assert.True(t, ok)
	assert.Equal(t, "V", c.Features()[0].Name)
}

func TestCatalogModes(t *testing.T) {
	c, err := NewCatalog(mode5)
	require.NoError(t, err)
	assert.True(t, c.KnowsMode(langmode.MustParse("42")), "no mode list accepts everything")

	c = c.WithModes(mode6, langmode.MustParse("4.2"), mode5)
	modes := c.Modes()
	require.Len(t, modes, 3)
	assert.Equal(t, "4.2", modes[0].String())
	assert.Equal(t, "6", modes[2].String())
	assert.True(t, c.KnowsMode(langmode.MustParse("5.0")))
	assert.False(t, c.KnowsMode(langmode.MustParse("7")))
}
