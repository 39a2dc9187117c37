package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/langfeat/internal/directive"
	"github.com/roach88/langfeat/internal/feature"
	"github.com/roach88/langfeat/internal/testutil"
)

const (
	baselineF     = testutil.BaselineFeature
	upcomingF     = testutil.UpcomingFeature
	valuedF       = testutil.ValuedFeature
	adoptableF    = testutil.AdoptableFeature
	experimentalF = testutil.ExperimentalFeature
	adoptableExpF = testutil.AdoptableExperiment
)

const (
	enableUp   = directive.FlagEnableUpcoming
	enableExp  = directive.FlagEnableExperimental
	disableUp  = directive.FlagDisableUpcoming
	disableExp = directive.FlagDisableExperimental
	langVer    = directive.FlagLanguageVersion
)

// resolveFlags resolves flag/value pairs against the fixture catalog.
func resolveFlags(t *testing.T, pairs ...string) *Config {
	t.Helper()
	require.Zero(t, len(pairs)%2, "flags must come in flag/value pairs")

	occs := make([]directive.Occurrence, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		occs = append(occs, directive.Occurrence{Flag: pairs[i], Value: pairs[i+1]})
	}

	cfg, err := FromOccurrences(testutil.FixtureCatalog(), occs,
		WithIDGenerator(testutil.NewFixedIDGenerator("")))
	require.NoError(t, err)
	return cfg
}

type stateCase struct {
	name  string
	flags []string
	want  map[string]feature.State
}

func runStateCases(t *testing.T, cases []stateCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := resolveFlags(t, tc.flags...)
			for name, want := range tc.want {
				assert.Equal(t, want, cfg.State(name), "feature %s", name)
			}
		})
	}
}

var (
	on  = feature.StateEnabled
	off = feature.StateOff
)

func TestDefaultState(t *testing.T) {
	runStateCases(t, []stateCase{
		{
			name:  "default mode",
			flags: nil,
			want: map[string]feature.State{
				baselineF:     on,
				upcomingF:     off,
				valuedF:       off,
				adoptableF:    off,
				experimentalF: off,
				adoptableExpF: off,
			},
		},
		{
			name:  "threshold mode grants upcoming",
			flags: []string{langVer, "6"},
			want:  map[string]feature.State{upcomingF: on, valuedF: on, adoptableF: off, experimentalF: off},
		},
		{
			name:  "above threshold",
			flags: []string{langVer, "7"},
			want:  map[string]feature.State{upcomingF: on, adoptableF: on, experimentalF: off},
		},
		{
			name:  "below default",
			flags: []string{langVer, "4.2"},
			want:  map[string]feature.State{baselineF: on, upcomingF: off},
		},
	})
}

func TestSingleEnable(t *testing.T) {
	var cases []stateCase
	add := func(flag, value, name string, want feature.State) {
		cases = append(cases, stateCase{
			name:  fmt.Sprintf("%s %s", flag, value),
			flags: []string{flag, value},
			want:  map[string]feature.State{name: want},
		})
	}

	for _, flag := range []string{enableUp, enableExp} {
		add(flag, baselineF, baselineF, on)
		add(flag, baselineF+":undef", baselineF, on)
		add(flag, baselineF+":adoption", baselineF, on)

		add(flag, upcomingF, upcomingF, on)
		add(flag, upcomingF+":undef", upcomingF, off)
		add(flag, upcomingF+":adoption", upcomingF, off)

		add(flag, valuedF, valuedF, on)
		add(flag, valuedF+":undef", valuedF, off)
		add(flag, valuedF+":adoption", valuedF, off)

		add(flag, adoptableF+":undef", adoptableF, on)
		add(flag, adoptableF+":adoption", adoptableF, on)
	}

	add(enableUp, experimentalF, experimentalF, off)
	add(enableUp, experimentalF+":undef", experimentalF, off)
	add(enableUp, experimentalF+":adoption", experimentalF, off)
	add(enableUp, adoptableExpF+":adoption", adoptableExpF, off)

	add(enableExp, experimentalF, experimentalF, on)
	add(enableExp, experimentalF+":undef", experimentalF, off)
	add(enableExp, experimentalF+":adoption", experimentalF, off)
	add(enableExp, adoptableExpF+":adoption", adoptableExpF, on)

	runStateCases(t, cases)
}

func TestSingleDisable(t *testing.T) {
	runStateCases(t, []stateCase{
		{name: "baseline upcoming flag", flags: []string{disableUp, baselineF}, want: map[string]feature.State{baselineF: on}},
		{name: "baseline experimental flag", flags: []string{disableExp, baselineF}, want: map[string]feature.State{baselineF: on}},
		{name: "upcoming", flags: []string{disableUp, upcomingF}, want: map[string]feature.State{upcomingF: off}},
		{name: "upcoming via experimental flag", flags: []string{disableExp, upcomingF}, want: map[string]feature.State{upcomingF: off}},
		{
			name:  "granted by mode, upcoming flag",
			flags: []string{langVer, "6", disableUp, upcomingF},
			want:  map[string]feature.State{upcomingF: on},
		},
		{
			name:  "granted by mode, experimental flag",
			flags: []string{langVer, "6", disableExp, upcomingF},
			want:  map[string]feature.State{upcomingF: on},
		},
		{
			name:  "mode selected after the disable still grants",
			flags: []string{disableUp, valuedF, langVer, "6"},
			want:  map[string]feature.State{valuedF: on},
		},
		{
			name:  "mode selected after the disable, experimental flag",
			flags: []string{disableExp, valuedF, langVer, "6"},
			want:  map[string]feature.State{valuedF: on},
		},
		{name: "experimental via upcoming flag", flags: []string{disableUp, experimentalF}, want: map[string]feature.State{experimentalF: off}},
		{name: "experimental", flags: []string{disableExp, experimentalF}, want: map[string]feature.State{experimentalF: off}},
	})
}

func TestDoubleEnable(t *testing.T) {
	var cases []stateCase
	flags := []string{enableUp, enableExp}
	for _, first := range flags {
		for _, second := range flags {
			for _, mod := range []string{":undef", ":adoption"} {
				cases = append(cases,
					stateCase{
						name:  fmt.Sprintf("%s%s then %s", first, mod, second),
						flags: []string{first, upcomingF + mod, second, upcomingF},
						want:  map[string]feature.State{upcomingF: on},
					},
					stateCase{
						name:  fmt.Sprintf("%s then %s%s", first, second, mod),
						flags: []string{first, upcomingF, second, upcomingF + mod},
						want:  map[string]feature.State{upcomingF: on},
					},
				)
			}
		}
	}
	for _, mod := range []string{":undef", ":adoption"} {
		cases = append(cases,
			stateCase{
				name:  "experimental" + mod + " then plain",
				flags: []string{enableExp, experimentalF + mod, enableExp, experimentalF},
				want:  map[string]feature.State{experimentalF: on},
			},
			stateCase{
				name:  "experimental plain then" + mod,
				flags: []string{enableExp, experimentalF, enableExp, experimentalF + mod},
				want:  map[string]feature.State{experimentalF: on},
			},
		)
	}
	runStateCases(t, cases)
}

func TestEnableDisable(t *testing.T) {
	var cases []stateCase
	for _, en := range []string{enableUp, enableExp} {
		for _, dis := range []string{disableUp, disableExp} {
			cases = append(cases,
				stateCase{
					name:  en + " then " + dis,
					flags: []string{en, upcomingF, dis, upcomingF},
					want:  map[string]feature.State{upcomingF: off},
				},
				stateCase{
					name:  en + " then " + dis + ":undef",
					flags: []string{en, upcomingF, dis, upcomingF + ":undef"},
					want:  map[string]feature.State{upcomingF: on},
				},
				stateCase{
					name:  en + " then " + dis + ":adoption",
					flags: []string{en, upcomingF, dis, upcomingF + ":adoption"},
					want:  map[string]feature.State{upcomingF: on},
				},
				stateCase{
					name:  dis + " then " + en,
					flags: []string{dis, upcomingF, en, upcomingF},
					want:  map[string]feature.State{upcomingF: on},
				},
			)
		}
	}
	cases = append(cases,
		stateCase{
			name:  "experimental enable then disable",
			flags: []string{enableExp, experimentalF, disableExp, experimentalF},
			want:  map[string]feature.State{experimentalF: off},
		},
		stateCase{
			name:  "experimental enable then disable:undef",
			flags: []string{enableExp, experimentalF, disableExp, experimentalF + ":undef"},
			want:  map[string]feature.State{experimentalF: on},
		},
		stateCase{
			name:  "experimental enable then disable:adoption",
			flags: []string{enableExp, experimentalF, disableExp, experimentalF + ":adoption"},
			want:  map[string]feature.State{experimentalF: on},
		},
		stateCase{
			name:  "experimental disable then enable",
			flags: []string{disableExp, experimentalF, enableExp, experimentalF},
			want:  map[string]feature.State{experimentalF: on},
		},
		stateCase{
			name:  "adoptable disable:adoption takes effect",
			flags: []string{enableExp, adoptableExpF, disableExp, adoptableExpF + ":adoption"},
			want:  map[string]feature.State{adoptableExpF: off},
		},
		stateCase{
			name:  "upcoming disable cannot reach experimental after enable",
			flags: []string{enableExp, experimentalF, disableUp, experimentalF},
			want:  map[string]feature.State{experimentalF: on},
		},
	)
	runStateCases(t, cases)
}

func TestLastOptionWins(t *testing.T) {
	runStateCases(t, []stateCase{
		{
			name: "ends disabled",
			flags: []string{
				enableUp, upcomingF,
				disableUp, upcomingF,
				enableExp, experimentalF,
				disableUp, upcomingF,
				enableUp, upcomingF,
				disableExp, experimentalF,
				disableUp, upcomingF,
			},
			want: map[string]feature.State{upcomingF: off, experimentalF: off},
		},
		{
			name: "ends enabled",
			flags: []string{
				enableUp, upcomingF,
				disableUp, upcomingF,
				enableExp, experimentalF,
				disableUp, upcomingF,
				enableUp, upcomingF,
				disableExp, experimentalF,
				disableUp, upcomingF,
				enableExp, experimentalF,
				enableUp, upcomingF,
			},
			want: map[string]feature.State{upcomingF: on, experimentalF: on},
		},
	})
}

// Named values follow the same literal last-ordinal-wins rule as every other
// directive; the payload does not change precedence.
func TestNamedValueInterleaving(t *testing.T) {
	t.Run("enable, disable, enable", func(t *testing.T) {
		cfg := resolveFlags(t,
			enableUp, valuedF+"=targeted",
			disableUp, valuedF,
			enableUp, valuedF+"=minimal",
		)
		assert.Equal(t, on, cfg.State(valuedF))
		v, ok := cfg.Value(valuedF)
		require.True(t, ok)
		assert.Equal(t, "minimal", v)
	})

	t.Run("enable, enable, disable", func(t *testing.T) {
		cfg := resolveFlags(t,
			enableUp, valuedF+"=targeted",
			enableUp, valuedF+"=complete",
			disableUp, valuedF,
		)
		assert.Equal(t, off, cfg.State(valuedF))
		_, ok := cfg.Value(valuedF)
		assert.False(t, ok, "a winning disable clears the payload")
	})

	t.Run("plain enable clears earlier payload", func(t *testing.T) {
		cfg := resolveFlags(t,
			enableUp, valuedF+"=complete",
			enableUp, valuedF,
		)
		assert.Equal(t, on, cfg.State(valuedF))
		_, ok := cfg.Value(valuedF)
		assert.False(t, ok)
	})

	t.Run("mode-granted feature keeps payload through disable", func(t *testing.T) {
		cfg := resolveFlags(t,
			langVer, "6",
			enableUp, valuedF+"=complete",
			disableUp, valuedF,
		)
		assert.Equal(t, on, cfg.State(valuedF))
		v, _ := cfg.Value(valuedF)
		assert.Equal(t, "complete", v)
	})
}

func TestAdoptionTracking(t *testing.T) {
	cfg := resolveFlags(t, enableUp, adoptableF+":adoption")
	assert.True(t, cfg.IsEnabled(adoptableF))
	assert.True(t, cfg.IsAdopting(adoptableF))

	cfg = resolveFlags(t, enableUp, adoptableF+":adoption", enableUp, adoptableF)
	assert.True(t, cfg.IsEnabled(adoptableF))
	assert.False(t, cfg.IsAdopting(adoptableF))

	cfg = resolveFlags(t, enableUp, adoptableF+":undef")
	assert.True(t, cfg.IsEnabled(adoptableF))
	assert.False(t, cfg.IsAdopting(adoptableF))

	cfg = resolveFlags(t, enableUp, upcomingF+":adoption")
	assert.False(t, cfg.IsAdopting(upcomingF), "suppressed modifier leaves no trace")
}

// Concrete scenarios: U upcoming (threshold 6), E experimental, default mode 5.
func TestScenarios(t *testing.T) {
	runStateCases(t, []stateCase{
		{name: "1 no directives", flags: nil, want: map[string]feature.State{upcomingF: off, experimentalF: off}},
		{name: "2 threshold mode", flags: []string{langVer, "6"}, want: map[string]feature.State{upcomingF: on}},
		{name: "3 enable upcoming", flags: []string{enableUp, upcomingF}, want: map[string]feature.State{upcomingF: on}},
		{name: "4 undef suppressed", flags: []string{enableUp, upcomingF + ":undef"}, want: map[string]feature.State{upcomingF: off}},
		{name: "5 enable then disable", flags: []string{enableUp, upcomingF, disableUp, upcomingF}, want: map[string]feature.State{upcomingF: off}},
		{name: "6 override immunity", flags: []string{langVer, "6", disableUp, upcomingF}, want: map[string]feature.State{upcomingF: on}},
		{name: "7 namespace blind", flags: []string{enableUp, experimentalF}, want: map[string]feature.State{experimentalF: off}},
		{name: "8 enable experimental", flags: []string{enableExp, experimentalF}, want: map[string]feature.State{experimentalF: on}},
	})
}

func TestLastWriteWinsProperty(t *testing.T) {
	// Every ordered pair of eligible directives on an experimental feature:
	// the second always decides.
	type op struct {
		flag  string
		state feature.State
	}
	ops := []op{{enableExp, on}, {disableExp, off}}
	for _, first := range ops {
		for _, second := range ops {
			cfg := resolveFlags(t, first.flag, adoptableExpF, second.flag, adoptableExpF)
			assert.Equal(t, second.state, cfg.State(adoptableExpF), "%s then %s", first.flag, second.flag)
		}
	}
}

func TestResolveSortsDirectivesByOrdinal(t *testing.T) {
	// Supplied out of order; ordinal decides.
	ds := []directive.Directive{
		{Action: directive.ActionDisable, Namespace: directive.NamespaceExperimental, Feature: experimentalF, Ordinal: 5},
		{Action: directive.ActionEnable, Namespace: directive.NamespaceExperimental, Feature: experimentalF, Ordinal: 2},
	}
	cfg := Resolve(testutil.FixtureCatalog(), testutil.DefaultMode, ds)
	assert.Equal(t, off, cfg.State(experimentalF))

	ds[0].Ordinal, ds[1].Ordinal = 2, 5
	cfg = Resolve(testutil.FixtureCatalog(), testutil.DefaultMode, ds)
	assert.Equal(t, on, cfg.State(experimentalF))
}

func TestRepeatedFlagsAreReproducible(t *testing.T) {
	a := resolveFlags(t, enableExp, experimentalF)
	b := resolveFlags(t,
		enableExp, experimentalF,
		enableExp, experimentalF,
		disableExp, experimentalF,
		enableExp, experimentalF,
		enableUp, upcomingF+":undef",
	)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, a.Enabled(), b.Enabled())
}

func TestInvalidLanguageVersion(t *testing.T) {
	_, err := FromOccurrences(testutil.FixtureCatalog(), []directive.Occurrence{
		{Flag: langVer, Value: "six"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--language-version")
}

func TestDefaultIDIsUUID(t *testing.T) {
	cfg := Resolve(testutil.FixtureCatalog(), testutil.DefaultMode, nil)
	assert.Len(t, cfg.ID(), 36)
}

func TestIDGeneratorOption(t *testing.T) {
	gen := testutil.NewSequenceIDGenerator()
	a := Resolve(testutil.FixtureCatalog(), testutil.DefaultMode, nil, WithIDGenerator(gen))
	b := Resolve(testutil.FixtureCatalog(), testutil.DefaultMode, nil, WithIDGenerator(gen))
	assert.Equal(t, "test-resolution-1", a.ID())
	assert.Equal(t, "test-resolution-2", b.ID())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "ID is not part of the fingerprint")
}
