package langmode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValid(t *testing.T) {
	for _, s := range []string{"4", "4.2", "5", "6", "5.10.1", " 6 "} {
		t.Run(s, func(t *testing.T) {
			m, err := Parse(s)
			require.NoError(t, err)
			assert.False(t, m.IsZero())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"", "six", "v6", "6.x", "1.2.3.4", "6-beta", "6+build", "06"} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			assert.Error(t, err)
		})
	}
}

func TestStringKeepsSpelling(t *testing.T) {
	assert.Equal(t, "4.2", MustParse("4.2").String())
	assert.Equal(t, "6", MustParse("6").String())
}

func TestOrdering(t *testing.T) {
	ordered := []string{"4", "4.2", "5", "5.10", "6", "6.0.1", "7"}
	for i := 0; i < len(ordered)-1; i++ {
		lo, hi := MustParse(ordered[i]), MustParse(ordered[i+1])
		assert.True(t, lo.Less(hi), "%s < %s", lo, hi)
		assert.False(t, hi.Less(lo), "%s !< %s", hi, lo)
		assert.True(t, hi.AtLeast(lo))
		assert.False(t, lo.AtLeast(hi))
	}
}

func TestEqualIgnoresTrailingZeros(t *testing.T) {
	assert.True(t, MustParse("5").Equal(MustParse("5.0")))
	assert.True(t, MustParse("5").Equal(MustParse("5.0.0")))
	assert.True(t, MustParse("5").AtLeast(MustParse("5.0")))
}

func TestZeroSortsFirst(t *testing.T) {
	var zero Mode
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Less(MustParse("4")))
	assert.Equal(t, 0, zero.Compare(Mode{}))
}

func TestTextRoundTrip(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("4.2")))
	assert.Equal(t, "4.2", m.String())

	b, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "4.2", string(b))

	assert.Error(t, m.UnmarshalText([]byte("nope")))
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("bogus") })
}
