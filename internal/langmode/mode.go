// Package langmode parses and orders language compatibility modes.
//
// A mode is written as one to three dot-separated decimal components
// ("5", "4.2", "5.10.1"). Modes are totally ordered component-wise, with
// missing components treated as zero, so "5" and "5.0" are equal.
package langmode

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Mode is a language compatibility mode. The zero Mode is "unset".
type Mode struct {
	text  string // as written, e.g. "4.2"
	canon string // semver form, e.g. "v4.2.0"
}

// Parse converts a mode string such as "6" or "4.2" to a Mode.
func Parse(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Mode{}, fmt.Errorf("empty language mode")
	}

	v := "v" + s
	// semver accepts prerelease and build suffixes; modes do not.
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return Mode{}, fmt.Errorf("invalid language mode %q: expected MAJOR[.MINOR[.PATCH]]", s)
	}

	return Mode{text: s, canon: semver.Canonical(v)}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level tables.
func MustParse(s string) Mode {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String returns the mode as written.
func (m Mode) String() string {
	return m.text
}

// IsZero reports whether the mode is unset.
func (m Mode) IsZero() bool {
	return m.canon == ""
}

// Compare returns -1, 0, or +1 as m is less than, equal to, or greater than o.
// An unset mode sorts before every set mode.
func (m Mode) Compare(o Mode) int {
	switch {
	case m.IsZero() && o.IsZero():
		return 0
	case m.IsZero():
		return -1
	case o.IsZero():
		return 1
	}
	return semver.Compare(m.canon, o.canon)
}

// Less reports whether m sorts before o.
func (m Mode) Less(o Mode) bool { return m.Compare(o) < 0 }

// Equal reports whether m and o denote the same mode ("5" equals "5.0").
func (m Mode) Equal(o Mode) bool { return m.Compare(o) == 0 }

// AtLeast reports whether m is at or above o.
func (m Mode) AtLeast(o Mode) bool { return m.Compare(o) >= 0 }

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.text), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = Mode{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
