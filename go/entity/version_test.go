package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTolerantVersion(t *testing.T) {
	cases := []struct {
		in     string
		want   SemanticVersion
		wantOk bool
	}{
		{"13.5", SemanticVersion{Major: 13, Minor: 5, Patch: 0}, true},
		{"1.2.3", SemanticVersion{Major: 1, Minor: 2, Patch: 3}, true},
		{"7", SemanticVersion{Major: 7}, true},
		{"1.2.3-beta", SemanticVersion{Major: 1, Minor: 2, Patch: 3}, true},
		{"", SemanticVersion{}, false},
		{"not-a-version", SemanticVersion{}, false},
	}

	for _, c := range cases {
		got, ok := ParseTolerantVersion(c.in)
		require.Equal(t, c.wantOk, ok, "input %q", c.in)
		if c.wantOk {
			require.Equal(t, c.want, got, "input %q", c.in)
		}
	}
}

func TestNormalizeDomain(t *testing.T) {
	require.Equal(t, "macCatalyst", normalizeDomain("Mac Catalyst"))
	require.Equal(t, "iOS", normalizeDomain("iOS"))
	require.Equal(t, "tvOS", normalizeDomain("tvOS"))
}
