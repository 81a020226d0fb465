package semver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_ValidVersions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  SemanticVersion
	}{
		{
			"major.minor.patch",
			"1.2.3",
			SemanticVersion{Major: 1, Minor: 2, Patch: 3},
		},
		{
			"zero version",
			"0.0.0",
			SemanticVersion{},
		},
		{
			"with v prefix",
			"v1.2.3",
			SemanticVersion{Major: 1, Minor: 2, Patch: 3},
		},
		{
			"with pre-release",
			"1.2.3-beta.4",
			SemanticVersion{Major: 1, Minor: 2, Patch: 3, PreRelease: "beta.4"},
		},
		{
			"with build metadata",
			"1.2.3+build.5",
			SemanticVersion{Major: 1, Minor: 2, Patch: 3, Build: "build.5"},
		},
		{
			"full version",
			"10.20.30-rc.1+sha.abc123",
			SemanticVersion{Major: 10, Minor: 20, Patch: 30, PreRelease: "rc.1", Build: "sha.abc123"},
		},
		{
			"surrounding whitespace",
			" 1.0.0\n",
			SemanticVersion{Major: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_InvalidVersions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"words", "not-a-version"},
		{"major only", "1"},
		{"major.minor", "1.2"},
		{"four parts", "1.2.3.4"},
		{"leading zero", "01.2.3"},
		{"negative", "-1.2.3"},
		{"empty pre-release", "1.2.3-"},
		{"double prefix", "vv1.2.3"},
		{"overflow", "99999999999999999999.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}

func TestTryParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		v, ok := TryParse("1.2.3")
		require.True(t, ok)
		require.Equal(t, int64(1), v.Major)
		require.Equal(t, int64(2), v.Minor)
		require.Equal(t, int64(3), v.Patch)
	})

	t.Run("invalid", func(t *testing.T) {
		_, ok := TryParse("not-a-version")
		require.False(t, ok)
	})
}

func TestSemanticVersion_CompareTo(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"equal", "1.2.3", "1.2.3", 0},
		{"major greater", "2.0.0", "1.9.9", 1},
		{"major less", "1.0.0", "2.0.0", -1},
		{"minor greater", "1.3.0", "1.2.9", 1},
		{"patch less", "1.2.3", "1.2.4", -1},
		{"stable > pre-release", "1.2.3", "1.2.3-beta.1", 1},
		{"pre-release < stable", "1.2.3-beta.1", "1.2.3", -1},
		{"numeric identifiers compare numerically", "1.0.0-beta.11", "1.0.0-beta.2", 1},
		{"numeric < alphanumeric", "1.0.0-1", "1.0.0-alpha", -1},
		{"longer pre-release wins on tie", "1.0.0-alpha.1", "1.0.0-alpha", 1},
		{"build metadata ignored", "1.2.3+a", "1.2.3+b", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.a)
			require.NoError(t, err)
			b, err := Parse(tt.b)
			require.NoError(t, err)
			require.Equal(t, tt.want, a.CompareTo(b))
		})
	}
}

func TestSemanticVersion_IncrementField(t *testing.T) {
	base := SemanticVersion{Major: 1, Minor: 2, Patch: 3, PreRelease: "beta.1", Build: "7"}

	tests := []struct {
		name  string
		field VersionField
		want  SemanticVersion
	}{
		{"major resets minor and patch", VersionFieldMajor, SemanticVersion{Major: 2}},
		{"minor resets patch", VersionFieldMinor, SemanticVersion{Major: 1, Minor: 3}},
		{"patch", VersionFieldPatch, SemanticVersion{Major: 1, Minor: 2, Patch: 4}},
		{"none unchanged", VersionFieldNone, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, base.IncrementField(tt.field))
		})
	}
}

func TestSemanticVersion_Formatting(t *testing.T) {
	v := SemanticVersion{Major: 1, Minor: 2, Patch: 3, PreRelease: "rc.1", Build: "42"}

	require.Equal(t, "1.2.3", v.MajorMinorPatch())
	require.Equal(t, "1.2.3-rc.1", v.SemVer())
	require.Equal(t, "1.2.3-rc.1+42", v.String())
	require.Equal(t, "0.1.0", SemanticVersion{Minor: 1}.String())
}
