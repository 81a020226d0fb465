package semver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned when a string is not a MAJOR.MINOR.PATCH version.
var ErrInvalidVersion = errors.New("invalid version")

var versionRegex = regexp.MustCompile(
	`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// SemanticVersion represents a semantic version.
// This type is immutable — all methods return new values.
type SemanticVersion struct {
	Major      int64
	Minor      int64
	Patch      int64
	PreRelease string
	Build      string
}

// Parse parses a MAJOR.MINOR.PATCH version with optional pre-release and
// build metadata. A single leading "v" is tolerated.
func Parse(s string) (SemanticVersion, error) {
	matches := versionRegex.FindStringSubmatch(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if matches == nil {
		return SemanticVersion{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	var v SemanticVersion
	var err error
	if v.Major, err = strconv.ParseInt(matches[1], 10, 64); err != nil {
		return SemanticVersion{}, fmt.Errorf("%w: major %s out of range", ErrInvalidVersion, matches[1])
	}
	if v.Minor, err = strconv.ParseInt(matches[2], 10, 64); err != nil {
		return SemanticVersion{}, fmt.Errorf("%w: minor %s out of range", ErrInvalidVersion, matches[2])
	}
	if v.Patch, err = strconv.ParseInt(matches[3], 10, 64); err != nil {
		return SemanticVersion{}, fmt.Errorf("%w: patch %s out of range", ErrInvalidVersion, matches[3])
	}
	v.PreRelease = matches[4]
	v.Build = matches[5]

	return v, nil
}

// TryParse attempts to parse a version string.
// Returns the parsed version and true if successful.
func TryParse(s string) (SemanticVersion, bool) {
	v, err := Parse(s)
	if err != nil {
		return SemanticVersion{}, false
	}
	return v, true
}

// CompareTo compares two SemanticVersions.
// Returns a negative value, zero, or a positive value.
// Build metadata is not considered in comparisons, as in SemVer 2.0.
func (v SemanticVersion) CompareTo(other SemanticVersion) int {
	if v.Major != other.Major {
		if v.Major > other.Major {
			return 1
		}
		return -1
	}

	if v.Minor != other.Minor {
		if v.Minor > other.Minor {
			return 1
		}
		return -1
	}

	if v.Patch != other.Patch {
		if v.Patch > other.Patch {
			return 1
		}
		return -1
	}

	return comparePreRelease(v.PreRelease, other.PreRelease)
}

// comparePreRelease orders pre-release strings. A version without a
// pre-release sorts after any version with one.
func comparePreRelease(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareIdentifier(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) > len(bs):
		return 1
	case len(as) < len(bs):
		return -1
	default:
		return 0
	}
}

func compareIdentifier(a, b string) int {
	an, aErr := strconv.ParseUint(a, 10, 64)
	bn, bErr := strconv.ParseUint(b, 10, 64)

	switch {
	case aErr == nil && bErr == nil:
		if an == bn {
			return 0
		}
		if an > bn {
			return 1
		}
		return -1
	case aErr == nil:
		// Numeric identifiers have lower precedence than alphanumeric ones.
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// IncrementField bumps the specified version field.
// Higher fields are preserved, lower fields are zeroed.
// Pre-release and build metadata are cleared.
// VersionFieldNone returns the version unchanged.
func (v SemanticVersion) IncrementField(field VersionField) SemanticVersion {
	switch field {
	case VersionFieldMajor:
		return SemanticVersion{Major: v.Major + 1}
	case VersionFieldMinor:
		return SemanticVersion{Major: v.Major, Minor: v.Minor + 1}
	case VersionFieldPatch:
		return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

// SemVer returns the SemVer 2.0 format without build metadata
// (e.g., "1.2.3" or "1.2.3-beta.4").
func (v SemanticVersion) SemVer() string {
	base := v.MajorMinorPatch()
	if v.PreRelease != "" {
		return base + "-" + v.PreRelease
	}
	return base
}

// MajorMinorPatch returns the bare numeric triple (e.g., "1.2.3").
func (v SemanticVersion) MajorMinorPatch() string {
	return strconv.FormatInt(v.Major, 10) + "." +
		strconv.FormatInt(v.Minor, 10) + "." +
		strconv.FormatInt(v.Patch, 10)
}

// String returns the full version including build metadata.
func (v SemanticVersion) String() string {
	if v.Build != "" {
		return v.SemVer() + "+" + v.Build
	}
	return v.SemVer()
}
