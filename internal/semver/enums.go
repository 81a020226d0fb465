// Package semver provides immutable semantic versioning types and the
// increment rules used to compute the next release version.
package semver

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned when a release action is not one of
// patch, minor or major.
var ErrInvalidAction = errors.New("invalid action")

// VersionField represents which field of a semantic version to increment.
// The non-None values double as the release actions accepted on the
// command line.
type VersionField int

const (
	VersionFieldNone VersionField = iota
	VersionFieldPatch
	VersionFieldMinor
	VersionFieldMajor
)

func (f VersionField) String() string {
	switch f {
	case VersionFieldNone:
		return "none"
	case VersionFieldPatch:
		return "patch"
	case VersionFieldMinor:
		return "minor"
	case VersionFieldMajor:
		return "major"
	default:
		return "unknown"
	}
}

// Actions lists the accepted release actions in increasing significance.
var Actions = []VersionField{VersionFieldPatch, VersionFieldMinor, VersionFieldMajor}

// ParseAction converts a release action string to a VersionField.
// Matching is exact: "Minor" or " minor" are rejected like any other
// unknown value, and so is the empty string.
func ParseAction(s string) (VersionField, error) {
	switch s {
	case "patch":
		return VersionFieldPatch, nil
	case "minor":
		return VersionFieldMinor, nil
	case "major":
		return VersionFieldMajor, nil
	case "":
		return VersionFieldNone, fmt.Errorf("%w: no action provided", ErrInvalidAction)
	default:
		return VersionFieldNone, fmt.Errorf("%w: %q (use patch, minor or major)", ErrInvalidAction, s)
	}
}
