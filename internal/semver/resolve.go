package semver

import (
	"fmt"
	"math"
)

// Resolve computes the next version string for the given action.
// The action is validated before the version so an empty action is always
// reported as ErrInvalidAction.
func Resolve(currentVersion, action string) (string, error) {
	field, err := ParseAction(action)
	if err != nil {
		return "", err
	}

	current, err := Parse(currentVersion)
	if err != nil {
		return "", err
	}

	next, err := Next(current, field)
	if err != nil {
		return "", err
	}
	return next.SemVer(), nil
}

// Next increments current by the given field. The result is always strictly
// greater than current; a field that cannot grow any further is reported
// as ErrInvalidVersion.
func Next(current SemanticVersion, field VersionField) (SemanticVersion, error) {
	var component int64
	switch field {
	case VersionFieldPatch:
		component = current.Patch
	case VersionFieldMinor:
		component = current.Minor
	case VersionFieldMajor:
		component = current.Major
	default:
		return SemanticVersion{}, fmt.Errorf("%w: %s", ErrInvalidAction, field)
	}
	if component == math.MaxInt64 {
		return SemanticVersion{}, fmt.Errorf("%w: %s %s cannot be incremented", ErrInvalidVersion, current.SemVer(), field)
	}
	return current.IncrementField(field), nil
}

// Diff reports which single increment turns oldVersion into newVersion, in
// the manner of an npm version lifecycle. newVersion must be exactly what
// Next produces for that field: pre-release targets, skipped versions and
// releases of a pre-release (1.2.3-beta.1 -> 1.2.3) are ErrInvalidAction.
func Diff(oldVersion, newVersion string) (VersionField, error) {
	oldV, err := Parse(oldVersion)
	if err != nil {
		return VersionFieldNone, err
	}
	newV, err := Parse(newVersion)
	if err != nil {
		return VersionFieldNone, err
	}

	if newV.PreRelease != "" {
		return VersionFieldNone, fmt.Errorf("%w: pre-release target %s", ErrInvalidAction, newV.SemVer())
	}
	if newV.CompareTo(oldV) <= 0 {
		return VersionFieldNone, fmt.Errorf("%w: %s is not greater than %s", ErrInvalidAction, newV.SemVer(), oldV.SemVer())
	}

	field := VersionFieldPatch
	switch {
	case newV.Major != oldV.Major:
		field = VersionFieldMajor
	case newV.Minor != oldV.Minor:
		field = VersionFieldMinor
	}

	want, err := Next(oldV, field)
	if err != nil {
		return VersionFieldNone, err
	}
	if want.SemVer() != newV.SemVer() {
		return VersionFieldNone, fmt.Errorf("%w: %s is not a single %s step from %s (expected %s)",
			ErrInvalidAction, newV.SemVer(), field, oldV.SemVer(), want.SemVer())
	}
	return field, nil
}
