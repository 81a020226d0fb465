// Package tag renders release tag names from a version, the current branch
// and the configured templates.
package tag

import (
	"errors"
	"regexp"
)

// ErrEmptyBranchName is returned when a branch name is empty before or after
// sanitization.
var ErrEmptyBranchName = errors.New("branch name is empty")

// defaultBranches are the branch names treated as the primary release line.
var defaultBranches = map[string]bool{
	"master": true,
	"main":   true,
}

var disallowed = regexp.MustCompile(`[^A-Za-z0-9]`)

// Sanitize replaces every character outside [A-Za-z0-9] with "-", so the
// result can be embedded in a tag name. It is idempotent.
func Sanitize(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyBranchName
	}
	return disallowed.ReplaceAllString(raw, "-"), nil
}

// BranchContext describes the branch a release is cut from.
type BranchContext struct {
	RawName         string
	SanitizedName   string
	IsDefaultBranch bool
}

// NewBranchContext sanitizes raw and classifies it as a default branch when
// the sanitized name is master or main.
func NewBranchContext(raw string) (BranchContext, error) {
	sanitized, err := Sanitize(raw)
	if err != nil {
		return BranchContext{}, err
	}
	return BranchContext{
		RawName:         raw,
		SanitizedName:   sanitized,
		IsDefaultBranch: defaultBranches[sanitized],
	}, nil
}
