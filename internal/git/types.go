// Package git is the version-control layer of a release: working-tree
// status, branch lookup, staging, commits, tags and pushes.
package git

import (
	"errors"
	"strings"
)

const (
	localBranchPrefix = "refs/heads/"
	tagRefPrefix      = "refs/tags/"
)

// ErrDetachedHead is returned when HEAD does not point to a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

// ReferenceName represents a git reference with canonical and friendly forms.
type ReferenceName struct {
	Canonical string // e.g., "refs/heads/main"
	Friendly  string // e.g., "main"
}

// NewReferenceName creates a ReferenceName from a canonical ref path.
func NewReferenceName(canonical string) ReferenceName {
	friendly := canonical
	switch {
	case strings.HasPrefix(canonical, localBranchPrefix):
		friendly = canonical[len(localBranchPrefix):]
	case strings.HasPrefix(canonical, tagRefPrefix):
		friendly = canonical[len(tagRefPrefix):]
	}
	return ReferenceName{Canonical: canonical, Friendly: friendly}
}

// NewBranchReferenceName creates a ReferenceName for a local branch.
func NewBranchReferenceName(name string) ReferenceName {
	return NewReferenceName(localBranchPrefix + name)
}

// NewTagReferenceName creates a ReferenceName for a tag.
func NewTagReferenceName(name string) ReferenceName {
	return NewReferenceName(tagRefPrefix + name)
}

// IsBranch returns true if this reference is a local branch.
func (r ReferenceName) IsBranch() bool {
	return strings.HasPrefix(r.Canonical, localBranchPrefix)
}

// IsTag returns true if this reference is a tag.
func (r ReferenceName) IsTag() bool {
	return strings.HasPrefix(r.Canonical, tagRefPrefix)
}

// Branch represents a local git branch.
type Branch struct {
	Name ReferenceName
	// TipSha is empty on an unborn branch.
	TipSha string
}

// FriendlyName returns the friendly name of the branch.
func (b Branch) FriendlyName() string {
	return b.Name.Friendly
}

// RefSpec returns the push refspec mapping the branch onto the same name.
func (b Branch) RefSpec() string {
	return b.Name.Canonical + ":" + b.Name.Canonical
}

// TagsRefSpec maps every local tag onto the remote.
const TagsRefSpec = tagRefPrefix + "*:" + tagRefPrefix + "*"
