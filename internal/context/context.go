// Package context provides the RunContext, the immutable snapshot of
// version, branch and configuration state a release is cut from.
package context

import (
	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
	"github.com/MyCarrier-DevOps/go-easytag/internal/semver"
	"github.com/MyCarrier-DevOps/go-easytag/internal/tag"
)

// VersionState holds the manifest version before and after the bump.
type VersionState struct {
	Current string
	Next    string
	Action  semver.VersionField
}

// RunContext holds the resolved state of one release.
// It is created once per invocation and passed to every later stage.
type RunContext struct {
	// ManifestPath is the absolute path of the manifest being bumped.
	ManifestPath string

	// Config is the merged configuration (defaults + user overrides).
	Config config.ReleaseConfig

	Version VersionState
	Branch  tag.BranchContext

	// CurrentTag is the tag the current version would carry on this
	// branch. It is informational; nothing checks that it exists.
	CurrentTag string

	// NextTag names both the release commit and the new tag.
	NextTag string
}

// ShouldPush reports whether the release is pushed to the remote.
func (c RunContext) ShouldPush() bool {
	return !c.Config.NoPush
}

// TagMessage returns the annotated tag message, or an empty string when a
// lightweight tag is configured.
func (c RunContext) TagMessage() string {
	if c.Config.Annotate {
		return c.NextTag
	}
	return ""
}
