package context

import (
	"fmt"

	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
	"github.com/MyCarrier-DevOps/go-easytag/internal/semver"
	"github.com/MyCarrier-DevOps/go-easytag/internal/tag"
)

// NewVersionState validates the action and the current version and computes
// the next version. Action errors wrap semver.ErrInvalidAction, version
// errors semver.ErrInvalidVersion.
func NewVersionState(current, action string) (VersionState, error) {
	next, err := semver.Resolve(current, action)
	if err != nil {
		return VersionState{}, err
	}

	// Resolve has validated both inputs.
	field, _ := semver.ParseAction(action)
	v, _ := semver.Parse(current)

	return VersionState{
		Current: v.String(),
		Next:    next,
		Action:  field,
	}, nil
}

// New builds the RunContext for a release of version on branchName,
// rendering the current and next tags with cfg.
func New(manifestPath string, version VersionState, branchName string, cfg config.ReleaseConfig) (RunContext, error) {
	branch, err := tag.NewBranchContext(branchName)
	if err != nil {
		return RunContext{}, fmt.Errorf("resolving branch: %w", err)
	}

	return RunContext{
		ManifestPath: manifestPath,
		Config:       cfg,
		Version:      version,
		Branch:       branch,
		CurrentTag:   tag.Format(version.Current, branch, cfg),
		NextTag:      tag.Format(version.Next, branch, cfg),
	}, nil
}
