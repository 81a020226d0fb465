// Package config provides configuration loading, defaults and layered merging
// for easytag. Configuration can come from a YAML file, from the `easytag`
// section of the manifest, and from command-line flags.
package config

// Placeholders recognized in tag templates.
const (
	VersionPlaceholder    = "{{version}}"
	BranchNamePlaceholder = "{{branchName}}"
)

// Config is the layered configuration for easytag. All fields are pointers to
// support merge semantics during configuration building.
type Config struct {
	MasterFormat  *string `yaml:"master-format" json:"masterFormat,omitempty"`
	BranchFormat  *string `yaml:"branch-format" json:"branchFormat,omitempty"`
	NoPush        *bool   `yaml:"no-push" json:"noPush,omitempty"`
	Remote        *string `yaml:"remote" json:"remote,omitempty"`
	Annotate      *bool   `yaml:"annotate" json:"annotate,omitempty"`
	GitHubRelease *bool   `yaml:"github-release" json:"githubRelease,omitempty"`
}

// ReleaseConfig is the fully resolved configuration for a single run.
// It is built once and never mutated afterwards.
type ReleaseConfig struct {
	// MasterFormat is the tag template used on a default branch.
	MasterFormat string `json:"masterFormat"`

	// BranchFormat is the tag template used on every other branch.
	BranchFormat string `json:"branchFormat"`

	// NoPush skips pushing the branch and tags to the remote.
	NoPush bool `json:"noPush"`

	// Remote is the name of the remote to push to.
	Remote string `json:"remote"`

	// Annotate creates annotated tags instead of lightweight ones.
	Annotate bool `json:"annotate"`

	// GitHubRelease publishes a GitHub release for the new tag after a
	// successful push.
	GitHubRelease bool `json:"githubRelease"`
}
