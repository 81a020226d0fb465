// Package sdk provides a public Go API for easytag: computing the next
// version and tag for a manifest, and running a full release (bump, commit,
// tag, push) against a local git repository.
//
// Basic usage:
//
//	plan, err := sdk.Plan(ctx, sdk.Options{Path: "/path/to/repo", Action: "minor"})
//	fmt.Println(plan.NextTag) // "v1.3.0"
//
//	result, err := sdk.Release(ctx, sdk.Options{
//	    Path:   "/path/to/repo",
//	    Action: "patch",
//	    NoPush: sdk.Bool(true),
//	})
//	fmt.Println(result.Commit)
package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
	"github.com/MyCarrier-DevOps/go-easytag/internal/git"
	"github.com/MyCarrier-DevOps/go-easytag/internal/output"
	"github.com/MyCarrier-DevOps/go-easytag/internal/release"
	"github.com/MyCarrier-DevOps/go-easytag/internal/semver"
	"github.com/MyCarrier-DevOps/go-easytag/internal/tag"
)

// ErrorKind classifies a failed release. See KindOf.
type ErrorKind = release.Kind

// Error kinds returned by KindOf.
const (
	KindUnexpected       = release.KindUnexpected
	KindRepository       = release.KindRepository
	KindDirtyWorkingTree = release.KindDirtyWorkingTree
	KindInvalidAction    = release.KindInvalidAction
	KindManifestRead     = release.KindManifestRead
	KindInvalidVersion   = release.KindInvalidVersion
	KindBranchResolution = release.KindBranchResolution
	KindInvalidConfig    = release.KindInvalidConfig
	KindCommit           = release.KindCommit
	KindPush             = release.KindPush
	KindManifestWrite    = release.KindManifestWrite
	KindPublish          = release.KindPublish
)

// KindOf reports the kind of a release error.
func KindOf(err error) ErrorKind {
	return release.KindOf(err)
}

// Options configures a release or a plan.
type Options struct {
	// Path inside the git repository. Defaults to "." if empty.
	Path string

	// Manifest is the manifest file. Relative paths are resolved against the
	// repository root. Defaults to package.json.
	Manifest string

	// ConfigPath is an easytag YAML config file. If empty, easytag.yml is
	// auto-detected next to the manifest and in the repository root.
	ConfigPath string

	// Action is patch, minor or major.
	Action string

	// Overrides applied on top of file and manifest configuration. Nil
	// leaves the configured value in place.
	NoPush   *bool
	Annotate *bool
	Remote   *string

	// Output receives status lines. Nil discards them.
	Output io.Writer

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Result describes a release or a plan.
type Result struct {
	Action         string `json:"action"`
	CurrentVersion string `json:"currentVersion"`
	NextVersion    string `json:"nextVersion"`
	CurrentTag     string `json:"currentTag"`
	NextTag        string `json:"nextTag"`
	Branch         string `json:"branch"`
	Commit         string `json:"commit,omitempty"`
	Pushed         bool   `json:"pushed"`
	ReleaseURL     string `json:"releaseUrl,omitempty"`
}

// Bool returns a pointer to b, for Options overrides.
func Bool(b bool) *bool { return config.Bool(b) }

// String returns a pointer to s, for Options overrides.
func String(s string) *string { return config.String(s) }

// Release bumps the manifest version, commits it, tags the commit and
// pushes unless disabled. On failure the returned Result holds whatever was
// resolved before the failing stage.
func Release(ctx context.Context, opts Options) (*Result, error) {
	return run(ctx, opts, false)
}

// Plan resolves the versions and tags a release would produce without
// touching the working tree or the repository.
func Plan(ctx context.Context, opts Options) (*Result, error) {
	return run(ctx, opts, true)
}

func run(ctx context.Context, opts Options, dryRun bool) (*Result, error) {
	path := opts.Path
	if path == "" {
		path = "."
	}

	repo, err := git.Open(path)
	if err != nil {
		return nil, &release.Error{Kind: release.KindRepository, Message: "opening repository", Err: err}
	}

	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	wfOpts := []release.WorkflowOption{}
	if opts.Logger != nil {
		wfOpts = append(wfOpts, release.WithLogger(opts.Logger))
	}
	wf := release.NewWorkflow(repo, output.NewPrinter(out, false), wfOpts...)

	res, err := wf.Run(ctx, release.Options{
		ManifestPath: opts.Manifest,
		ConfigPath:   opts.ConfigPath,
		Action:       opts.Action,
		Overrides: &config.Config{
			NoPush:   opts.NoPush,
			Annotate: opts.Annotate,
			Remote:   opts.Remote,
		},
		DryRun: dryRun,
		Getenv: func(string) string { return "" },
	})

	return &Result{
		Action:         res.Action,
		CurrentVersion: res.CurrentVersion,
		NextVersion:    res.NextVersion,
		CurrentTag:     res.CurrentTag,
		NextTag:        res.NextTag,
		Branch:         res.Branch,
		Commit:         res.Commit,
		Pushed:         res.Pushed,
		ReleaseURL:     res.ReleaseURL,
	}, err
}

// NextVersion returns the version after applying action (patch, minor or
// major) to current.
func NextVersion(current, action string) (string, error) {
	return semver.Resolve(current, action)
}

// TagName renders the tag for version on branch using the default tag
// formats: v<version> on master or main, <branch>-v<version> elsewhere.
func TagName(version, branch string) (string, error) {
	parsed, err := semver.Parse(version)
	if err != nil {
		return "", err
	}
	bc, err := tag.NewBranchContext(branch)
	if err != nil {
		return "", fmt.Errorf("branch %q: %w", branch, err)
	}
	cfg, err := config.NewBuilder().Build()
	if err != nil {
		return "", err
	}
	return tag.Format(parsed.SemVer(), bc, cfg), nil
}

// SanitizeBranch converts a branch name into the form used inside tags.
func SanitizeBranch(branch string) (string, error) {
	return tag.Sanitize(branch)
}

// RegisterHook sets easytag as the preversion script of the manifest at
// path. It returns the script it replaced, if any.
func RegisterHook(path string) (string, error) {
	if path == "" {
		return "", errors.New("manifest path is required")
	}
	return release.RegisterHook(path)
}
