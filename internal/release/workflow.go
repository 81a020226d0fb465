package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
	runctx "github.com/MyCarrier-DevOps/go-easytag/internal/context"
	"github.com/MyCarrier-DevOps/go-easytag/internal/git"
	"github.com/MyCarrier-DevOps/go-easytag/internal/github"
	"github.com/MyCarrier-DevOps/go-easytag/internal/logging"
	"github.com/MyCarrier-DevOps/go-easytag/internal/manifest"
	"github.com/MyCarrier-DevOps/go-easytag/internal/output"
	"github.com/MyCarrier-DevOps/go-easytag/internal/semver"
)

// npm sets these while running a version lifecycle script.
const (
	envLifecycleEvent = "npm_lifecycle_event"
	envOldVersion     = "npm_old_version"
	envNewVersion     = "npm_new_version"
)

// maxListedChanges caps the dirty paths shown in a preflight failure.
const maxListedChanges = 5

// Publisher creates a hosted release for a pushed tag.
type Publisher interface {
	Publish(ctx context.Context, repo github.Repo, tagName string) (github.Release, error)
}

// PublisherFactory builds a Publisher for the repository owner.
type PublisherFactory func(ctx context.Context, owner string) (Publisher, error)

// DefaultPublisherFactory authenticates with GitHub from the environment.
func DefaultPublisherFactory(ctx context.Context, owner string) (Publisher, error) {
	client, err := github.NewClient(ctx, github.ClientConfig{Owner: owner})
	if err != nil {
		return nil, err
	}
	return github.NewPublisher(client), nil
}

// Options configures a single release.
type Options struct {
	// ManifestPath is the manifest to bump. Relative paths are resolved
	// against the repository working directory.
	ManifestPath string

	// ConfigPath is an explicit YAML config file. Empty means search the
	// manifest directory and then the repository root.
	ConfigPath string

	// Action is patch, minor or major. Empty is only accepted inside an npm
	// preversion hook, where the action is derived from npm's versions.
	Action string

	// Overrides are applied last, on top of file and manifest config.
	Overrides *config.Config

	// DryRun stops after the tags are computed.
	DryRun bool

	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
}

// Result summarizes a release. Fields are filled in as stages complete, so
// a failed run still reports how far it got.
type Result struct {
	Action         string
	CurrentVersion string
	NextVersion    string
	CurrentTag     string
	NextTag        string
	Branch         string
	Commit         string `json:",omitempty"`
	Pushed         bool
	ReleaseURL     string `json:",omitempty"`
	DryRun         bool
}

// Workflow sequences the release stages against a repository.
type Workflow struct {
	repo         git.Repository
	printer      *output.Printer
	logger       *slog.Logger
	newPublisher PublisherFactory
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) WorkflowOption {
	return func(w *Workflow) { w.logger = logger }
}

// WithPublisherFactory replaces how GitHub publishers are built.
func WithPublisherFactory(f PublisherFactory) WorkflowOption {
	return func(w *Workflow) { w.newPublisher = f }
}

// NewWorkflow creates a Workflow reporting progress through printer.
func NewWorkflow(repo git.Repository, printer *output.Printer, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		repo:         repo,
		printer:      printer,
		logger:       logging.Discard(),
		newPublisher: DefaultPublisherFactory,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the release. Stages run strictly in order and the first
// failure stops the run with an *Error. Nothing already done is undone.
func (w *Workflow) Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	var res Result

	if err := w.preflight(); err != nil {
		return res, err
	}

	m, version, cfg, err := w.loadState(opts)
	if err != nil {
		return res, err
	}
	res.Action = version.Action.String()
	res.CurrentVersion = version.Current
	res.NextVersion = version.Next

	branch, rc, err := w.resolveBranch(m.Path(), version, cfg)
	res.Branch = rc.Branch.RawName
	res.CurrentTag = rc.CurrentTag
	res.NextTag = rc.NextTag
	if err != nil {
		return res, err
	}

	if opts.DryRun {
		res.DryRun = true
		w.printer.Warning("Dry run: %s would be committed and tagged as %s", m.Path(), rc.NextTag)
		return res, nil
	}

	sha, err := w.commit(m, rc)
	if err != nil {
		return res, err
	}
	res.Commit = sha

	if !rc.ShouldPush() {
		w.printer.Warning("Push skipped (noPush). Push %s and tag %s manually", branch.FriendlyName(), rc.NextTag)
	} else {
		if err := w.push(ctx, branch, rc); err != nil {
			return res, err
		}
		res.Pushed = true
	}

	if rc.Config.GitHubRelease {
		if !res.Pushed {
			w.printer.Warning("GitHub release skipped: tag %s was not pushed", rc.NextTag)
		} else {
			url, err := w.publish(ctx, rc)
			if err != nil {
				return res, err
			}
			res.ReleaseURL = url
		}
	}

	w.printer.Success("Released %s (%s %s -> %s)", rc.NextTag, res.Action, rc.Version.Current, rc.Version.Next)
	return res, nil
}

func (w *Workflow) preflight() error {
	changes, err := w.repo.UncommittedChanges()
	if err != nil {
		return fail(KindRepository, err, "could not read working tree status")
	}
	w.logger.Debug("preflight", "uncommitted", len(changes))

	if len(changes) > 0 {
		listed := changes
		if len(listed) > maxListedChanges {
			listed = append(listed[:maxListedChanges:maxListedChanges], fmt.Sprintf("... %d more", len(changes)-maxListedChanges))
		}
		return fail(KindDirtyWorkingTree, nil,
			"working tree has uncommitted changes, commit or stash them first: "+strings.Join(listed, ", "))
	}
	return nil
}

func (w *Workflow) loadState(opts Options) (*manifest.Manifest, runctx.VersionState, config.ReleaseConfig, error) {
	var (
		none    runctx.VersionState
		noneCfg config.ReleaseConfig
	)

	path := opts.ManifestPath
	if path == "" {
		path = manifest.DefaultFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.repo.WorkingDirectory(), path)
	}

	m, err := manifest.Load(path)
	if err != nil {
		return nil, none, noneCfg, fail(KindManifestRead, err, "could not read manifest")
	}

	current, err := m.Version()
	if err != nil {
		return nil, none, noneCfg, fail(KindManifestRead, err, "could not read version from "+path)
	}

	cfg, err := w.loadConfig(m, opts)
	if err != nil {
		return nil, none, noneCfg, err
	}

	action, err := resolveAction(opts.Action, current, opts.Getenv)
	if err != nil {
		return nil, none, noneCfg, fail(KindInvalidAction, err, "could not determine release action")
	}

	version, err := runctx.NewVersionState(current, action)
	switch {
	case errors.Is(err, semver.ErrInvalidAction):
		return nil, none, noneCfg, fail(KindInvalidAction, err, "invalid release action")
	case errors.Is(err, semver.ErrInvalidVersion):
		return nil, none, noneCfg, fail(KindInvalidVersion, err, "manifest version is not a semantic version")
	case err != nil:
		return nil, none, noneCfg, fail(KindUnexpected, err, "could not compute next version")
	}

	w.logger.Debug("version resolved",
		"manifest", path, "current", version.Current, "next", version.Next, "action", version.Action.String())
	w.printer.Info("Action: %s (%s -> %s)", version.Action, version.Current, version.Next)

	return m, version, cfg, nil
}

// loadConfig layers defaults, the YAML file, the manifest section and the
// caller's overrides, in that order.
func (w *Workflow) loadConfig(m *manifest.Manifest, opts Options) (config.ReleaseConfig, error) {
	b := config.NewBuilder()

	file := opts.ConfigPath
	if file == "" {
		file = config.FindFile(m.Dir())
		if file == "" && m.Dir() != w.repo.WorkingDirectory() {
			file = config.FindFile(w.repo.WorkingDirectory())
		}
	}
	if file != "" {
		fileCfg, err := config.LoadFromFile(file)
		if err != nil {
			return config.ReleaseConfig{}, fail(KindInvalidConfig, err, "could not load "+file)
		}
		w.logger.Debug("config file loaded", "path", file)
		b.Add(fileCfg)
	}

	if raw, ok := m.Section(config.SectionName); ok {
		sectionCfg, err := config.LoadFromManifestSection(raw)
		if err != nil {
			return config.ReleaseConfig{}, fail(KindInvalidConfig, err, "could not load manifest config")
		}
		b.Add(sectionCfg)
	}

	b.Add(opts.Overrides)

	cfg, err := b.Build()
	if err != nil {
		return config.ReleaseConfig{}, fail(KindInvalidConfig, err, "invalid configuration")
	}
	return cfg, nil
}

// resolveAction returns the explicit action, or inside an npm preversion
// hook the increment between npm's old and new versions. npm's old version
// must be the manifest's current one so the computed next version is the
// one npm asked for.
func resolveAction(action, current string, getenv func(string) string) (string, error) {
	if action != "" || getenv(envLifecycleEvent) != "preversion" {
		return action, nil
	}

	oldVersion, newVersion := getenv(envOldVersion), getenv(envNewVersion)
	field, err := semver.Diff(oldVersion, newVersion)
	if err != nil {
		return "", fmt.Errorf("npm version %q -> %q: %w", oldVersion, newVersion, err)
	}

	if cur, ok := semver.TryParse(current); ok {
		old, _ := semver.Parse(oldVersion)
		if cur.SemVer() != old.SemVer() {
			return "", fmt.Errorf("%w: npm is bumping from %s but the manifest is at %s",
				semver.ErrInvalidAction, old.SemVer(), cur.SemVer())
		}
	}
	return field.String(), nil
}

func (w *Workflow) resolveBranch(manifestPath string, version runctx.VersionState, cfg config.ReleaseConfig) (git.Branch, runctx.RunContext, error) {
	branch, err := w.repo.CurrentBranch()
	if err != nil {
		return git.Branch{}, runctx.RunContext{}, fail(KindBranchResolution, err, "could not determine current branch")
	}

	rc, err := runctx.New(manifestPath, version, branch.FriendlyName(), cfg)
	if err != nil {
		return git.Branch{}, runctx.RunContext{}, fail(KindBranchResolution, err, "could not determine current branch")
	}

	w.logger.Debug("tags resolved",
		"branch", branch.FriendlyName(), "default", rc.Branch.IsDefaultBranch,
		"current_tag", rc.CurrentTag, "next_tag", rc.NextTag)
	w.printer.Info("Branch: %s", branch.FriendlyName())
	w.printer.Info("Current tag: %s", rc.CurrentTag)
	w.printer.Info("Next tag: %s", rc.NextTag)

	exists, err := w.repo.TagExists(rc.NextTag)
	if err != nil {
		return git.Branch{}, rc, fail(KindCommit, err, "could not check for tag "+rc.NextTag)
	}
	if exists {
		return git.Branch{}, rc, fail(KindCommit, nil, "tag "+rc.NextTag+" already exists")
	}

	return branch, rc, nil
}

func (w *Workflow) commit(m *manifest.Manifest, rc runctx.RunContext) (string, error) {
	if err := m.SetVersion(rc.Version.Next); err != nil {
		return "", fail(KindManifestWrite, err, "could not set version "+rc.Version.Next)
	}
	if err := m.Save(); err != nil {
		return "", fail(KindManifestWrite, err, "could not write manifest")
	}

	paths := []string{m.Path()}
	lock, err := w.updateLockfile(m.Dir(), rc.Version.Next)
	if err != nil {
		return "", fail(KindManifestWrite, err, "could not update lockfile")
	}
	if lock != "" {
		paths = append(paths, lock)
	}
	w.logger.Debug("manifest written", "paths", strings.Join(paths, ","), "version", rc.Version.Next)

	if err := w.repo.Add(paths...); err != nil {
		return "", fail(KindCommit, err, "could not stage manifest for "+rc.NextTag)
	}

	sha, err := w.repo.Commit(rc.NextTag)
	if err != nil {
		return "", fail(KindCommit, err, "could not commit "+rc.NextTag)
	}

	if err := w.repo.CreateTag(rc.NextTag, rc.TagMessage()); err != nil {
		return sha, fail(KindCommit, err, "could not create tag "+rc.NextTag)
	}

	w.logger.Info("committed and tagged", "tag", rc.NextTag, "commit", sha, "annotated", rc.Config.Annotate)
	w.printer.Success("Committed and tagged %s", rc.NextTag)
	return sha, nil
}

// updateLockfile bumps the lockfile next to the manifest when git tracks
// it. An untracked or ignored lockfile is left alone and not staged.
func (w *Workflow) updateLockfile(dir, version string) (string, error) {
	path := filepath.Join(dir, manifest.LockFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	tracked, err := w.repo.IsTracked(path)
	if err != nil {
		return "", err
	}
	if !tracked {
		w.logger.Debug("lockfile not tracked, skipping", "path", path)
		return "", nil
	}

	return manifest.UpdateLockfile(dir, version)
}

func (w *Workflow) push(ctx context.Context, branch git.Branch, rc runctx.RunContext) error {
	remote := rc.Config.Remote

	if err := w.repo.PushBranch(ctx, remote, branch); err != nil {
		return fail(KindPush, err, fmt.Sprintf("could not push %s to %s; %s is committed and tagged locally",
			branch.FriendlyName(), remote, rc.NextTag))
	}
	if err := w.repo.PushTags(ctx, remote); err != nil {
		return fail(KindPush, err, fmt.Sprintf("could not push tag %s to %s", rc.NextTag, remote))
	}

	w.logger.Info("pushed", "remote", remote, "branch", branch.FriendlyName(), "tag", rc.NextTag)
	w.printer.Success("Pushed %s and tags to %s", branch.FriendlyName(), remote)
	return nil
}

func (w *Workflow) publish(ctx context.Context, rc runctx.RunContext) (string, error) {
	url, err := w.repo.RemoteURL(rc.Config.Remote)
	if err != nil {
		return "", fail(KindPublish, err, "could not read remote URL")
	}

	repo, err := github.ParseRemoteURL(url)
	if err != nil {
		return "", fail(KindPublish, err, "could not publish GitHub release for "+rc.NextTag)
	}

	publisher, err := w.newPublisher(ctx, repo.Owner)
	if err != nil {
		return "", fail(KindPublish, err, "could not authenticate with GitHub")
	}

	rel, err := publisher.Publish(ctx, repo, rc.NextTag)
	if err != nil {
		return "", fail(KindPublish, err, "could not publish GitHub release for "+rc.NextTag)
	}

	if rel.Existed {
		w.printer.Warning("GitHub release for %s already exists: %s", rc.NextTag, rel.URL)
	} else {
		w.printer.Success("Published GitHub release %s", rel.URL)
	}
	w.logger.Info("published", "repo", repo.String(), "tag", rc.NextTag, "release_id", rel.ID)
	return rel.URL, nil
}
