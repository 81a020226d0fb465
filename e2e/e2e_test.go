// Package e2e contains end-to-end tests that exercise the full release
// workflow against real (temporary) git repositories.
//
// Each test creates a purpose-built repo with a package.json, runs the
// workflow through the go-git adapter, and asserts on the manifest, the
// commit, the tag and the remote. This tests all layers together:
// git adapter → config → semver → tag → manifest → push.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
	"github.com/MyCarrier-DevOps/go-easytag/internal/git"
	"github.com/MyCarrier-DevOps/go-easytag/internal/output"
	"github.com/MyCarrier-DevOps/go-easytag/internal/release"
	"github.com/MyCarrier-DevOps/go-easytag/internal/testutil"

	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available for the file transport")
	}
}

func noEnv(string) string { return "" }

// runRelease executes the workflow against the repo at path and returns the
// result, the status output and the error.
func runRelease(t *testing.T, path string, opts release.Options) (release.Result, string, error) {
	t.Helper()

	repo, err := git.Open(path)
	require.NoError(t, err)

	if opts.Getenv == nil {
		opts.Getenv = noEnv
	}

	var out bytes.Buffer
	wf := release.NewWorkflow(repo, output.NewPrinter(&out, false))
	res, err := wf.Run(context.Background(), opts)
	return res, out.String(), err
}

func noPush() *config.Config {
	return &config.Config{NoPush: config.Bool(true)}
}

// ---------------------------------------------------------------------------
// Default branch
// ---------------------------------------------------------------------------

func TestE2E_MinorOnMain_PushesBranchAndTag(t *testing.T) {
	requireGit(t)
	repo := testutil.NewManifestRepo(t, "0.1.0")
	remote := repo.AddBareRemote("origin")
	commitsBefore := repo.CommitCount()

	res, out, err := runRelease(t, repo.Path(), release.Options{Action: "minor"})
	require.NoError(t, err)

	require.Contains(t, repo.ReadFile("package.json"), `"version": "0.2.0"`)
	require.Equal(t, commitsBefore+1, repo.CommitCount())
	require.Equal(t, "v0.2.0", strings.TrimSpace(repo.HeadMessage()))
	require.Equal(t, repo.HeadSha(), repo.TagTarget("v0.2.0"))
	require.False(t, repo.IsAnnotatedTag("v0.2.0"))

	require.Equal(t, repo.HeadSha(), testutil.RemoteRef(t, remote, "refs/heads/main"))
	require.Equal(t, repo.HeadSha(), testutil.RemoteRef(t, remote, "refs/tags/v0.2.0"))

	require.True(t, res.Pushed)
	require.Equal(t, "v0.1.0", res.CurrentTag)
	require.Contains(t, out, "Pushed main and tags to origin")
}

func TestE2E_MasterIsDefaultBranch(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "1.9.9")
	repo.CheckoutNewBranch("master")

	res, _, err := runRelease(t, repo.Path(), release.Options{Action: "patch", Overrides: noPush()})
	require.NoError(t, err)
	require.Equal(t, "v1.9.10", res.NextTag)
	require.Equal(t, repo.HeadSha(), repo.TagTarget("v1.9.10"))
}

func TestE2E_SuccessiveReleases(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "1.0.0")

	for _, step := range []struct{ action, tag string }{
		{"patch", "v1.0.1"},
		{"minor", "v1.1.0"},
		{"patch", "v1.1.1"},
		{"major", "v2.0.0"},
	} {
		res, _, err := runRelease(t, repo.Path(), release.Options{Action: step.action, Overrides: noPush()})
		require.NoError(t, err, step.action)
		require.Equal(t, step.tag, res.NextTag)
		require.Equal(t, repo.HeadSha(), repo.TagTarget(step.tag))
	}
	require.Contains(t, repo.ReadFile("package.json"), `"version": "2.0.0"`)
}

// ---------------------------------------------------------------------------
// Feature branches
// ---------------------------------------------------------------------------

func TestE2E_FeatureBranch_SanitizedTag(t *testing.T) {
	requireGit(t)
	repo := testutil.NewManifestRepo(t, "2.3.4")
	repo.CheckoutNewBranch("feature/JIRA-42_login")
	remote := repo.AddBareRemote("origin")

	res, _, err := runRelease(t, repo.Path(), release.Options{Action: "patch"})
	require.NoError(t, err)

	require.Equal(t, "feature-JIRA-42-login-v2.3.5", res.NextTag)
	require.Equal(t, "feature-JIRA-42-login-v2.3.4", res.CurrentTag)
	require.Equal(t, "feature/JIRA-42_login", res.Branch)
	require.Equal(t, repo.HeadSha(), testutil.RemoteRef(t, remote, "refs/heads/feature/JIRA-42_login"))
	require.Equal(t, repo.HeadSha(), testutil.RemoteRef(t, remote, "refs/tags/feature-JIRA-42-login-v2.3.5"))
}

func TestE2E_CustomFormatsFromConfigFile(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "0.9.0")
	repo.WriteConfig("master-format: \"release-{{version}}\"\nbranch-format: \"{{version}}-{{branchName}}\"\nannotate: true\n")
	repo.CommitAll("add easytag config")

	res, _, err := runRelease(t, repo.Path(), release.Options{Action: "minor", Overrides: noPush()})
	require.NoError(t, err)
	require.Equal(t, "release-v0.10.0", res.NextTag)
	require.True(t, repo.IsAnnotatedTag("release-v0.10.0"))

	repo.CheckoutNewBranch("hotfix")
	res, _, err = runRelease(t, repo.Path(), release.Options{Action: "patch", Overrides: noPush()})
	require.NoError(t, err)
	require.Equal(t, "v0.10.1-hotfix", res.NextTag)
}

func TestE2E_ManifestSectionOverridesConfigFile(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("package.json", `{
  "name": "fixture",
  "version": "1.0.0",
  "easytag": {
    "masterFormat": "pkg_{{version}}",
    "noPush": true
  }
}
`)
	repo.WriteConfig("master-format: \"file-{{version}}\"\n")
	repo.CommitAll("initial commit")

	res, _, err := runRelease(t, repo.Path(), release.Options{Action: "patch"})
	require.NoError(t, err)
	require.Equal(t, "pkg_v1.0.1", res.NextTag)
	require.False(t, res.Pushed)
}

// ---------------------------------------------------------------------------
// Manifest handling
// ---------------------------------------------------------------------------

func TestE2E_PreservesManifestLayoutAndUpdatesLockfile(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("package.json", "{\n\t\"name\": \"fixture\",\n\t\"version\": \"3.0.0\",\n\t\"dependencies\": {\n\t\t\"zeta\": \"^1.0.0\",\n\t\t\"alpha\": \"^2.0.0\"\n\t}\n}\n")
	repo.WriteFile("package-lock.json", `{
  "name": "fixture",
  "version": "3.0.0",
  "lockfileVersion": 3,
  "packages": {
    "": {
      "name": "fixture",
      "version": "3.0.0"
    }
  }
}
`)
	repo.CommitAll("initial commit")

	_, _, err := runRelease(t, repo.Path(), release.Options{Action: "major", Overrides: noPush()})
	require.NoError(t, err)

	require.Equal(t,
		"{\n\t\"name\": \"fixture\",\n\t\"version\": \"4.0.0\",\n\t\"dependencies\": {\n\t\t\"zeta\": \"^1.0.0\",\n\t\t\"alpha\": \"^2.0.0\"\n\t}\n}\n",
		repo.ReadFile("package.json"))

	var lock struct {
		Version  string `json:"version"`
		Packages map[string]struct {
			Version string `json:"version"`
		} `json:"packages"`
	}
	require.NoError(t, json.Unmarshal([]byte(repo.ReadFile("package-lock.json")), &lock))
	require.Equal(t, "4.0.0", lock.Version)
	require.Equal(t, "4.0.0", lock.Packages[""].Version)

	changes, err := mustOpen(t, repo.Path()).UncommittedChanges()
	require.NoError(t, err)
	require.Empty(t, changes, "manifest and lockfile must both be committed")
}

func TestE2E_IgnoredLockfileIsNotCommitted(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile(".gitignore", "package-lock.json\n")
	repo.WriteManifest("1.0.0")
	repo.CommitAll("initial commit")
	lockJSON := "{\n  \"name\": \"fixture\",\n  \"version\": \"1.0.0\"\n}\n"
	repo.WriteFile("package-lock.json", lockJSON)

	_, _, err := runRelease(t, repo.Path(), release.Options{Action: "minor", Overrides: noPush()})
	require.NoError(t, err)

	require.Contains(t, repo.ReadFile("package.json"), `"version": "1.1.0"`)
	require.Equal(t, lockJSON, repo.ReadFile("package-lock.json"))

	tracked, err := mustOpen(t, repo.Path()).IsTracked("package-lock.json")
	require.NoError(t, err)
	require.False(t, tracked, "ignored lockfile must not be committed")
}

func TestE2E_ManifestInSubdirectory(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("README.md", "monorepo\n")
	repo.WriteFile("packages/web/package.json", "{\n  \"name\": \"web\",\n  \"version\": \"0.0.1\"\n}\n")
	repo.CommitAll("initial commit")

	res, _, err := runRelease(t, repo.Path(), release.Options{
		ManifestPath: "packages/web/package.json",
		Action:       "patch",
		Overrides:    noPush(),
	})
	require.NoError(t, err)
	require.Equal(t, "v0.0.2", res.NextTag)
	require.Contains(t, repo.ReadFile("packages/web/package.json"), `"version": "0.0.2"`)
}

// ---------------------------------------------------------------------------
// npm preversion hook
// ---------------------------------------------------------------------------

func TestE2E_ActionFromNpmLifecycle(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "1.4.0")
	env := map[string]string{
		"npm_lifecycle_event": "preversion",
		"npm_old_version":     "1.4.0",
		"npm_new_version":     "1.5.0",
	}

	res, _, err := runRelease(t, repo.Path(), release.Options{
		Overrides: noPush(),
		Getenv:    func(k string) string { return env[k] },
	})
	require.NoError(t, err)
	require.Equal(t, "minor", res.Action)
	require.Equal(t, "v1.5.0", res.NextTag)
}

// ---------------------------------------------------------------------------
// Failures
// ---------------------------------------------------------------------------

func TestE2E_DirtyTreeLeavesEverythingUntouched(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "0.1.0")
	head := repo.HeadSha()
	repo.WriteFile("src/index.js", "console.log('wip')\n")

	_, _, err := runRelease(t, repo.Path(), release.Options{Action: "minor", Overrides: noPush()})
	require.Equal(t, release.KindDirtyWorkingTree, release.KindOf(err))
	require.Contains(t, err.Error(), "src/index.js")
	require.Equal(t, head, repo.HeadSha())
	require.Contains(t, repo.ReadFile("package.json"), `"version": "0.1.0"`)
}

func TestE2E_ExistingTagStopsBeforeAnyChange(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "0.1.0")
	head := repo.HeadSha()
	repo.CreateTag("v0.2.0", head)

	_, _, err := runRelease(t, repo.Path(), release.Options{Action: "minor", Overrides: noPush()})
	require.Equal(t, release.KindCommit, release.KindOf(err))
	require.Equal(t, head, repo.HeadSha())
	require.Contains(t, repo.ReadFile("package.json"), `"version": "0.1.0"`)
}

func TestE2E_PushFailureKeepsLocalCommitAndTag(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "0.1.0")

	res, _, err := runRelease(t, repo.Path(), release.Options{Action: "patch"})
	require.Equal(t, release.KindPush, release.KindOf(err))
	require.Equal(t, repo.HeadSha(), res.Commit)
	require.Equal(t, repo.HeadSha(), repo.TagTarget("v0.1.1"))
	require.False(t, res.Pushed)
}

func TestE2E_DetachedHead(t *testing.T) {
	repo := testutil.NewManifestRepo(t, "0.1.0")
	repo.DetachHead()

	_, _, err := runRelease(t, repo.Path(), release.Options{Action: "patch", Overrides: noPush()})
	require.Equal(t, release.KindBranchResolution, release.KindOf(err))
}

func mustOpen(t *testing.T, path string) *git.GoGitRepository {
	t.Helper()
	repo, err := git.Open(path)
	require.NoError(t, err)
	return repo
}
