// Package testutil provides helpers for creating temporary git repositories
// for end-to-end testing.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestRepo is a builder for creating temporary git repositories holding a
// package manifest, with controlled commits, branches and remotes.
type TestRepo struct {
	t    testing.TB
	path string
	repo *gogit.Repository
	time time.Time
}

// NewTestRepo initializes a repository on branch main in a temporary
// directory with user.name and user.email configured.
func NewTestRepo(t testing.TB) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	cfg.User.Name = "Test"
	cfg.User.Email = "test@example.com"
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	return &TestRepo{
		t:    t,
		path: dir,
		repo: repo,
		time: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// NewManifestRepo returns a repository whose first commit holds a
// package.json at the given version.
func NewManifestRepo(t testing.TB, version string) *TestRepo {
	t.Helper()
	r := NewTestRepo(t)
	r.WriteManifest(version)
	r.CommitAll("initial commit")
	return r
}

// Path returns the repository root directory.
func (r *TestRepo) Path() string {
	return r.path
}

// ManifestPath returns the path of the package.json in the repo root.
func (r *TestRepo) ManifestPath() string {
	return filepath.Join(r.path, "package.json")
}

// WriteFile writes content to a file relative to the repo root.
func (r *TestRepo) WriteFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}
}

// ReadFile returns the content of a file relative to the repo root.
func (r *TestRepo) ReadFile(name string) string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.path, name))
	if err != nil {
		r.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// WriteManifest writes a minimal package.json at the given version.
func (r *TestRepo) WriteManifest(version string) {
	r.t.Helper()
	r.WriteFile("package.json", fmt.Sprintf(`{
  "name": "fixture",
  "version": %q,
  "private": true
}
`, version))
}

// WriteConfig writes an easytag.yml file in the repo root.
func (r *TestRepo) WriteConfig(content string) {
	r.t.Helper()
	r.WriteFile("easytag.yml", content)
}

// CommitAll stages every change in the worktree and commits it.
// Returns the commit SHA.
func (r *TestRepo) CommitAll(message string) string {
	r.t.Helper()
	r.time = r.time.Add(time.Minute)

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		r.t.Fatalf("staging: %v", err)
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  r.time,
		},
	})
	if err != nil {
		r.t.Fatalf("committing: %v", err)
	}

	return hash.String()
}

// CreateTag creates a lightweight tag pointing at the given SHA.
func (r *TestRepo) CreateTag(name, sha string) {
	r.t.Helper()
	ref := plumbing.NewReferenceFromStrings("refs/tags/"+name, sha)
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("creating tag %s: %v", name, err)
	}
}

// CheckoutNewBranch creates a branch at HEAD and switches to it.
func (r *TestRepo) CheckoutNewBranch(name string) {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("getting worktree: %v", err)
	}

	err = wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		r.t.Fatalf("checking out %s: %v", name, err)
	}
}

// DetachHead points HEAD directly at the current commit.
func (r *TestRepo) DetachHead() {
	r.t.Helper()
	ref := plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash(r.HeadSha()))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		r.t.Fatalf("detaching HEAD: %v", err)
	}
}

// AddBareRemote creates a bare repository in a temporary directory and
// registers it as a remote with the given name. Returns the bare path.
func (r *TestRepo) AddBareRemote(name string) string {
	r.t.Helper()
	dir := r.t.TempDir()

	if _, err := gogit.PlainInit(dir, true); err != nil {
		r.t.Fatalf("initializing bare remote: %v", err)
	}

	_, err := r.repo.CreateRemote(&gogitconfig.RemoteConfig{
		Name: name,
		URLs: []string{dir},
	})
	if err != nil {
		r.t.Fatalf("adding remote %s: %v", name, err)
	}

	return dir
}

// HeadSha returns the current HEAD commit SHA.
func (r *TestRepo) HeadSha() string {
	r.t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("getting HEAD: %v", err)
	}
	return head.Hash().String()
}

// HeadMessage returns the message of the HEAD commit.
func (r *TestRepo) HeadMessage() string {
	r.t.Helper()
	commit, err := r.repo.CommitObject(plumbing.NewHash(r.HeadSha()))
	if err != nil {
		r.t.Fatalf("loading HEAD commit: %v", err)
	}
	return commit.Message
}

// CommitCount returns the number of commits reachable from HEAD.
func (r *TestRepo) CommitCount() int {
	r.t.Helper()
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		r.t.Fatalf("reading log: %v", err)
	}
	n := 0
	_ = iter.ForEach(func(*object.Commit) error {
		n++
		return nil
	})
	return n
}

// TagTarget returns the commit SHA the named tag points to, peeling
// annotated tags, or an empty string if the tag does not exist.
func (r *TestRepo) TagTarget(name string) string {
	r.t.Helper()
	return refTarget(r.t, r.repo, "refs/tags/"+name)
}

// IsAnnotatedTag reports whether the named tag is an annotated tag object.
func (r *TestRepo) IsAnnotatedTag(name string) bool {
	r.t.Helper()
	ref, err := r.repo.Tag(name)
	if err != nil {
		r.t.Fatalf("looking up tag %s: %v", name, err)
	}
	_, err = r.repo.TagObject(ref.Hash())
	return err == nil
}

// RemoteRef returns the commit a ref points to in the bare repository at
// dir, or an empty string if the ref does not exist.
func RemoteRef(t testing.TB, dir, ref string) string {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("opening %s: %v", dir, err)
	}
	return refTarget(t, repo, ref)
}

func refTarget(t testing.TB, repo *gogit.Repository, name string) string {
	t.Helper()
	ref, err := repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		return ""
	}
	if tag, err := repo.TagObject(ref.Hash()); err == nil {
		return tag.Target.String()
	}
	return ref.Hash().String()
}
