package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gogitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Compile-time check that GoGitRepository implements Repository.
var _ Repository = (*GoGitRepository)(nil)

// GoGitRepository implements Repository using go-git.
type GoGitRepository struct {
	repo    *gogit.Repository
	workDir string
	now     func() time.Time
}

// Open opens the git repository containing path, searching parent
// directories for the .git directory.
func Open(path string) (*GoGitRepository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	r, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening git repository at %s: %w", path, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &GoGitRepository{
		repo:    r,
		workDir: wt.Filesystem.Root(),
		now:     time.Now,
	}, nil
}

func (r *GoGitRepository) WorkingDirectory() string {
	return r.workDir
}

func (r *GoGitRepository) UncommittedChanges() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting worktree status: %w", err)
	}

	var changed []string
	for path, s := range status {
		if s.Staging != gogit.Unmodified || s.Worktree != gogit.Unmodified {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)

	return changed, nil
}

func (r *GoGitRepository) CurrentBranch() (Branch, error) {
	// Read HEAD without resolving it so an unborn branch still has a name.
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return Branch{}, fmt.Errorf("reading HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return Branch{}, ErrDetachedHead
	}

	target := head.Target()
	if !target.IsBranch() {
		return Branch{}, fmt.Errorf("HEAD points to %s: %w", target, ErrDetachedHead)
	}

	branch := Branch{Name: NewReferenceName(string(target))}

	ref, err := r.repo.Reference(target, true)
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return branch, nil
	case err != nil:
		return Branch{}, fmt.Errorf("resolving %s: %w", target.Short(), err)
	}
	branch.TipSha = ref.Hash().String()

	return branch, nil
}

func (r *GoGitRepository) TagExists(name string) (bool, error) {
	_, err := r.repo.Tag(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gogit.ErrTagNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("looking up tag %s: %w", name, err)
	}
}

func (r *GoGitRepository) IsTracked(path string) (bool, error) {
	rel, err := r.relative(path)
	if err != nil {
		return false, err
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return false, fmt.Errorf("reading index: %w", err)
	}

	_, err = idx.Entry(rel)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, index.ErrEntryNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("looking up %s in index: %w", rel, err)
	}
}

func (r *GoGitRepository) Add(paths ...string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
	}

	return nil
}

func (r *GoGitRepository) Commit(message string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	sig, err := r.signature()
	if err != nil {
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	return hash.String(), nil
}

func (r *GoGitRepository) CreateTag(name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	var opts *gogit.CreateTagOptions
	if message != "" {
		sig, err := r.signature()
		if err != nil {
			return err
		}
		opts = &gogit.CreateTagOptions{Tagger: sig, Message: message}
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}

	return nil
}

func (r *GoGitRepository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("looking up remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", name)
	}

	return urls[0], nil
}

func (r *GoGitRepository) PushBranch(ctx context.Context, remote string, branch Branch) error {
	if !branch.Name.IsBranch() {
		return fmt.Errorf("cannot push %q: not a local branch", branch.Name.Canonical)
	}
	return r.push(ctx, remote, gogitconfig.RefSpec(branch.RefSpec()))
}

func (r *GoGitRepository) PushTags(ctx context.Context, remote string) error {
	return r.push(ctx, remote, gogitconfig.RefSpec(TagsRefSpec))
}

func (r *GoGitRepository) push(ctx context.Context, remote string, spec gogitconfig.RefSpec) error {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return err
	}

	auth, err := ResolveAuth(url)
	if err != nil {
		return err
	}

	err = r.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gogitconfig.RefSpec{spec},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing %s to %s (auth: %s): %w", spec, remote, DescribeAuth(auth), err)
	}

	return nil
}

// relative converts p into a slash-separated path relative to the
// working directory.
func (r *GoGitRepository) relative(p string) (string, error) {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	root, err := filepath.EvalSymlinks(r.workDir)
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the working directory %s", p, r.workDir)
	}

	return filepath.ToSlash(rel), nil
}

// signature builds the author identity from GIT_AUTHOR_NAME and
// GIT_AUTHOR_EMAIL, falling back to user.name and user.email from the
// local, global and system git configuration.
func (r *GoGitRepository) signature() (*object.Signature, error) {
	name := os.Getenv("GIT_AUTHOR_NAME")
	email := os.Getenv("GIT_AUTHOR_EMAIL")

	if name == "" || email == "" {
		cfg, err := r.repo.ConfigScoped(gogitconfig.SystemScope)
		if err != nil {
			return nil, fmt.Errorf("reading git config: %w", err)
		}
		if name == "" {
			name = cfg.User.Name
		}
		if email == "" {
			email = cfg.User.Email
		}
	}

	if name == "" || email == "" {
		return nil, errors.New("git author identity unknown: set user.name and user.email")
	}

	return &object.Signature{Name: name, Email: email, When: r.now()}, nil
}
