package git

import "context"

// Repository provides the git operations a release needs.
// This is the key abstraction point for testing and backend swapping.
type Repository interface {
	// WorkingDirectory returns the path to the working directory.
	WorkingDirectory() string

	// UncommittedChanges returns the worktree-relative paths of every
	// modified, staged or untracked file. An empty result means clean.
	UncommittedChanges() ([]string, error)

	// CurrentBranch returns the branch HEAD points to. A detached HEAD is
	// an error.
	CurrentBranch() (Branch, error)

	// TagExists reports whether a tag with the given short name exists.
	TagExists(name string) (bool, error)

	// IsTracked reports whether path is in the index. Untracked and ignored
	// files are not. Paths may be absolute or relative to the working
	// directory.
	IsTracked(path string) (bool, error)

	// Add stages the given paths. Paths may be absolute or relative to the
	// working directory.
	Add(paths ...string) error

	// Commit records the staged changes and returns the new commit SHA.
	Commit(message string) (string, error)

	// CreateTag tags HEAD. An empty message creates a lightweight tag,
	// anything else an annotated one.
	CreateTag(name, message string) error

	// RemoteURL returns the first configured URL of the named remote.
	RemoteURL(name string) (string, error)

	// PushBranch pushes the local branch to the same name on the remote.
	PushBranch(ctx context.Context, remote string, branch Branch) error

	// PushTags pushes every local tag to the remote.
	PushTags(ctx context.Context, remote string) error
}
