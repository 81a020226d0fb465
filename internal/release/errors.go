// Package release runs the release workflow: preflight checks, version and
// tag resolution, manifest update, commit, tag, push and publish.
package release

import "errors"

// Kind classifies why a release stopped.
type Kind int

const (
	KindUnexpected Kind = iota
	KindRepository
	KindDirtyWorkingTree
	KindInvalidAction
	KindManifestRead
	KindInvalidVersion
	KindBranchResolution
	KindInvalidConfig
	KindCommit
	KindPush
	KindManifestWrite
	KindPublish
)

func (k Kind) String() string {
	switch k {
	case KindUnexpected:
		return "unexpected"
	case KindRepository:
		return "repository"
	case KindDirtyWorkingTree:
		return "dirty-working-tree"
	case KindInvalidAction:
		return "invalid-action"
	case KindManifestRead:
		return "manifest-read"
	case KindInvalidVersion:
		return "invalid-version"
	case KindBranchResolution:
		return "branch-resolution"
	case KindInvalidConfig:
		return "invalid-config"
	case KindCommit:
		return "commit"
	case KindPush:
		return "push"
	case KindManifestWrite:
		return "manifest-write"
	case KindPublish:
		return "publish"
	default:
		return "unknown"
	}
}

// Error is a stage failure. Message describes what was being done, Err is
// the underlying cause and may be nil.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnexpected
}

func fail(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
