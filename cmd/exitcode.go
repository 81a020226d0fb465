package cmd

import (
	"errors"

	"github.com/MyCarrier-DevOps/go-easytag/internal/release"
)

// Process exit codes. A completed release exits 200, not 0, so that npm
// aborts its own version bump when easytag runs as the preversion hook.
const (
	ExitOK             = 0
	ExitInitFailure    = 1
	ExitDirtyTree      = 101
	ExitInvalidAction  = 102
	ExitManifestRead   = 103
	ExitInvalidVersion = 104
	ExitBranch         = 105
	ExitInvalidConfig  = 106
	ExitRepository     = 107
	ExitSuccess        = 200
	ExitCommit         = 201
	ExitPush           = 202
	ExitUnexpected     = 203
	ExitManifestWrite  = 204
	ExitPublish        = 205
	ExitDryRun         = 206
)

var kindExitCodes = map[release.Kind]int{
	release.KindUnexpected:       ExitUnexpected,
	release.KindRepository:       ExitRepository,
	release.KindDirtyWorkingTree: ExitDirtyTree,
	release.KindInvalidAction:    ExitInvalidAction,
	release.KindManifestRead:     ExitManifestRead,
	release.KindInvalidVersion:   ExitInvalidVersion,
	release.KindBranchResolution: ExitBranch,
	release.KindInvalidConfig:    ExitInvalidConfig,
	release.KindCommit:           ExitCommit,
	release.KindPush:             ExitPush,
	release.KindManifestWrite:    ExitManifestWrite,
	release.KindPublish:          ExitPublish,
}

// usageError marks bad arguments or flags.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// initError marks a failed --init.
type initError struct{ err error }

func (e initError) Error() string { return e.err.Error() }
func (e initError) Unwrap() error { return e.err }

// exitCodeFor maps an error returned by the root command to an exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}

	var ie initError
	if errors.As(err, &ie) {
		return ExitInitFailure
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitInvalidAction
	}

	if code, ok := kindExitCodes[release.KindOf(err)]; ok {
		return code
	}
	return ExitUnexpected
}
