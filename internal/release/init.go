package release

import (
	"github.com/MyCarrier-DevOps/go-easytag/internal/manifest"
)

// Hook script registered by RegisterHook.
const (
	HookScript  = "preversion"
	HookCommand = "easytag"
)

// RegisterHook makes the manifest run easytag before npm bumps the version.
// It returns the preversion script that was replaced, if any.
func RegisterHook(manifestPath string) (string, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return "", fail(KindManifestRead, err, "could not read manifest")
	}

	previous, _ := m.Script(HookScript)

	if err := m.SetScript(HookScript, HookCommand); err != nil {
		return previous, fail(KindManifestWrite, err, "could not register "+HookScript+" script")
	}
	if err := m.Save(); err != nil {
		return previous, fail(KindManifestWrite, err, "could not write manifest")
	}

	return previous, nil
}
