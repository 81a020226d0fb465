package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// UpdateLockfile sets the version recorded in the npm lockfile next to the
// manifest: the top-level version field and packages[""].version. It returns
// the lockfile path, or an empty string when there is no lockfile.
func UpdateLockfile(dir, version string) (string, error) {
	path := filepath.Join(dir, LockFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	lock, err := Load(path)
	if err != nil {
		return "", err
	}

	if _, ok := lock.doc.Get("version"); ok {
		if err := lock.SetVersion(version); err != nil {
			return "", err
		}
	}

	packages, found, err := lock.doc.GetObject("packages")
	if err != nil {
		return "", fmt.Errorf("%s: %w", LockFileName, err)
	}
	if found {
		root, rootFound, err := packages.GetObject("")
		if err != nil {
			return "", fmt.Errorf("%s: %w", LockFileName, err)
		}
		if rootFound {
			if _, ok := root.Get("version"); ok {
				if err := root.Set("version", version); err != nil {
					return "", err
				}
				if err := packages.Set("", root); err != nil {
					return "", err
				}
				if err := lock.doc.Set("packages", packages); err != nil {
					return "", err
				}
			}
		}
	}

	if err := lock.Save(); err != nil {
		return "", err
	}
	return path, nil
}
