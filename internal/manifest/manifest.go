// Package manifest reads and rewrites the project's JSON manifest
// (package.json) and its lockfile, preserving key order and indentation.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const (
	// DefaultFileName is the manifest looked up when none is given.
	DefaultFileName = "package.json"

	// LockFileName is the npm lockfile kept in step with the manifest.
	LockFileName = "package-lock.json"

	defaultIndent = "  "
)

// ErrNoVersion is returned when the manifest has no string version field.
var ErrNoVersion = errors.New("manifest has no version field")

var indentRegex = regexp.MustCompile(`^\{\r?\n([ \t]+)"`)

// Manifest is a JSON manifest loaded from disk.
type Manifest struct {
	path     string
	doc      *Object
	indent   string
	trailing bool
	mode     os.FileMode
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	doc, err := ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filepath.Base(path), err)
	}

	return &Manifest{
		path:     path,
		doc:      doc,
		indent:   detectIndent(data),
		trailing: bytes.HasSuffix(data, []byte("\n")),
		mode:     info.Mode().Perm(),
	}, nil
}

// detectIndent returns the indentation of the first key, falling back to two
// spaces for compact or single-line documents.
func detectIndent(data []byte) string {
	if m := indentRegex.FindSubmatch(bytes.TrimLeft(data, " \t\r\n")); m != nil {
		return string(m[1])
	}
	return defaultIndent
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return m.path
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.path)
}

// Version returns the manifest's version field.
func (m *Manifest) Version() (string, error) {
	v, ok := m.doc.GetString("version")
	if !ok {
		return "", ErrNoVersion
	}
	return v, nil
}

// SetVersion replaces the version field.
func (m *Manifest) SetVersion(version string) error {
	return m.doc.Set("version", version)
}

// Section returns the raw JSON of a top-level field, such as the easytag
// configuration section.
func (m *Manifest) Section(name string) (json.RawMessage, bool) {
	return m.doc.Get(name)
}

// SetScript sets scripts.<name> to command, creating the scripts object if
// the manifest has none.
func (m *Manifest) SetScript(name, command string) error {
	scripts, found, err := m.doc.GetObject("scripts")
	if err != nil {
		return err
	}
	if !found {
		scripts = NewObject()
	}
	if err := scripts.Set(name, command); err != nil {
		return err
	}
	return m.doc.Set("scripts", scripts)
}

// Script returns scripts.<name>, if set.
func (m *Manifest) Script(name string) (string, bool) {
	scripts, found, err := m.doc.GetObject("scripts")
	if err != nil || !found {
		return "", false
	}
	return scripts.GetString(name)
}

// Bytes renders the manifest with its original indentation.
func (m *Manifest) Bytes() ([]byte, error) {
	out, err := m.doc.MarshalIndent(m.indent)
	if err != nil {
		return nil, err
	}
	if m.trailing {
		out = append(out, '\n')
	}
	return out, nil
}

// Save writes the manifest back to its path.
func (m *Manifest) Save() error {
	out, err := m.Bytes()
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(m.path, out, m.mode); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
