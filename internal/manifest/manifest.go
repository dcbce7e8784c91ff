// Package manifest reads package.json files and derives the scope name a
// package contributes to a commit header.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest file looked up in every candidate directory.
const FileName = "package.json"

// Manifest is the subset of package.json the resolver cares about.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Private bool   `json:"private,omitempty"`
}

// Path returns the manifest path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Read loads the manifest in dir. A missing, unreadable or malformed file, or
// one without a name, reports false.
func Read(dir string) (Manifest, bool) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return Manifest{}, false
	}
	return Parse(data)
}

// Parse decodes manifest bytes.
func Parse(data []byte) (Manifest, bool) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, false
	}
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return Manifest{}, false
	}
	return m, true
}

// ScopeName is NormalizeName applied to the declared name.
func (m Manifest) ScopeName() (string, bool) {
	return NormalizeName(m.Name)
}

// NormalizeName strips an npm scope: "@org/app" becomes "app". Unscoped names
// are returned verbatim. A scoped name with nothing after the "/" has no
// usable name.
func NormalizeName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if !strings.HasPrefix(name, "@") {
		return name, true
	}
	_, rest, ok := strings.Cut(name, "/")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
