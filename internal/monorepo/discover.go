package monorepo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"commitscope/internal/manifest"
)

// Package is a directory the resolver would accept as a scope owner.
type Package struct {
	Name     string `json:"name"`
	Declared string `json:"declared"`
	Dir      string `json:"dir"`
}

// Packages expands the configured globs and lists every package directory,
// sorted by directory. Directories under node_modules are never packages.
func (m *Monorepo) Packages() ([]Package, error) {
	out := []Package{}
	if !m.Configured() {
		return out, nil
	}
	fsys := os.DirFS(m.Root)
	seen := map[string]struct{}{}
	for _, pattern := range m.matcher.Includes() {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("MONO_GLOB: expand %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if _, dup := seen[rel]; dup || inNodeModules(rel) || !m.matcher.Match(rel) {
				continue
			}
			dir := filepath.Join(m.Root, filepath.FromSlash(rel))
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				continue
			}
			seen[rel] = struct{}{}
			man, ok := manifest.Read(dir)
			if !ok {
				continue
			}
			name, ok := man.ScopeName()
			if !ok {
				continue
			}
			out = append(out, Package{Name: name, Declared: man.Name, Dir: rel})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out, nil
}

func inNodeModules(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if seg == "node_modules" {
			return true
		}
	}
	return false
}
