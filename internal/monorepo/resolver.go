package monorepo

import (
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"commitscope/internal/glob"
	"commitscope/internal/manifest"
)

type cachedManifest struct {
	m  manifest.Manifest
	ok bool
}

// Session resolves a batch of changed files. Manifests may be memoized for the
// lifetime of one session; a new session always starts from disk.
type Session struct {
	mono  *Monorepo
	cache *lru.Cache[string, cachedManifest]
}

// NewSession starts a resolution session.
func (m *Monorepo) NewSession() *Session {
	s := &Session{mono: m}
	if m != nil && m.opts.CacheSize > 0 {
		if c, err := lru.New[string, cachedManifest](m.opts.CacheSize); err == nil {
			s.cache = c
		}
	}
	return s
}

// Scopes returns the sorted, deduplicated package names owning changed. It is
// empty when no monorepo is configured.
func (m *Monorepo) Scopes(changed []string) []string {
	return m.NewSession().Scopes(changed)
}

// Resolve returns the package owning a single changed file.
func (m *Monorepo) Resolve(changed string) (string, bool) {
	return m.NewSession().Resolve(changed)
}

// Scopes resolves every path in changed.
func (s *Session) Scopes(changed []string) []string {
	scopes := []string{}
	if !s.mono.Configured() {
		return scopes
	}
	seen := map[string]struct{}{}
	for _, p := range changed {
		name, ok := s.Resolve(p)
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		scopes = append(scopes, name)
	}
	sort.Strings(scopes)
	return scopes
}

// Resolve walks from the file's parent directory towards the repository root
// and returns the name of the nearest package. The root itself is never a
// package.
func (s *Session) Resolve(changed string) (string, bool) {
	m := s.mono
	if !m.Configured() {
		return "", false
	}
	rel := glob.Normalize(changed)
	if rel == "" || rel == ".." || strings.HasPrefix(rel, "../") || filepath.IsAbs(changed) {
		return "", false
	}
	policy := m.opts.Policy

	dir := filepath.Dir(filepath.Join(m.Root, filepath.FromSlash(rel)))
	for dir != m.Root {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		if man, ok := s.manifest(dir); ok {
			dirRel, err := filepath.Rel(m.Root, dir)
			if err != nil {
				return "", false
			}
			if policy.Mode == ModeManifestOnly || m.matcher.Match(dirRel) {
				if name, ok := man.ScopeName(); ok {
					m.logger.Debug("resolved package", "path", rel, "dir", filepath.ToSlash(dirRel), "scope", name)
					return name, true
				}
				m.logger.Debug("package name not usable", "dir", filepath.ToSlash(dirRel), "name", man.Name)
				if policy.Unresolved == UnresolvedStop {
					return "", false
				}
			}
		}
		dir = parent
	}
	return "", false
}

func (s *Session) manifest(dir string) (manifest.Manifest, bool) {
	if s.cache != nil {
		if c, ok := s.cache.Get(dir); ok {
			return c.m, c.ok
		}
	}
	man, ok := manifest.Read(dir)
	if s.cache != nil {
		s.cache.Add(dir, cachedManifest{m: man, ok: ok})
	}
	return man, ok
}
