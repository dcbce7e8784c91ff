// Package glob matches repository-relative directory paths against workspace
// package patterns such as "packages/*" or "!**/test/**".
package glob

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is returned by Compile for a pattern doublestar cannot parse.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// Matcher holds compiled inclusion and exclusion patterns.
type Matcher struct {
	include []string
	exclude []string
}

// Compile validates patterns and returns a Matcher. Patterns prefixed with "!"
// exclude paths that an inclusion pattern would otherwise match.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		negated := strings.HasPrefix(p, "!")
		if negated {
			p = p[1:]
		}
		p = cleanPattern(p)
		if p == "" {
			return nil, fmt.Errorf("%w: %q is empty", ErrInvalidPattern, raw)
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
		}
		if negated {
			m.exclude = append(m.exclude, p)
		} else {
			m.include = append(m.include, p)
		}
	}
	return m, nil
}

// Match reports whether rel, a path relative to the repository root, is
// selected by the matcher. Wildcards never cross a path separator.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}
	rel = Normalize(rel)
	if rel == "" {
		return false
	}
	matched := false
	for _, p := range m.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, p := range m.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	return true
}

// Includes returns the inclusion patterns in declaration order.
func (m *Matcher) Includes() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.include...)
}

// Excludes returns the exclusion patterns, without their "!" prefix.
func (m *Matcher) Excludes() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.exclude...)
}

// Normalize converts a host path to the slash-separated, cleaned form the
// patterns are written against. "." and "" both normalize to "".
func Normalize(rel string) string {
	rel = path.Clean(filepath.ToSlash(rel))
	rel = strings.TrimPrefix(rel, "./")
	if rel == "." || rel == "/" {
		return ""
	}
	return rel
}

func cleanPattern(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, "/")
	return p
}
