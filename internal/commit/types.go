// Package commit maps type hints to conventional-commit types and renders the
// suggested commit header.
package commit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTypeHint is returned when a non-empty hint has no table entry.
var ErrUnknownTypeHint = errors.New("unknown commit type hint")

// DefaultType is used when no hint is given.
const DefaultType = "chore"

// Types lists the conventional-commit types in display order.
var Types = []string{"build", "ci", "chore", "docs", "feat", "fix", "perf", "refactor", "revert", "style", "test"}

var builtinHints = map[string]string{
	"b":  "build",
	"ci": "ci",
	"c":  "chore",
	"d":  "docs",
	"f":  "feat",
	"x":  "fix",
	"p":  "perf",
	"r":  "refactor",
	"rv": "revert",
	"s":  "style",
	"t":  "test",
}

// Hint is one row of the type table.
type Hint struct {
	Hint string `json:"hint"`
	Type string `json:"type"`
}

// Table resolves hints. The zero value is not usable; build one with NewTable.
type Table struct {
	hints map[string]string
}

// NewTable returns the builtin table extended with aliases. Every full type
// word is also accepted as its own hint. Alias targets must be known types.
func NewTable(aliases map[string]string) (*Table, error) {
	t := &Table{hints: make(map[string]string, len(builtinHints)+len(Types)+len(aliases))}
	for _, typ := range Types {
		t.hints[typ] = typ
	}
	for h, typ := range builtinHints {
		t.hints[h] = typ
	}
	for h, typ := range aliases {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, fmt.Errorf("empty hint alias for %q", typ)
		}
		if !IsType(typ) {
			return nil, fmt.Errorf("alias %q targets unknown type %q", h, typ)
		}
		t.hints[h] = typ
	}
	return t, nil
}

// DefaultTable is the builtin table without aliases.
func DefaultTable() *Table {
	t, _ := NewTable(nil)
	return t
}

// Lookup resolves hint. An empty hint yields DefaultType.
func (t *Table) Lookup(hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return DefaultType, nil
	}
	if typ, ok := t.hints[hint]; ok {
		return typ, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTypeHint, hint)
}

// Hints returns the short hints, excluding identity entries, sorted by type
// then hint.
func (t *Table) Hints() []Hint {
	out := []Hint{}
	for h, typ := range t.hints {
		if h == typ {
			continue
		}
		out = append(out, Hint{Hint: h, Type: typ})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Hint < out[j].Hint
	})
	return out
}

// IsType reports whether typ is a conventional-commit type word.
func IsType(typ string) bool {
	for _, t := range Types {
		if t == typ {
			return true
		}
	}
	return false
}
