package monorepo

import "fmt"

// WalkMode decides what makes an ancestor directory a package boundary.
type WalkMode string

const (
	// ModeManifestAndGlob requires a manifest and a match against the
	// configured package globs.
	ModeManifestAndGlob WalkMode = "manifest-and-glob"
	// ModeManifestOnly treats any directory holding a manifest as a package.
	ModeManifestOnly WalkMode = "manifest-only"
)

// UnresolvedName decides what happens when a package directory is found but
// its manifest name cannot be normalized (for example "@org/").
type UnresolvedName string

const (
	// UnresolvedStop ends the walk; the file belongs to no package.
	UnresolvedStop UnresolvedName = "stop"
	// UnresolvedSkip keeps walking towards the root.
	UnresolvedSkip UnresolvedName = "skip"
)

// Policy is the ancestor-walk configuration.
type Policy struct {
	Mode       WalkMode
	Unresolved UnresolvedName
}

func DefaultPolicy() Policy {
	return Policy{Mode: ModeManifestAndGlob, Unresolved: UnresolvedStop}
}

// ParsePolicy validates the textual forms used in configuration files. Empty
// values take the defaults.
func ParsePolicy(mode, unresolved string) (Policy, error) {
	p := Policy{Mode: WalkMode(mode), Unresolved: UnresolvedName(unresolved)}.normalized()
	switch p.Mode {
	case ModeManifestAndGlob, ModeManifestOnly:
	default:
		return Policy{}, fmt.Errorf("unknown walk policy %q", mode)
	}
	switch p.Unresolved {
	case UnresolvedStop, UnresolvedSkip:
	default:
		return Policy{}, fmt.Errorf("unknown unresolved-name policy %q", unresolved)
	}
	return p, nil
}

func (p Policy) normalized() Policy {
	if p.Mode == "" {
		p.Mode = ModeManifestAndGlob
	}
	if p.Unresolved == "" {
		p.Unresolved = UnresolvedStop
	}
	return p
}
