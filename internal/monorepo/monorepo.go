// Package monorepo detects the workspace tooling configured at a repository
// root and maps changed files to the packages that own them.
package monorepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"commitscope/internal/glob"
	"commitscope/internal/manifest"
)

// Kind identifies which descriptor configured the monorepo.
type Kind string

const (
	KindNone       Kind = "none"
	KindLerna      Kind = "lerna"
	KindPnpm       Kind = "pnpm"
	KindWorkspaces Kind = "workspaces"
)

const (
	lernaFile = "lerna.json"
	pnpmFile  = "pnpm-workspace.yaml"
)

// errUnparseable marks a descriptor that exists but cannot be decoded. Such a
// descriptor degrades to KindNone; any other read failure is returned.
var errUnparseable = errors.New("unparseable descriptor")

// lerna falls back to this when lerna.json omits "packages".
var defaultLernaPackages = []string{"packages/*"}

// Options tunes resolution for every session a Monorepo starts.
type Options struct {
	Policy Policy
	// CacheSize enables per-session manifest memoization when positive.
	CacheSize int
	Logger    *log.Logger
}

// Monorepo is the detected configuration for one repository root. A Monorepo
// of KindNone never produces scopes.
type Monorepo struct {
	Kind       Kind
	Root       string
	Descriptor string
	Patterns   []string

	matcher *glob.Matcher
	opts    Options
	logger  *log.Logger
}

type lernaConfig struct {
	Packages      *[]string `json:"packages"`
	UseWorkspaces bool      `json:"useWorkspaces"`
}

type pnpmConfig struct {
	Packages []string `yaml:"packages"`
}

type rootPackage struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

// Detect inspects root for a monorepo descriptor. Descriptors are tried in the
// order lerna.json, pnpm-workspace.yaml, package.json workspaces; the first
// one present decides the outcome. An unparseable descriptor or malformed glob
// degrades to KindNone. An unreadable root or descriptor is an error.
func Detect(root string, opts Options) (*Monorepo, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("MONO_ROOT: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("MONO_ROOT: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("MONO_ROOT: %s is not a directory", abs)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.Policy = opts.Policy.normalized()

	m := &Monorepo{Kind: KindNone, Root: filepath.Clean(abs), opts: opts, logger: opts.Logger}

	kind, descriptor, patterns, err := readDescriptor(m.Root)
	if err != nil {
		if !errors.Is(err, errUnparseable) {
			return nil, fmt.Errorf("MONO_READ: %s: %w", descriptor, err)
		}
		m.logger.Debug("monorepo descriptor ignored", "descriptor", descriptor, "err", err)
		return m, nil
	}
	if kind == KindNone {
		m.logger.Debug("no monorepo descriptor", "root", m.Root)
		return m, nil
	}
	matcher, err := glob.Compile(patterns)
	if err != nil {
		m.logger.Debug("monorepo globs ignored", "descriptor", descriptor, "err", err)
		return m, nil
	}
	m.Kind = kind
	m.Descriptor = descriptor
	m.Patterns = patterns
	m.matcher = matcher
	m.logger.Debug("monorepo detected", "kind", kind, "descriptor", descriptor, "packages", patterns)
	return m, nil
}

// Configured reports whether a valid descriptor was found.
func (m *Monorepo) Configured() bool {
	return m != nil && m.Kind != KindNone
}

// Policy returns the resolution policy in effect.
func (m *Monorepo) Policy() Policy {
	if m == nil {
		return DefaultPolicy()
	}
	return m.opts.Policy
}

func readDescriptor(root string) (Kind, string, []string, error) {
	if data, ok, err := readOptional(filepath.Join(root, lernaFile)); err != nil {
		return KindNone, lernaFile, nil, err
	} else if ok {
		var cfg lernaConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return KindNone, lernaFile, nil, fmt.Errorf("%w: %s: %w", errUnparseable, lernaFile, err)
		}
		switch {
		case cfg.Packages != nil:
			return KindLerna, lernaFile, *cfg.Packages, nil
		case cfg.UseWorkspaces:
			patterns, ok, err := readWorkspaces(root)
			if err != nil {
				return KindNone, lernaFile, nil, err
			}
			if ok {
				return KindLerna, lernaFile, patterns, nil
			}
		}
		return KindLerna, lernaFile, defaultLernaPackages, nil
	}

	if data, ok, err := readOptional(filepath.Join(root, pnpmFile)); err != nil {
		return KindNone, pnpmFile, nil, err
	} else if ok {
		var cfg pnpmConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return KindNone, pnpmFile, nil, fmt.Errorf("%w: %s: %w", errUnparseable, pnpmFile, err)
		}
		return KindPnpm, pnpmFile, cfg.Packages, nil
	}

	patterns, ok, err := readWorkspaces(root)
	if err != nil {
		return KindNone, manifest.FileName, nil, err
	}
	if ok {
		return KindWorkspaces, manifest.FileName, patterns, nil
	}
	return KindNone, "", nil, nil
}

// readWorkspaces extracts the "workspaces" globs of the root package.json in
// either the array or the {"packages": [...]} form.
func readWorkspaces(root string) ([]string, bool, error) {
	data, ok, err := readOptional(manifest.Path(root))
	if err != nil || !ok {
		return nil, false, err
	}
	var pkg rootPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", errUnparseable, manifest.FileName, err)
	}
	if len(pkg.Workspaces) == 0 || string(pkg.Workspaces) == "null" {
		return nil, false, nil
	}
	var list []string
	if err := json.Unmarshal(pkg.Workspaces, &list); err == nil {
		return list, true, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(pkg.Workspaces, &obj); err != nil {
		return nil, false, fmt.Errorf("%w: %s workspaces: %w", errUnparseable, manifest.FileName, err)
	}
	return obj.Packages, true, nil
}

func readOptional(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
