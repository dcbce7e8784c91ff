package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"commitscope/internal/fsutil"
)

func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	// Seeded before decoding so an absent cache_size differs from an explicit 0.
	cfg := Config{Resolve: ResolveConfig{CacheSize: defaultCacheSize}}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("CFG_PARSE: %s: %w", path, err)
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve picks the effective config. An explicit path must exist. Otherwise
// the repository file wins over the user file, and defaults apply when neither
// exists. The returned path is empty for defaults.
func Resolve(explicit, repoRoot string) (Config, string, error) {
	if explicit != "" {
		path, err := ExpandPath(explicit)
		if err != nil {
			return Config{}, "", err
		}
		cfg, err := Load(path)
		if err != nil {
			return Config{}, "", fmt.Errorf("CFG_LOAD: %w", err)
		}
		return cfg, path, nil
	}
	candidates := []string{}
	if repoRoot != "" {
		candidates = append(candidates, RepoConfigPath(repoRoot))
	}
	candidates = append(candidates, DefaultConfigPath())
	for _, path := range candidates {
		cfg, err := Load(path)
		if err == nil {
			return cfg, path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, "", err
		}
	}
	return DefaultConfig(), "", nil
}

func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg = Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return err
	}

	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	blob, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("CFG_ENCODE: %w", err)
	}
	return fsutil.AtomicWrite(path, blob, 0o644)
}
