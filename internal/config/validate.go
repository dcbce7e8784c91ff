package config

import (
	"fmt"

	"golang.org/x/mod/semver"

	"commitscope/internal/commit"
	"commitscope/internal/logging"
	"commitscope/internal/monorepo"
)

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("CFG_VERSION: unsupported version %d", cfg.Version)
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("CFG_LOGGING: %w", err)
	}
	if _, err := logging.ParseFormat(cfg.Logging.Format); err != nil {
		return fmt.Errorf("CFG_LOGGING: %w", err)
	}
	if _, err := monorepo.ParsePolicy(cfg.Resolve.Policy, cfg.Resolve.UnresolvedName); err != nil {
		return fmt.Errorf("CFG_RESOLVE: %w", err)
	}
	if cfg.Resolve.CacheSize < 0 {
		return fmt.Errorf("CFG_RESOLVE: cache_size must not be negative")
	}
	if _, err := commit.NewTable(cfg.Types); err != nil {
		return fmt.Errorf("CFG_TYPES: %w", err)
	}
	return CheckMinVersion(cfg, Version)
}

// CheckMinVersion fails when the config demands a newer binary than current.
// Development builds without a semver version are never rejected.
func CheckMinVersion(cfg Config, current string) error {
	if cfg.MinVersion == "" {
		return nil
	}
	if !semver.IsValid(cfg.MinVersion) {
		return fmt.Errorf("CFG_MIN_VERSION: invalid version %q", cfg.MinVersion)
	}
	cur := current
	if cur != "" && cur[0] != 'v' {
		cur = "v" + cur
	}
	if !semver.IsValid(cur) {
		return nil
	}
	if semver.Compare(cur, cfg.MinVersion) < 0 {
		return fmt.Errorf("CFG_MIN_VERSION: config requires commitscope %s or newer, running %s", cfg.MinVersion, cur)
	}
	return nil
}
