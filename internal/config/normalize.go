package config

import "strings"

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Resolve.Policy == "" {
		cfg.Resolve.Policy = "manifest-and-glob"
	}
	if cfg.Resolve.UnresolvedName == "" {
		cfg.Resolve.UnresolvedName = "stop"
	}
	cfg.MinVersion = strings.TrimSpace(cfg.MinVersion)
	if cfg.MinVersion != "" && !strings.HasPrefix(cfg.MinVersion, "v") {
		cfg.MinVersion = "v" + cfg.MinVersion
	}
	return cfg
}
