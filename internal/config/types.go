package config

// Config is the v1 schema of .commitscope.toml.
type Config struct {
	Version    int               `toml:"version" json:"version"`
	MinVersion string            `toml:"min_version,omitempty" json:"minVersion,omitempty"`
	Logging    LoggingConfig     `toml:"logging" json:"logging"`
	Resolve    ResolveConfig     `toml:"resolve" json:"resolve"`
	Types      map[string]string `toml:"types,omitempty" json:"types,omitempty"`
}

type LoggingConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
}

// ResolveConfig tunes the package resolver.
type ResolveConfig struct {
	Policy         string `toml:"policy" json:"policy"`
	UnresolvedName string `toml:"unresolved_name" json:"unresolvedName"`
	CacheManifests bool   `toml:"cache_manifests" json:"cacheManifests"`
	// CacheSize defaults to 256 when the key is absent. 0 keeps the cache off
	// even with cache_manifests set.
	CacheSize      int    `toml:"cache_size" json:"cacheSize"`
}
