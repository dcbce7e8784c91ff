package config

const (
	SchemaVersion = 1

	defaultCacheSize = 256
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Resolve: ResolveConfig{
			Policy:         "manifest-and-glob",
			UnresolvedName: "stop",
			CacheSize:      defaultCacheSize,
		},
	}
}
