package config

// Build metadata, set with -ldflags "-X commitscope/internal/config.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
