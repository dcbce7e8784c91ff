package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// RepoConfigFile is looked up at the repository root.
const RepoConfigFile = ".commitscope.toml"

func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return filepath.Join(".commitscope", "config.toml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "commitscope", "config.toml")
}

// RepoConfigPath returns the per-repository config path.
func RepoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, RepoConfigFile)
}

func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
