package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateUserConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", RepoConfigFile)
	cfg := DefaultConfig()
	cfg.Types = map[string]string{"feature": "feat"}
	cfg.Resolve.CacheManifests = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Types["feature"] != "feat" || !loaded.Resolve.CacheManifests {
		t.Fatalf("unexpected config %+v", loaded)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), RepoConfigFile)
	writeFile(t, path, "[resolve]\nunresolved_name = \"skip\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Version != SchemaVersion || cfg.Logging.Level != "info" || cfg.Resolve.Policy != "manifest-and-glob" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Resolve.UnresolvedName != "skip" || cfg.Resolve.CacheSize != defaultCacheSize {
		t.Fatalf("unexpected resolve config: %+v", cfg.Resolve)
	}
}

func TestLoadKeepsExplicitZeroCacheSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), RepoConfigFile)
	writeFile(t, path, "[resolve]\ncache_manifests = true\ncache_size = 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Resolve.CacheSize != 0 || !cfg.Resolve.CacheManifests {
		t.Fatalf("explicit cache_size = 0 was rewritten: %+v", cfg.Resolve)
	}
	if got := Normalize(Config{}).Resolve.CacheSize; got != 0 {
		t.Fatalf("Normalize must not invent a cache size, got %d", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
	}{
		{"bad toml", "version = ", "CFG_PARSE"},
		{"bad version", "version = 2\n", "CFG_VERSION"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "CFG_LOGGING"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "CFG_LOGGING"},
		{"bad policy", "[resolve]\npolicy = \"nearest\"\n", "CFG_RESOLVE"},
		{"negative cache", "[resolve]\ncache_size = -1\n", "CFG_RESOLVE"},
		{"bad alias", "[types]\nwip = \"wip\"\n", "CFG_TYPES"},
		{"bad min version", "min_version = \"latest\"\n", "CFG_MIN_VERSION"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), RepoConfigFile)
			writeFile(t, path, tc.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.code) {
				t.Fatalf("expected %s error, got %v", tc.code, err)
			}
		})
	}
}

func TestCheckMinVersion(t *testing.T) {
	cfg := Normalize(Config{MinVersion: "1.2.0"})
	if cfg.MinVersion != "v1.2.0" {
		t.Fatalf("MinVersion = %q", cfg.MinVersion)
	}
	if err := CheckMinVersion(cfg, "v1.1.9"); err == nil {
		t.Fatal("expected older binary to be rejected")
	}
	if err := CheckMinVersion(cfg, "1.2.0"); err != nil {
		t.Fatalf("equal version rejected: %v", err)
	}
	if err := CheckMinVersion(cfg, "dev"); err != nil {
		t.Fatalf("dev build rejected: %v", err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	userDir := isolateUserConfig(t)
	repo := t.TempDir()

	cfg, path, err := Resolve("", repo)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "" || cfg.Logging.Level != "info" {
		t.Fatalf("expected defaults, got path=%q cfg=%+v", path, cfg)
	}

	userPath := filepath.Join(userDir, "commitscope", "config.toml")
	writeFile(t, userPath, "[logging]\nlevel = \"warn\"\n")
	cfg, path, err = Resolve("", repo)
	if err != nil || path != userPath || cfg.Logging.Level != "warn" {
		t.Fatalf("expected user config, got path=%q level=%q err=%v", path, cfg.Logging.Level, err)
	}

	writeFile(t, RepoConfigPath(repo), "[logging]\nlevel = \"debug\"\n")
	cfg, path, err = Resolve("", repo)
	if err != nil || path != RepoConfigPath(repo) || cfg.Logging.Level != "debug" {
		t.Fatalf("expected repo config, got path=%q level=%q err=%v", path, cfg.Logging.Level, err)
	}

	explicit := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, explicit, "[logging]\nlevel = \"error\"\n")
	cfg, path, err = Resolve(explicit, repo)
	if err != nil || path != explicit || cfg.Logging.Level != "error" {
		t.Fatalf("expected explicit config, got path=%q level=%q err=%v", path, cfg.Logging.Level, err)
	}
}

func TestResolveExplicitMissing(t *testing.T) {
	isolateUserConfig(t)
	if _, _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml"), ""); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestResolveInvalidRepoConfig(t *testing.T) {
	isolateUserConfig(t)
	repo := t.TempDir()
	writeFile(t, RepoConfigPath(repo), "version = 9\n")
	if _, _, err := Resolve("", repo); err == nil {
		t.Fatal("expected invalid repo config to surface")
	}
}
