package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"commitscope/internal/commit"
	"commitscope/internal/config"
	"commitscope/internal/doctor"
	"commitscope/internal/gitstatus"
	"commitscope/internal/hook"
	"commitscope/internal/logging"
	"commitscope/internal/monorepo"
)

type Options struct {
	// Dir is any directory inside the working copy; defaults to the cwd.
	Dir        string
	ConfigPath string
	// LogLevel overrides the configured level when set.
	LogLevel  string
	LogOutput io.Writer
	Logger    *log.Logger
	// TolerateConfigErrors falls back to defaults on a broken config file
	// and records the error in ConfigErr instead of failing.
	TolerateConfigErrors bool
}

type Service struct {
	Root       string
	GitDir     string
	HooksDir   string
	ConfigPath string
	Config     config.Config
	ConfigErr  error

	Repo     *gitstatus.Repository
	Monorepo *monorepo.Monorepo
	Types    *commit.Table
	Logger   *log.Logger

	closer io.Closer
}

func New(opts Options) (*Service, error) {
	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("APP_CWD: %w", err)
		}
		dir = cwd
	}
	repo, err := gitstatus.Open(dir)
	if err != nil {
		return nil, err
	}

	cfg, cfgPath, cfgErr := config.Resolve(opts.ConfigPath, repo.Root())
	if cfgErr != nil {
		if !opts.TolerateConfigErrors {
			return nil, cfgErr
		}
		cfg = config.DefaultConfig()
	}

	logger := opts.Logger
	var closer io.Closer
	if logger == nil {
		level := cfg.Logging.Level
		if opts.LogLevel != "" {
			level = opts.LogLevel
		}
		logger, closer, err = logging.New(logging.Options{Level: level, Format: cfg.Logging.Format, Output: opts.LogOutput})
		if err != nil {
			return nil, err
		}
	}

	types, err := commit.NewTable(cfg.Types)
	if err != nil {
		return nil, fmt.Errorf("CFG_TYPES: %w", err)
	}
	policy, err := monorepo.ParsePolicy(cfg.Resolve.Policy, cfg.Resolve.UnresolvedName)
	if err != nil {
		return nil, fmt.Errorf("CFG_RESOLVE: %w", err)
	}
	cacheSize := 0
	if cfg.Resolve.CacheManifests {
		cacheSize = cfg.Resolve.CacheSize
	}
	mono, err := monorepo.Detect(repo.Root(), monorepo.Options{Policy: policy, CacheSize: cacheSize, Logger: logger})
	if err != nil {
		return nil, err
	}
	if cfgErr != nil {
		logger.Warn("config ignored", "err", cfgErr)
	}
	logger.Debug("session ready", "root", repo.Root(), "config", cfgPath, "monorepo", mono.Kind)

	return &Service{
		Root:       repo.Root(),
		GitDir:     repo.GitDir(),
		HooksDir:   repo.HooksDir(),
		ConfigPath: cfgPath,
		Config:     cfg,
		ConfigErr:  cfgErr,
		Repo:       repo,
		Monorepo:   mono,
		Types:      types,
		Logger:     logger,
		closer:     closer,
	}, nil
}

// Close releases the debug log file, if one was opened.
func (s *Service) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// CommitScopes resolves the given paths. Relative paths are taken against the
// repository root; absolute paths must lie inside it.
func (s *Service) CommitScopes(paths []string) ([]string, error) {
	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := s.rootRelative(p)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return s.Monorepo.Scopes(rels), nil
}

func (s *Service) rootRelative(p string) (string, error) {
	rel := filepath.Clean(p)
	if filepath.IsAbs(rel) {
		r, err := filepath.Rel(s.Root, rel)
		if err != nil {
			return "", fmt.Errorf("APP_PATH: %s: %w", p, err)
		}
		rel = r
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("APP_PATH: %s is outside the repository %s", p, s.Root)
	}
	return filepath.ToSlash(rel), nil
}

// StagedScopes resolves the paths currently staged in the index.
func (s *Service) StagedScopes() ([]string, error) {
	if !s.Monorepo.Configured() {
		return []string{}, nil
	}
	staged, err := s.Repo.Staged()
	if err != nil {
		return nil, err
	}
	scopes := s.Monorepo.Scopes(staged)
	s.Logger.Debug("staged scopes", "files", len(staged), "scopes", scopes)
	return scopes, nil
}

// Suggestion is a resolved commit header.
type Suggestion struct {
	Type    string   `json:"type"`
	Scopes  []string `json:"scopes"`
	Message string   `json:"message"`
}

// Suggest resolves hint and the staged scopes. The hint is checked before
// touching the repository.
func (s *Service) Suggest(hint string) (Suggestion, error) {
	typ, err := s.Types.Lookup(hint)
	if err != nil {
		return Suggestion{}, err
	}
	scopes, err := s.StagedScopes()
	if err != nil {
		return Suggestion{}, err
	}
	msg, err := s.Types.Format(hint, scopes)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{Type: typ, Scopes: scopes, Message: msg}, nil
}

// SuggestedCommit renders the commit header for the staged changes.
func (s *Service) SuggestedCommit(hint string) (string, error) {
	sg, err := s.Suggest(hint)
	if err != nil {
		return "", err
	}
	return sg.Message, nil
}

// PrepareCommitMessage is the prepare-commit-msg hook body.
func (s *Service) PrepareCommitMessage(file, source string) (bool, error) {
	scopes, err := s.StagedScopes()
	if err != nil {
		return false, err
	}
	changed, err := hook.Prepare(file, source, scopes)
	if err != nil {
		return false, err
	}
	s.Logger.Debug("commit message prepared", "file", file, "source", source, "changed", changed)
	return changed, nil
}

func (s *Service) Packages() ([]monorepo.Package, error) {
	return s.Monorepo.Packages()
}

func (s *Service) InstallHook(command string, force bool) (string, error) {
	return hook.Install(s.HooksDir, command, force)
}

func (s *Service) UninstallHook() (bool, error) {
	return hook.Uninstall(s.HooksDir)
}

func (s *Service) Doctor() doctor.Report {
	d := &doctor.Service{
		Root:       s.Root,
		HooksDir:   s.HooksDir,
		ConfigPath: s.ConfigPath,
		ConfigErr:  s.ConfigErr,
		Monorepo:   s.Monorepo,
	}
	return d.Run()
}
