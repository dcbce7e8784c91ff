// Package gitstatus reads the staged (index) changes of a working copy using
// go-git.
package gitstatus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrBareRepository is returned when the repository has no worktree.
var ErrBareRepository = errors.New("repository has no worktree")

// Change is one staged path with its index status code (A, M, D, R, C, U).
type Change struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// Repository wraps a go-git repository opened from anywhere inside its
// worktree.
type Repository struct {
	repo      *git.Repository
	wt        *git.Worktree
	root      string
	gitDir    string
	commonDir string
	hooksDir  string
}

// Open finds the repository enclosing dir by walking up to the nearest .git.
func Open(dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("GIT_OPEN: %w", err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("GIT_OPEN: %s: %w", abs, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, fmt.Errorf("GIT_OPEN: %s: %w", abs, ErrBareRepository)
		}
		return nil, fmt.Errorf("GIT_OPEN: %w", err)
	}
	root := filepath.Clean(wt.Filesystem.Root())
	gitDir := filepath.Join(root, git.GitDirName)
	if st, ok := repo.Storer.(*filesystem.Storage); ok {
		gitDir = st.Filesystem().Root()
	}
	commonDir, err := readCommonDir(gitDir)
	if err != nil {
		return nil, fmt.Errorf("GIT_OPEN: %w", err)
	}
	r := &Repository{repo: repo, wt: wt, root: root, gitDir: gitDir, commonDir: commonDir}
	if r.hooksDir, err = r.resolveHooksDir(); err != nil {
		return nil, fmt.Errorf("GIT_CONFIG: %w", err)
	}
	return r, nil
}

// Root is the absolute worktree root.
func (r *Repository) Root() string { return r.root }

// GitDir is the per-worktree git directory. For a linked worktree this is
// .git/worktrees/<name> of the main repository.
func (r *Repository) GitDir() string { return r.gitDir }

// CommonDir is the git directory shared by every worktree of the repository.
func (r *Repository) CommonDir() string { return r.commonDir }

// HooksDir is the directory git runs hooks from: core.hooksPath when set,
// otherwise hooks/ under the common directory.
func (r *Repository) HooksDir() string { return r.hooksDir }

// readCommonDir follows the commondir file git writes into linked worktree
// directories.
func readCommonDir(gitDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gitDir, nil
		}
		return "", err
	}
	dir := strings.TrimSpace(string(data))
	if dir == "" {
		return gitDir, nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitDir, dir)
	}
	return filepath.Clean(dir), nil
}

func (r *Repository) resolveHooksDir() (string, error) {
	local, err := r.repo.Config()
	if err != nil {
		return "", err
	}
	hooksPath := coreHooksPath(local)
	if hooksPath == "" {
		// Local config wins; global and system are only consulted when it is
		// silent. An unreadable user config is not fatal here.
		for _, scope := range []config.Scope{config.GlobalScope, config.SystemScope} {
			if cfg, err := config.LoadConfig(scope); err == nil {
				if hooksPath = coreHooksPath(cfg); hooksPath != "" {
					break
				}
			}
		}
	}
	if hooksPath == "" {
		return filepath.Join(r.commonDir, "hooks"), nil
	}
	if hooksPath == "~" || strings.HasPrefix(hooksPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		hooksPath = filepath.Join(home, strings.TrimPrefix(hooksPath, "~"))
	}
	if !filepath.IsAbs(hooksPath) {
		// git runs hooks from the worktree root, so relative paths resolve there.
		hooksPath = filepath.Join(r.root, filepath.FromSlash(hooksPath))
	}
	return filepath.Clean(hooksPath), nil
}

func coreHooksPath(cfg *config.Config) string {
	if cfg == nil || cfg.Raw == nil {
		return ""
	}
	return strings.TrimSpace(cfg.Raw.Section("core").Option("hooksPath"))
}

// Changes returns every path whose index entry differs from HEAD, sorted by
// path. Untracked and worktree-only changes are excluded.
func (r *Repository) Changes() ([]Change, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("GIT_STATUS: %w", err)
	}
	changes := []Change{}
	for path, st := range status {
		if !isStaged(st.Staging) {
			continue
		}
		changes = append(changes, Change{Path: path, Status: string(st.Staging)})
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

// Staged returns the root-relative, slash-separated staged paths.
func (r *Repository) Staged() ([]string, error) {
	changes, err := r.Changes()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, c.Path)
	}
	return paths, nil
}

func isStaged(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied, git.UpdatedButUnmerged:
		return true
	default:
		return false
	}
}
