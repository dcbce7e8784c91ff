package hook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"commitscope/internal/fsutil"
)

// HookName is the git hook commitscope installs.
const HookName = "prepare-commit-msg"

// ErrUnmanagedHook is returned when a hook not written by commitscope is in
// the way.
var ErrUnmanagedHook = errors.New("existing hook is not managed by commitscope")

// State describes what is installed at the hook path.
type State string

const (
	StateMissing   State = "missing"
	StateManaged   State = "managed"
	StateUnmanaged State = "unmanaged"
)

// Path returns the hook script location inside hooksDir, the directory git
// runs hooks from.
func Path(hooksDir string) string {
	return filepath.Join(hooksDir, HookName)
}

// Inspect reports the hook state.
func Inspect(hooksDir string) (State, error) {
	data, err := os.ReadFile(Path(hooksDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StateMissing, nil
		}
		return "", fmt.Errorf("HOOK_READ: %w", err)
	}
	if fsutil.IsManagedFile(data) {
		return StateManaged, nil
	}
	return StateUnmanaged, nil
}

// Script renders the hook body that forwards to command.
func Script(command string) string {
	return "#!/bin/sh\n" +
		fsutil.ManagedMarkerLine + "\n" +
		"exec " + shellQuote(command) + " hook \"$@\"\n"
}

// Install writes the hook. An unmanaged hook is only replaced when force is
// set.
func Install(hooksDir, command string, force bool) (string, error) {
	state, err := Inspect(hooksDir)
	if err != nil {
		return "", err
	}
	if state == StateUnmanaged && !force {
		return "", fmt.Errorf("HOOK_EXISTS: %s: %w", Path(hooksDir), ErrUnmanagedHook)
	}
	path := Path(hooksDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("HOOK_DIR: %w", err)
	}
	if err := fsutil.AtomicWrite(path, []byte(Script(command)), 0o755); err != nil {
		return "", fmt.Errorf("HOOK_WRITE: %w", err)
	}
	return path, nil
}

// Uninstall removes a managed hook. It reports false when nothing was
// installed.
func Uninstall(hooksDir string) (bool, error) {
	state, err := Inspect(hooksDir)
	if err != nil {
		return false, err
	}
	switch state {
	case StateMissing:
		return false, nil
	case StateUnmanaged:
		return false, fmt.Errorf("HOOK_EXISTS: %s: %w", Path(hooksDir), ErrUnmanagedHook)
	}
	if err := os.Remove(Path(hooksDir)); err != nil {
		return false, fmt.Errorf("HOOK_REMOVE: %w", err)
	}
	return true, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
