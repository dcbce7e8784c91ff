package hook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallAndUninstall(t *testing.T) {
	hooksDir := filepath.Join(t.TempDir(), "hooks")

	state, err := Inspect(hooksDir)
	if err != nil || state != StateMissing {
		t.Fatalf("Inspect() = %s, %v", state, err)
	}

	path, err := Install(hooksDir, "/usr/local/bin/commitscope", false)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if path != filepath.Join(hooksDir, HookName) {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "exec '/usr/local/bin/commitscope' hook \"$@\"") {
		t.Fatalf("unexpected script:\n%s", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm()&0o100 == 0 {
		t.Fatalf("hook is not executable: %v", info.Mode())
	}
	if state, _ := Inspect(hooksDir); state != StateManaged {
		t.Fatalf("state = %s, want managed", state)
	}

	// Reinstalling over a managed hook is allowed.
	if _, err := Install(hooksDir, "commitscope", false); err != nil {
		t.Fatalf("reinstall: %v", err)
	}

	removed, err := Uninstall(hooksDir)
	if err != nil || !removed {
		t.Fatalf("Uninstall() = %v, %v", removed, err)
	}
	removed, err = Uninstall(hooksDir)
	if err != nil || removed {
		t.Fatalf("second Uninstall() = %v, %v", removed, err)
	}
}

func TestInstallRefusesUnmanagedHook(t *testing.T) {
	hooksDir := filepath.Join(t.TempDir(), "hooks")
	custom := "#!/bin/sh\necho custom\n"
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(hooksDir), []byte(custom), 0o755); err != nil {
		t.Fatal(err)
	}

	if _, err := Install(hooksDir, "commitscope", false); !errors.Is(err, ErrUnmanagedHook) {
		t.Fatalf("Install err = %v, want ErrUnmanagedHook", err)
	}
	if _, err := Uninstall(hooksDir); !errors.Is(err, ErrUnmanagedHook) {
		t.Fatalf("Uninstall err = %v, want ErrUnmanagedHook", err)
	}
	got, _ := os.ReadFile(Path(hooksDir))
	if string(got) != custom {
		t.Fatal("unmanaged hook was modified")
	}

	if _, err := Install(hooksDir, "commitscope", true); err != nil {
		t.Fatalf("forced Install: %v", err)
	}
	if state, _ := Inspect(hooksDir); state != StateManaged {
		t.Fatalf("state = %s, want managed", state)
	}
}

func TestScriptQuotesCommand(t *testing.T) {
	got := Script("/opt/it's here/commitscope")
	if !strings.Contains(got, `exec '/opt/it'\''s here/commitscope' hook "$@"`) {
		t.Fatalf("Script() = %q", got)
	}
}
