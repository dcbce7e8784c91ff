// Package hook implements the prepare-commit-msg integration: rewriting the
// commit message file with resolved scopes, and installing the hook script.
package hook

import (
	"fmt"
	"os"
	"strings"

	"commitscope/internal/commit"
	"commitscope/internal/fsutil"
)

// Commit sources git passes as the second prepare-commit-msg argument.
const (
	SourceNone     = ""
	SourceMessage  = "message"
	SourceTemplate = "template"
	SourceMerge    = "merge"
	SourceSquash   = "squash"
	SourceCommit   = "commit"
)

// Rewrite computes the new message for a commit source. It reports false when
// the message must be left alone.
func Rewrite(msg, source string, scopes []string) (string, bool) {
	if len(scopes) == 0 {
		return "", false
	}
	switch source {
	case SourceNone:
		return commit.Header(commit.DefaultType, scopes) + "\n" + msg, true
	case SourceMessage:
		first, rest, hasRest := strings.Cut(msg, "\n")
		for _, typ := range commit.Types {
			prefix := typ + ":"
			if !strings.HasPrefix(first, prefix) {
				continue
			}
			first = commit.Header(typ, scopes) + strings.TrimPrefix(first, prefix)
			if hasRest {
				return first + "\n" + rest, true
			}
			return first, true
		}
		return "", false
	default:
		return "", false
	}
}

// Prepare applies Rewrite to the message file at path. It reports whether the
// file changed.
func Prepare(path, source string, scopes []string) (bool, error) {
	if len(scopes) == 0 {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("HOOK_READ: %w", err)
	}
	updated, ok := Rewrite(string(data), source, scopes)
	if !ok {
		return false, nil
	}
	if err := fsutil.Rewrite(path, []byte(updated)); err != nil {
		return false, fmt.Errorf("HOOK_WRITE: %w", err)
	}
	return true, nil
}
