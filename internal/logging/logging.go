// Package logging builds the charmbracelet logger handed to every component
// that emits diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// DebugLogEnv names a file that receives debug output instead of stderr.
// Editor plugins have no terminal, so this is how their runs are traced.
const DebugLogEnv = "COMMITSCOPE_DEBUG_LOG"

// Options selects level, format and destination.
type Options struct {
	Level  string
	Format string
	Output io.Writer
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// New returns a logger and a closer for any file it opened.
func New(opts Options) (*log.Logger, io.Closer, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var closer io.Closer = nopCloser{}
	level := opts.Level

	if path := strings.TrimSpace(getenv(DebugLogEnv)); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("LOG_OPEN: %w", err)
		}
		out, closer, level = f, f, "debug"
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	formatter, err := ParseFormat(opts.Format)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		Prefix:          "commitscope",
		ReportTimestamp: formatter != log.TextFormatter,
	})
	return logger, closer, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	switch s {
	case "debug", "info", "warn", "error":
		return log.ParseLevel(s)
	}
	return 0, fmt.Errorf("LOG_LEVEL: unsupported level %q", s)
}

// ParseFormat accepts text, json and logfmt. Empty means text.
func ParseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return 0, fmt.Errorf("LOG_FORMAT: unsupported format %q", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
