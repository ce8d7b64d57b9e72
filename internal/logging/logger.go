// Package logging builds the loggers binaries and components share. The
// library packages themselves stay silent; anything with a lifecycle (the
// checklist server, the CLIs) logs through here.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger on stderr, keeping stdout free for rendered
// documents. The conventional "error" key is shortened to "err" so log lines
// stay grep-friendly across components.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything. Tests pass it where a
// component requires a logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
