package main

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/lattice-lang/astcore/internal/diagnostics"
)

// colorEnabled follows the NO_COLOR convention (https://no-color.org/)
// and falls back to isatty when it isn't set, same detection order the
// runtime's term builtins use for their own color support probe.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func severityColor(s diagnostics.Severity) string {
	switch s {
	case diagnostics.Fatal, diagnostics.Error:
		return "\x1b[31m"
	case diagnostics.Warning:
		return "\x1b[33m"
	default:
		return "\x1b[36m"
	}
}

const colorReset = "\x1b[0m"
