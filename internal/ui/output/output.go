// Package output provides utilities for creating termenv.Output with consistent
// color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// fder is implemented by writers backed by a file descriptor.
type fder interface {
	Fd() uintptr
}

// ColorProfile returns the color profile to use for terminal output.
// It checks if NO_COLOR is set, returning Ascii if so.
// Otherwise, it detects the terminal's capabilities automatically.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// IsTerminal reports whether w writes to an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// New creates a new termenv.Output with the specific profile logic.
// Writers that are not a terminal get the Ascii profile unless the caller overrides it.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	profile := ColorProfile()
	if !IsTerminal(w) && os.Getenv("CLICOLOR_FORCE") == "" {
		profile = termenv.Ascii
	}

	opts = append([]termenv.OutputOption{
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	}, opts...)

	return termenv.NewOutput(w, opts...)
}
