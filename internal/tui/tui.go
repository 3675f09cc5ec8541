package tui

import (
	"os"

	"golang.org/x/term"
)

// New returns the huh form when the session is interactive and noTUI is
// unset, and line prompts otherwise.
func New(noTUI bool) UI {
	if noTUI || !Interactive() {
		return NewFallbackUI()
	}

	return NewHuhUI()
}

// Interactive reports whether a full-screen form can run: stdin and stdout
// are terminals and TERM is not dumb.
func Interactive() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}

	//nolint:gosec // G115: file descriptors fit in int
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
