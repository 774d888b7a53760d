// Package detector reports whether the process can drive an interactive
// terminal. The monitor refuses to start without one.
package detector

import (
	"os"

	"golang.org/x/term"
)

// Interactive reports whether stdout is a terminal a full screen
// program can take over. CI environments often allocate a pty, so the
// CI convention variable is checked as well.
func Interactive() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	ci := os.Getenv("CI")
	return ci != "true" && ci != "1"
}
