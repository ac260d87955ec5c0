package ui

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ConfigureOutput switches to plain rendering when stdout is piped.
func ConfigureOutput() {
	if !IsTerminal(os.Stdout) {
		Plain()
	}
}
