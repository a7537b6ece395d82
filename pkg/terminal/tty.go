package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether fd is a terminal, including Cygwin/MSYS ptys.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AutoOutput picks the bar output mode for f when none is configured:
// colored lines on a terminal, plain text into a pipe.
func AutoOutput(f *os.File) string {
	if IsTerminal(f.Fd()) {
		return "ansi"
	}
	return "plain"
}
