// Package term answers whether a file descriptor is an interactive terminal.
package term

import "os"

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return isTerminal(int(fd))
}

// ColorFor reports whether output to f should be coloured for the given mode:
// "always", "never" or "auto", where auto colours terminals only.
func ColorFor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return f != nil && IsTerminal(f.Fd())
}
