//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package term

// Platforms without termios never colour in auto mode.
func isTerminal(fd int) bool {
	return false
}
