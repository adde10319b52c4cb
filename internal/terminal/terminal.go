package terminal

import "os"

// Reset restores cursor visibility, colors, and the main screen buffer. It
// runs after the TUI exits so a crash or signal never leaves the terminal in
// the alternate screen.
func Reset() {
	os.Stdout.WriteString("\033[?25h")
	os.Stdout.WriteString("\033[0m")
	os.Stdout.WriteString("\033[?1049l")
	os.Stdout.WriteString("\033[?1000l")
	os.Stdout.WriteString("\033[?1002l")
	os.Stdout.WriteString("\033[?1003l")
	os.Stdout.WriteString("\033[?1006l")
	os.Stdout.Sync()
}
