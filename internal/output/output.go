package output

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintRight rewrites the current line of f with text aligned to the right.
func PrintRight(f *os.File, text string) {
	// Get terminal width.
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 80
	}

	// Set padding.
	padding := width - len(text)
	if padding < 0 {
		padding = 0
	}

	fmt.Fprintf(f, "\r%s%s", spaces(padding), text)
}

func spaces(n int) string {
	return fmt.Sprintf("%*s", n, "")
}

func ProgressBar(percent int, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := (percent * width) / 100
	return fmt.Sprintf("%s%s",
		strings.Repeat("█", filled),
		strings.Repeat(" ", width-filled),
	)
}
