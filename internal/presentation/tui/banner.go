package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the Excursion ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to green, like a trail map.
	lines := []termenv.Style{
		termenv.String("  ___                         _").Foreground(p.Color("#2dd4bf")),
		termenv.String(" | __|_ ____ _  _ _ _ ____(_)___ _ _").Foreground(p.Color("#34d399")),
		termenv.String(" | _|\\ \\ / _| || | '_(_-<| / _ \\ ' \\").Foreground(p.Color("#4ade80")),
		termenv.String(" |___/_\\_\\__|\\_,_|_| /__/|_\\___/_||_|").Foreground(p.Color("#a3e635")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w)
}
