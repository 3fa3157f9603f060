package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the flowgen banner followed by a tagline.
func PrintBanner(w io.Writer, tagline string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _                              ", "#34d399"},
		{"  / _| | _____      ____ _  ___ _ __ ", "#2dd4bf"},
		{" | |_| |/ _ \\ \\ /\\ / / _` |/ _ \\ '_ \\", "#22d3ee"},
		{" |  _| | (_) \\ V  V / (_| |  __/ | | |", "#38bdf8"},
		{" |_| |_|\\___/ \\_/\\_/ \\__, |\\___|_| |_|", "#60a5fa"},
		{"                     |___/            ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if tagline != "" {
		fmt.Fprintln(w, termenv.String("  "+tagline).Faint())
	}
	fmt.Fprintln(w)
}
