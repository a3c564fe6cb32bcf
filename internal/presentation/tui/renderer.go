// Package tui renders flow output for the terminal.
package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown for the terminal.
// On a real TTY it uses glamour with automatic light/dark detection;
// otherwise (pipes, CI) it passes the markdown through untouched.
func NewRenderer(plain bool) func(string) string {
	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(markdown string) string { return markdown + "\n" }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) string { return markdown + "\n" }
	}

	return func(markdown string) string {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown + "\n"
		}
		return out
	}
}
