package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the sprout banner with a green gradient.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`                             _`, "#bbf7d0"},
		{`  ___ _ __  _ __ ___  _   _| |_`, "#86efac"},
		{` / __| '_ \| '__/ _ \| | | | __|`, "#4ade80"},
		{` \__ \ |_) | | | (_) | |_| | |_`, "#22c55e"},
		{` |___/ .__/|_|  \___/ \__,_|\__|`, "#16a34a"},
		{`     |_|`, "#15803d"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
