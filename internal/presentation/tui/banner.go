package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs an ASCII art banner for Træk.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct {
		text  string
		color string
	}{
		{` _____                _    `, "#818cf8"},
		{`|_   _| __ __ _  ___| | __`, "#a78bfa"},
		{`  | || '__/ _' |/ _ \ |/ /`, "#c084fc"},
		{`  | || | | (_| |  __/   < `, "#e879f9"},
		{`  |_||_|  \__,_|\___|_|\_\`, "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
