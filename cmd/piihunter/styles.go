package main

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// styles holds color formatters for terminal output
type styles struct {
	heading  *color.Color
	typeName *color.Color
	found    *color.Color
	clean    *color.Color
	warning  *color.Color
	metadata *color.Color
}

// newStyles creates color formatters. enabled=false renders plain text.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold),
		typeName: color.New(color.Bold, color.FgHiBlue),
		found:    color.New(color.Bold, color.FgHiRed),
		clean:    color.New(color.FgHiGreen),
		warning:  color.New(color.FgYellow),
		metadata: color.New(color.FgHiBlue),
	}

	for _, c := range []*color.Color{s.heading, s.typeName, s.found, s.clean, s.warning, s.metadata} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// colorEnabled resolves a --color mode. "auto" colors only when stderr is a
// terminal and NO_COLOR is unset.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}
