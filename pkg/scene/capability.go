package scene

import (
	"os"

	"golang.org/x/term"
)

// Capability describes what the current environment can render.
type Capability struct {
	Interactive bool   // Stdout is a terminal able to run the live view
	Term        string // Raw TERM value, for diagnostics
}

// Probe inspects the environment once at startup. A non-terminal
// stdout or TERM=dumb means the live view can't run and callers should
// fall back to the text listing.
func Probe() Capability {
	t := os.Getenv("TERM")
	interactive := term.IsTerminal(int(os.Stdout.Fd())) && t != "dumb" && t != ""
	return Capability{
		Interactive: interactive,
		Term:        t,
	}
}
