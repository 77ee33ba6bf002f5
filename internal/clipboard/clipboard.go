// Package clipboard copies checklist text to the user's clipboard, falling
// back to an OSC52 terminal escape when no system clipboard is reachable
// (SSH sessions, containers).
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

// Modes accepted by New.
const (
	ModeAuto   = "auto"
	ModeSystem = "system"
	ModeOSC52  = "osc52"
	ModeOff    = "off"
)

// Method is how a copy was delivered.
type Method string

// Delivery methods.
const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// ErrDisabled is returned when copying is switched off in config.
var ErrDisabled = errors.New("clipboard disabled")

// Copier writes text to the clipboard.
type Copier struct {
	mode      string
	term      io.Writer
	system    func(string) error
	hasSystem bool
}

// New returns a Copier. term receives OSC52 sequences and should be the
// terminal the user is looking at.
func New(term io.Writer, mode string) *Copier {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = ModeAuto
	}
	return &Copier{
		mode:      mode,
		term:      term,
		system:    clipboard.WriteAll,
		hasSystem: !clipboard.Unsupported,
	}
}

// Copy delivers text and reports the method used.
func (c *Copier) Copy(text string) (Method, error) {
	switch c.mode {
	case ModeOff:
		return "", ErrDisabled
	case ModeSystem:
		if err := c.system(text); err != nil {
			return "", fmt.Errorf("system clipboard: %w", err)
		}
		return MethodSystem, nil
	case ModeOSC52:
		return c.osc52(text)
	case ModeAuto:
		if c.hasSystem {
			if err := c.system(text); err == nil {
				return MethodSystem, nil
			}
		}
		return c.osc52(text)
	default:
		return "", fmt.Errorf("unknown clipboard mode %q", c.mode)
	}
}

func (c *Copier) osc52(text string) (Method, error) {
	if c.term == nil {
		return "", errors.New("osc52: no terminal output")
	}
	termenv.NewOutput(c.term).Copy(text)
	return MethodOSC52, nil
}
