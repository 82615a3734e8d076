// Package theme models the two-valued light/dark display preference and the
// editor color schemes derived from it.
package theme

import (
	"errors"
	"fmt"
)

// Mode is the display palette preference.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// DefaultMode is used when no preference has been stored.
const DefaultMode = Dark

// ErrUnknownMode is returned when parsing a value that is neither light nor dark.
var ErrUnknownMode = errors.New("unknown theme mode")

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Valid reports whether m is Light or Dark.
func (m Mode) Valid() bool {
	return m == Light || m == Dark
}

// Preference is a readable, settable two-valued preference with change
// notification. The unsubscribe func returned by Subscribe is idempotent.
type Preference interface {
	Get() Mode
	Set(Mode) error
	Subscribe(func(Mode)) (unsubscribe func())
}
