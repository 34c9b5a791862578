package input

import (
	"errors"
	"fmt"
)

// Mode selects how raw input events map to stepping intents.
type Mode string

const (
	ModePressRelease     Mode = "press_release"
	ModePressPress       Mode = "press_press"
	ModeReleaseRelease   Mode = "release_release"
	ModePressAReleaseB   Mode = "press_a_release_b"
	ModePressAPressB     Mode = "press_a_press_b"
	ModeReleaseAReleaseB Mode = "release_a_release_b"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModePressRelease

// ErrInvalidMode is returned for a mode outside the six known values.
var ErrInvalidMode = errors.New("invalid operation mode")

// intent is what a single event phase does.
type intent uint8

const (
	intentNone intent = iota
	intentStart
	intentStop
	intentToggle
	intentToggleByKey
)

// binding maps each event phase to an intent for one mode.
type binding struct {
	keyDown     intent
	keyUp       intent
	pointerDown intent
	pointerUp   intent
}

var modeTable = map[Mode]binding{
	ModePressRelease: {
		keyDown: intentStart, keyUp: intentStop,
		pointerDown: intentStart, pointerUp: intentStop,
	},
	ModePressPress: {
		keyDown:     intentToggle,
		pointerDown: intentToggle,
	},
	ModeReleaseRelease: {
		keyUp:     intentToggle,
		pointerUp: intentToggle,
	},
	ModePressAReleaseB: {
		keyDown: intentToggleByKey, keyUp: intentToggleByKey,
		pointerDown: intentStart, pointerUp: intentStop,
	},
	ModePressAPressB: {
		keyDown:     intentToggleByKey,
		pointerDown: intentToggle,
	},
	ModeReleaseAReleaseB: {
		keyUp:     intentToggleByKey,
		pointerUp: intentToggle,
	},
}

// Modes returns every valid mode in canonical order.
func Modes() []Mode {
	return []Mode{
		ModePressRelease,
		ModePressPress,
		ModeReleaseRelease,
		ModePressAReleaseB,
		ModePressAPressB,
		ModeReleaseAReleaseB,
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, ok := modeTable[m]
	return ok
}

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}
