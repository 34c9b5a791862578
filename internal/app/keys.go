package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/marcus/rtg/internal/input"
)

// keyMap holds the bindings handled before the input manager sees a key,
// plus help-only bindings for the special keys.
type keyMap struct {
	Quit       key.Binding
	Fullscreen key.Binding
	Language   key.Binding
	Copy       key.Binding
}

func newKeyMap(sk input.SpecialKeys) keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Fullscreen: specialBinding(sk[input.ActionFullscreen], "fullscreen"),
		Language:   specialBinding(sk[input.ActionLanguage], "language"),
		Copy:       specialBinding(sk[input.ActionCopy], "copy"),
	}
}

// specialBinding describes keys the input manager handles. A binding
// without keys is disabled and left out of the help line.
func specialBinding(keys []string, desc string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

// ShortHelp returns the bindings shown in the help line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fullscreen, k.Language, k.Copy, k.Quit}
}

var modeHints = map[input.Mode]string{
	input.ModePressRelease:     "hold a key or the mouse button to spin",
	input.ModePressPress:       "press to start, press again to stop",
	input.ModeReleaseRelease:   "release to start, release again to stop",
	input.ModePressAReleaseB:   "press a key to start, release another to stop",
	input.ModePressAPressB:     "press a key to start, press another to stop",
	input.ModeReleaseAReleaseB: "release a key to start, release another to stop",
}
