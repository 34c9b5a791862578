package input

import (
	"errors"
	"fmt"
	"slices"
)

// Action names a special, non-stepping key action.
type Action string

const (
	ActionFullscreen Action = "fullscreen"
	ActionLanguage   Action = "language"
	ActionCopy       Action = "copy"
)

// SpecialKeys maps each action to the keys that trigger it.
type SpecialKeys map[Action][]string

// DefaultSpecialKeys returns the built-in special key bindings.
func DefaultSpecialKeys() SpecialKeys {
	return SpecialKeys{
		ActionFullscreen: {"f"},
	}
}

// ErrUnknownAction is returned for action names other than the known ones.
var ErrUnknownAction = errors.New("unknown special key action")

// knownActions lists actions in match priority order.
var knownActions = []Action{ActionFullscreen, ActionLanguage, ActionCopy}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !slices.Contains(knownActions, a) {
		return "", fmt.Errorf("%w %q", ErrUnknownAction, s)
	}
	return a, nil
}

// MergeSpecialKeys layers overrides on top of the defaults. An overridden
// action replaces its default keys entirely; other actions keep theirs.
func MergeSpecialKeys(overrides SpecialKeys) SpecialKeys {
	merged := DefaultSpecialKeys()
	for action, keys := range overrides {
		merged[action] = slices.Clone(keys)
	}
	return merged
}

// SplitKeys turns a compact key string such as "fF" into one key per rune.
func SplitKeys(s string) []string {
	keys := make([]string, 0, len(s))
	for _, r := range s {
		keys = append(keys, string(r))
	}
	return keys
}

// Match returns the action bound to key.
func (sk SpecialKeys) Match(key string) (Action, bool) {
	for _, action := range knownActions {
		if slices.Contains(sk[action], key) {
			return action, true
		}
	}
	return "", false
}
