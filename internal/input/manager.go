// Package input turns raw keyboard and pointer events into start/stop
// stepping intents according to the configured interaction mode.
package input

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/rtg/internal/event"
)

// noKey is the "nothing remembered" sentinel for key tracking.
const noKey = ""

// Elements are the pointer surfaces the manager listens on.
type Elements struct {
	// Step is the trigger surface for stepping. Required.
	Step *event.Target
	// Language is an optional button that cycles the display language.
	Language *event.Target
}

// Options configures a Manager.
type Options struct {
	Mode        Mode
	Document    *event.Target // keyboard event source
	Elements    Elements
	SpecialKeys SpecialKeys // overrides merged over DefaultSpecialKeys
	// IsStepping reports whether stepping is currently active. The manager
	// never tracks that state itself.
	IsStepping func() bool
	Logger     *slog.Logger
}

// Manager emits stepping intents for one mode. Assign the callback slots
// after New returns; unassigned slots are skipped.
type Manager struct {
	OnStartStepping    event.Handler
	OnStopStepping     event.Handler
	OnFullscreenChange event.Handler
	OnLanguageChange   event.Handler
	OnCopy             event.Handler

	mode        Mode
	specialKeys SpecialKeys
	isStepping  func() bool
	logger      *slog.Logger

	lastTriggerKey string
	// endingKey is the key whose keydown just ended a span; its keyup is
	// part of the same press and is consumed.
	endingKey string

	removers []func()
}

// New validates opts and registers the manager's listeners.
func New(opts Options) (*Manager, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if opts.Document == nil {
		return nil, errors.New("input: document target is required")
	}
	if opts.Elements.Step == nil {
		return nil, errors.New("input: step element is required")
	}
	if opts.IsStepping == nil {
		return nil, errors.New("input: stepping state callback is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		mode:           mode,
		specialKeys:    MergeSpecialKeys(opts.SpecialKeys),
		isStepping:     opts.IsStepping,
		logger:         logger,
		lastTriggerKey: noKey,
		endingKey:      noKey,
	}

	// Special keys go first so they can stop propagation before any
	// stepping listener sees the same key.
	m.listen(opts.Document, event.KeyDown, m.handleSpecialKey)
	m.listen(opts.Document, event.KeyUp, m.handleSpecialKey)

	b := modeTable[mode]
	m.bindKey(opts.Document, event.KeyDown, b.keyDown)
	m.bindKey(opts.Document, event.KeyUp, b.keyUp)
	m.bindPointer(opts.Elements.Step, event.PointerDown, b.pointerDown)
	m.bindPointer(opts.Elements.Step, event.PointerUp, b.pointerUp)
	// A cancelled press never toggles. Only a hold, where the release
	// means stop, ends the span.
	if b.pointerUp == intentStop {
		m.bindPointer(opts.Elements.Step, event.PointerCancel, intentStop)
	}

	if opts.Elements.Language != nil {
		m.listen(opts.Elements.Language, event.PointerUp, func(*event.Event) {
			m.OnLanguageChange.Call()
		})
	}

	logger.Debug("input manager ready", "mode", string(mode), "listeners", len(m.removers))
	return m, nil
}

// Mode returns the active interaction mode.
func (m *Manager) Mode() Mode {
	return m.mode
}

// SpecialKeys returns the merged special key bindings.
func (m *Manager) SpecialKeys() SpecialKeys {
	return m.specialKeys
}

// Close removes every listener registered by the manager.
func (m *Manager) Close() {
	for _, remove := range m.removers {
		remove()
	}
	m.removers = nil
}

func (m *Manager) listen(target *event.Target, typ event.Type, fn event.Listener) {
	m.removers = append(m.removers, target.AddListener(typ, fn))
}

func (m *Manager) bindKey(target *event.Target, typ event.Type, in intent) {
	if in == intentNone {
		return
	}
	m.listen(target, typ, func(ev *event.Event) {
		if ev.Repeat {
			return
		}
		if typ == event.KeyUp && m.endingKey != noKey {
			ending := m.endingKey
			m.endingKey = noKey
			if ev.Key == ending {
				return
			}
		}
		if typ == event.KeyDown {
			m.endingKey = noKey
		}
		m.apply(in, ev.Key, typ)
	})
}

func (m *Manager) bindPointer(target *event.Target, typ event.Type, in intent) {
	if in == intentNone {
		return
	}
	m.listen(target, typ, func(*event.Event) {
		m.apply(in, noKey, typ)
	})
}

func (m *Manager) handleSpecialKey(ev *event.Event) {
	action, ok := m.specialKeys.Match(ev.Key)
	if !ok {
		return
	}
	ev.StopImmediatePropagation()
	if ev.Type != event.KeyDown || ev.Repeat {
		return
	}

	m.logger.Debug("special key", "key", ev.Key, "action", string(action))
	switch action {
	case ActionFullscreen:
		m.OnFullscreenChange.Call()
	case ActionLanguage:
		m.OnLanguageChange.Call()
	case ActionCopy:
		m.OnCopy.Call()
	}
}

func (m *Manager) apply(in intent, key string, phase event.Type) {
	switch in {
	case intentStart:
		m.OnStartStepping.Call()
	case intentStop:
		m.OnStopStepping.Call()
	case intentToggle:
		m.toggle()
	case intentToggleByKey:
		m.toggleByKey(key, phase)
	default:
		panic(fmt.Sprintf("input: unhandled intent %d", in))
	}
}

func (m *Manager) toggle() {
	if m.isStepping() {
		m.OnStopStepping.Call()
	} else {
		m.OnStartStepping.Call()
	}
}

// toggleByKey starts stepping and remembers key, or stops stepping when a
// key other than the remembered one arrives. The remembered key itself
// never stops the span.
func (m *Manager) toggleByKey(key string, phase event.Type) {
	if !m.isStepping() {
		m.lastTriggerKey = key
		m.OnStartStepping.Call()
		return
	}
	if key == m.lastTriggerKey {
		return
	}
	m.lastTriggerKey = noKey
	if phase == event.KeyDown && modeTable[m.mode].keyUp == intentToggleByKey {
		m.endingKey = key
	}
	m.OnStopStepping.Call()
}
