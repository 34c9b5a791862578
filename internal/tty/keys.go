// Package tty adapts terminal input to the raw keyboard events the input
// manager expects.
//
// Terminals only report key presses. A held key shows up as a burst of
// auto-repeated presses, so the release is inferred once the presses stop.
package tty

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/rtg/internal/clock"
	"github.com/marcus/rtg/internal/event"
)

const (
	// DefaultInitialRelease covers the typical OS delay before auto-repeat
	// kicks in (250-500ms).
	DefaultInitialRelease = 550 * time.Millisecond
	// DefaultRepeatRelease covers the gap between auto-repeated presses.
	DefaultRepeatRelease = 150 * time.Millisecond
)

// KeyTracker turns key presses into keydown, repeated keydown and keyup
// events dispatched to a target.
type KeyTracker struct {
	InitialRelease time.Duration
	RepeatRelease  time.Duration

	sched  clock.Scheduler
	target *event.Target
	held   map[string]clock.Timer
	order  []string
}

// NewKeyTracker creates a tracker dispatching to target.
func NewKeyTracker(sched clock.Scheduler, target *event.Target) *KeyTracker {
	return &KeyTracker{
		InitialRelease: DefaultInitialRelease,
		RepeatRelease:  DefaultRepeatRelease,
		sched:          sched,
		target:         target,
		held:           make(map[string]clock.Timer),
	}
}

// KeyName returns the identifier used for a key message.
func KeyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return "space"
	}
	return msg.String()
}

// HandleKey records a key press and dispatches the resulting event.
func (k *KeyTracker) HandleKey(msg tea.KeyMsg) {
	k.Press(KeyName(msg))
}

// Press records a press of key.
func (k *KeyTracker) Press(key string) {
	if timer, ok := k.held[key]; ok {
		timer.Stop()
		k.held[key] = k.arm(key, k.RepeatRelease)
		k.target.Dispatch(&event.Event{Type: event.KeyDown, Key: key, Repeat: true})
		return
	}

	k.held[key] = k.arm(key, k.InitialRelease)
	k.order = append(k.order, key)
	k.target.Dispatch(&event.Event{Type: event.KeyDown, Key: key})
}

func (k *KeyTracker) arm(key string, d time.Duration) clock.Timer {
	return k.sched.AfterFunc(d, func() {
		k.release(key)
	})
}

func (k *KeyTracker) release(key string) {
	if _, ok := k.held[key]; !ok {
		return
	}
	delete(k.held, key)
	for i, held := range k.order {
		if held == key {
			k.order = append(k.order[:i], k.order[i+1:]...)
			break
		}
	}
	k.target.Dispatch(&event.Event{Type: event.KeyUp, Key: key})
}

// Held reports whether key is considered pressed.
func (k *KeyTracker) Held(key string) bool {
	_, ok := k.held[key]
	return ok
}

// ReleaseAll dispatches keyup for every held key in press order.
func (k *KeyTracker) ReleaseAll() {
	keys := append([]string(nil), k.order...)
	for _, key := range keys {
		if timer, ok := k.held[key]; ok {
			timer.Stop()
		}
		k.release(key)
	}
}
