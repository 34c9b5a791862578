// Package event provides a small DOM-style event target used to feed raw
// keyboard and pointer input into the input manager.
package event

import "log/slog"

// Type identifies the phase of a raw input event.
type Type int

const (
	KeyDown Type = iota
	KeyUp
	PointerDown
	PointerUp
	// PointerCancel ends a press without a release, e.g. on focus loss.
	PointerCancel
)

// String returns the DOM name of the event type.
func (t Type) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case PointerDown:
		return "pointerdown"
	case PointerUp:
		return "pointerup"
	case PointerCancel:
		return "pointercancel"
	default:
		return "unknown"
	}
}

// Event is a single raw input event.
type Event struct {
	Type   Type
	Key    string // key identifier for keyboard events, empty for pointer events
	Repeat bool   // true for auto-repeated keydown events of a held key

	stopped bool
}

// StopImmediatePropagation prevents listeners registered after the current
// one from seeing this event.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Listener handles a dispatched event.
type Listener func(*Event)

// Handler is an optional callback slot. A nil Handler is a no-op.
type Handler func()

// Call invokes h if it is set.
func (h Handler) Call() {
	if h != nil {
		h()
	}
}

type registration struct {
	id uint64
	fn Listener
}

// Target dispatches events to listeners in registration order.
// It is not safe for concurrent use; all dispatching happens on the UI loop.
type Target struct {
	name      string
	listeners map[Type][]registration
	nextID    uint64
	logger    *slog.Logger
}

// NewTarget creates a target. The name is used in debug logs only.
func NewTarget(name string) *Target {
	return NewTargetWithLogger(name, slog.Default())
}

// NewTargetWithLogger creates a target that logs dispatches at debug level.
func NewTargetWithLogger(name string, logger *slog.Logger) *Target {
	if logger == nil {
		logger = slog.Default()
	}
	return &Target{
		name:      name,
		listeners: make(map[Type][]registration),
		logger:    logger,
	}
}

// Name returns the target name.
func (t *Target) Name() string {
	return t.name
}

// AddListener registers fn for events of type typ and returns a function
// that removes the registration. Calling the returned function more than
// once is harmless.
func (t *Target) AddListener(typ Type, fn Listener) (remove func()) {
	t.nextID++
	id := t.nextID
	t.listeners[typ] = append(t.listeners[typ], registration{id: id, fn: fn})

	return func() {
		regs := t.listeners[typ]
		for i, r := range regs {
			if r.id == id {
				t.listeners[typ] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (t *Target) ListenerCount(typ Type) int {
	return len(t.listeners[typ])
}

// TotalListeners returns the number of listeners across all event types.
func (t *Target) TotalListeners() int {
	n := 0
	for _, regs := range t.listeners {
		n += len(regs)
	}
	return n
}

// Dispatch delivers ev to the listeners registered for its type.
// Listeners added or removed during dispatch do not affect the current
// delivery.
func (t *Target) Dispatch(ev *Event) {
	regs := t.listeners[ev.Type]
	if len(regs) == 0 {
		return
	}
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)

	t.logger.Debug("dispatch", "target", t.name, "type", ev.Type.String(), "key", ev.Key, "repeat", ev.Repeat)

	for _, r := range snapshot {
		r.fn(ev)
		if ev.stopped {
			return
		}
	}
}
