package input

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/marcus/rtg/internal/event"
)

// harness wires a manager to a fake stepping state the way the app wires it
// to a Stepper.
type harness struct {
	doc, step, lang *event.Target
	m               *Manager
	stepping        bool
	calls           []string
}

func newHarness(t *testing.T, mode Mode, special SpecialKeys) *harness {
	t.Helper()
	h := &harness{
		doc:  event.NewTarget("document"),
		step: event.NewTarget("step"),
		lang: event.NewTarget("language"),
	}
	m, err := New(Options{
		Mode:        mode,
		Document:    h.doc,
		Elements:    Elements{Step: h.step, Language: h.lang},
		SpecialKeys: special,
		IsStepping:  func() bool { return h.stepping },
	})
	if err != nil {
		t.Fatalf("New(%q) failed: %v", mode, err)
	}
	m.OnStartStepping = func() {
		h.calls = append(h.calls, "start")
		h.stepping = true
	}
	m.OnStopStepping = func() {
		h.calls = append(h.calls, "stop")
		h.stepping = false
	}
	m.OnFullscreenChange = func() { h.calls = append(h.calls, "fullscreen") }
	m.OnLanguageChange = func() { h.calls = append(h.calls, "language") }
	m.OnCopy = func() { h.calls = append(h.calls, "copy") }
	h.m = m
	return h
}

func (h *harness) keyDown(key string) { h.doc.Dispatch(&event.Event{Type: event.KeyDown, Key: key}) }
func (h *harness) keyUp(key string)   { h.doc.Dispatch(&event.Event{Type: event.KeyUp, Key: key}) }
func (h *harness) keyRepeat(key string) {
	h.doc.Dispatch(&event.Event{Type: event.KeyDown, Key: key, Repeat: true})
}
func (h *harness) pointerDown() { h.step.Dispatch(&event.Event{Type: event.PointerDown}) }
func (h *harness) pointerUp()   { h.step.Dispatch(&event.Event{Type: event.PointerUp}) }
func (h *harness) pointerCancel() {
	h.step.Dispatch(&event.Event{Type: event.PointerCancel})
}

func (h *harness) expect(t *testing.T, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	got := h.calls
	if got == nil {
		got = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range Modes() {
		got, err := ParseMode(string(mode))
		if err != nil || got != mode {
			t.Errorf("ParseMode(%q) = %q, %v", mode, got, err)
		}
	}

	_, err := ParseMode("bogus_mode")
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if !strings.Contains(err.Error(), "bogus_mode") {
		t.Errorf("error should name the mode: %v", err)
	}
}

func TestModes_AllInTable(t *testing.T) {
	if len(Modes()) != len(modeTable) {
		t.Fatalf("Modes() has %d entries, table has %d", len(Modes()), len(modeTable))
	}
	for _, m := range Modes() {
		if !m.Valid() {
			t.Errorf("mode %q missing from table", m)
		}
	}
}

func TestNew_InvalidModeRegistersNothing(t *testing.T) {
	doc := event.NewTarget("document")
	step := event.NewTarget("step")
	called := false

	m, err := New(Options{
		Mode:       "bogus_mode",
		Document:   doc,
		Elements:   Elements{Step: step},
		IsStepping: func() bool { called = true; return false },
	})
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if m != nil {
		t.Error("manager should be nil on error")
	}
	if doc.TotalListeners() != 0 || step.TotalListeners() != 0 {
		t.Errorf("listeners registered: doc=%d step=%d", doc.TotalListeners(), step.TotalListeners())
	}

	for _, typ := range []event.Type{event.KeyDown, event.KeyUp} {
		doc.Dispatch(&event.Event{Type: typ, Key: "a"})
	}
	for _, typ := range []event.Type{event.PointerDown, event.PointerUp} {
		step.Dispatch(&event.Event{Type: typ})
	}
	if called {
		t.Error("no handler should run for an invalid mode")
	}
}

func TestNew_MissingCollaborators(t *testing.T) {
	doc := event.NewTarget("document")
	step := event.NewTarget("step")
	stepping := func() bool { return false }

	tests := []struct {
		name string
		opts Options
	}{
		{"no document", Options{Mode: DefaultMode, Elements: Elements{Step: step}, IsStepping: stepping}},
		{"no step element", Options{Mode: DefaultMode, Document: doc, IsStepping: stepping}},
		{"no stepping callback", Options{Mode: DefaultMode, Document: doc, Elements: Elements{Step: step}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestModes_PressThenRelease(t *testing.T) {
	tests := []struct {
		mode      Mode
		keyEvents func(h *harness)
		ptrEvents func(h *harness)
		keyboard  []string
		pointer   []string
	}{
		{
			mode:      ModePressRelease,
			keyEvents: func(h *harness) { h.keyDown("a"); h.keyUp("a") },
			ptrEvents: func(h *harness) { h.pointerDown(); h.pointerUp() },
			keyboard:  []string{"start", "stop"},
			pointer:   []string{"start", "stop"},
		},
		{
			mode:      ModePressPress,
			keyEvents: func(h *harness) { h.keyDown("a"); h.keyUp("a"); h.keyDown("a"); h.keyUp("a") },
			ptrEvents: func(h *harness) { h.pointerDown(); h.pointerUp(); h.pointerDown(); h.pointerUp() },
			keyboard:  []string{"start", "stop"},
			pointer:   []string{"start", "stop"},
		},
		{
			mode:      ModeReleaseRelease,
			keyEvents: func(h *harness) { h.keyDown("a"); h.keyUp("a"); h.keyDown("a"); h.keyUp("a") },
			ptrEvents: func(h *harness) { h.pointerDown(); h.pointerUp(); h.pointerDown(); h.pointerUp() },
			keyboard:  []string{"start", "stop"},
			pointer:   []string{"start", "stop"},
		},
		{
			mode:      ModePressAReleaseB,
			keyEvents: func(h *harness) { h.keyDown("a"); h.keyUp("a"); h.keyDown("b"); h.keyUp("b") },
			ptrEvents: func(h *harness) { h.pointerDown(); h.pointerUp() },
			keyboard:  []string{"start", "stop"},
			pointer:   []string{"start", "stop"},
		},
		{
			mode:      ModePressAPressB,
			keyEvents: func(h *harness) { h.keyDown("a"); h.keyUp("a"); h.keyDown("b"); h.keyUp("b") },
			ptrEvents: func(h *harness) { h.pointerDown(); h.pointerUp(); h.pointerDown(); h.pointerUp() },
			keyboard:  []string{"start", "stop"},
			pointer:   []string{"start", "stop"},
		},
		{
			mode:      ModeReleaseAReleaseB,
			keyEvents: func(h *harness) { h.keyDown("a"); h.keyUp("a"); h.keyDown("b"); h.keyUp("b") },
			ptrEvents: func(h *harness) { h.pointerDown(); h.pointerUp(); h.pointerDown(); h.pointerUp() },
			keyboard:  []string{"start", "stop"},
			pointer:   []string{"start", "stop"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/keyboard", func(t *testing.T) {
			h := newHarness(t, tt.mode, nil)
			tt.keyEvents(h)
			h.expect(t, tt.keyboard...)
		})
		t.Run(string(tt.mode)+"/pointer", func(t *testing.T) {
			h := newHarness(t, tt.mode, nil)
			tt.ptrEvents(h)
			h.expect(t, tt.pointer...)
		})
	}
}

func TestModes_SinglePressPhase(t *testing.T) {
	// One press-equivalent event followed by its release-equivalent.
	tests := []struct {
		mode Mode
		want []string
	}{
		{ModePressRelease, []string{"start", "stop"}},
		{ModePressPress, []string{"start"}},
		{ModeReleaseRelease, []string{"start"}},
		{ModePressAReleaseB, []string{"start"}},
		{ModePressAPressB, []string{"start"}},
		{ModeReleaseAReleaseB, []string{"start"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newHarness(t, tt.mode, nil)
			h.keyDown("a")
			h.keyUp("a")
			h.expect(t, tt.want...)
		})
	}
}

func TestModes_AutoRepeatIgnored(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(string(mode), func(t *testing.T) {
			h := newHarness(t, mode, nil)
			for i := 0; i < 5; i++ {
				h.keyRepeat("a")
				h.keyRepeat("b")
				h.keyRepeat("f")
			}
			h.expect(t)
		})
	}
}

func TestModes_AutoRepeatWhileStepping(t *testing.T) {
	h := newHarness(t, ModePressPress, nil)
	h.keyDown("a")
	h.keyRepeat("a")
	h.keyRepeat("a")
	h.expect(t, "start")
}

func TestToggleByKey_SameKeyIgnoredDifferentKeyStops(t *testing.T) {
	type step struct {
		down bool
		key  string
	}
	tests := []struct {
		mode   Mode
		events []step
	}{
		{ModePressAReleaseB, []step{{true, "a"}, {true, "a"}, {true, "b"}}},
		{ModePressAPressB, []step{{true, "a"}, {true, "a"}, {true, "b"}}},
		{ModeReleaseAReleaseB, []step{{false, "a"}, {false, "a"}, {false, "b"}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newHarness(t, tt.mode, nil)
			for i, ev := range tt.events {
				if ev.down {
					h.keyDown(ev.key)
				} else {
					h.keyUp(ev.key)
				}
				if i == 1 {
					h.expect(t, "start")
				}
			}
			h.expect(t, "start", "stop")
			if h.m.lastTriggerKey != noKey {
				t.Errorf("lastTriggerKey = %q, want reset", h.m.lastTriggerKey)
			}
		})
	}
}

func TestToggleByKey_RememberedKeyResetAfterStop(t *testing.T) {
	h := newHarness(t, ModePressAPressB, nil)
	h.keyDown("a")
	h.keyDown("b")
	h.keyDown("b")
	h.expect(t, "start", "stop", "start")
	if h.m.lastTriggerKey != "b" {
		t.Errorf("lastTriggerKey = %q, want b", h.m.lastTriggerKey)
	}
}

func TestPressAReleaseB_EndingPressDoesNotRestart(t *testing.T) {
	h := newHarness(t, ModePressAReleaseB, nil)
	h.keyDown("a")
	h.keyUp("a")
	h.keyDown("b")
	h.keyUp("b")
	h.expect(t, "start", "stop")
	if h.stepping {
		t.Error("releasing the key that ended the span must not restart stepping")
	}

	h.keyDown("b")
	h.expect(t, "start", "stop", "start")
}

func TestPressAReleaseB_ReleaseOfFirstKeyAfterStop(t *testing.T) {
	h := newHarness(t, ModePressAReleaseB, nil)
	h.keyDown("a")
	h.keyDown("b") // ends the span; b's keyup is consumed
	h.keyUp("a")   // a is no longer remembered, so this starts again
	h.expect(t, "start", "stop", "start")
}

func TestSpecialKey_NoSteppingIntent(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(string(mode), func(t *testing.T) {
			h := newHarness(t, mode, nil)
			h.keyDown("f")
			h.keyRepeat("f")
			h.keyUp("f")
			h.expect(t, "fullscreen")
		})
	}
}

func TestSpecialKey_WhileStepping(t *testing.T) {
	h := newHarness(t, ModePressAPressB, nil)
	h.keyDown("a")
	h.keyDown("f")
	h.keyUp("f")
	h.expect(t, "start", "fullscreen")
	if !h.stepping {
		t.Error("special key must not stop stepping")
	}
}

func TestSpecialKey_Overrides(t *testing.T) {
	h := newHarness(t, ModePressRelease, SpecialKeys{
		ActionFullscreen: {"F"},
		ActionLanguage:   {"l"},
		ActionCopy:       {"y"},
	})

	h.keyDown("f")
	h.keyUp("f")
	h.keyDown("F")
	h.keyDown("l")
	h.keyDown("y")
	h.expect(t, "start", "stop", "fullscreen", "language", "copy")
}

func TestLanguageElement(t *testing.T) {
	h := newHarness(t, ModePressRelease, nil)
	h.lang.Dispatch(&event.Event{Type: event.PointerDown})
	h.lang.Dispatch(&event.Event{Type: event.PointerUp})
	h.expect(t, "language")
}

func TestUnassignedCallbacksAreNoops(t *testing.T) {
	doc := event.NewTarget("document")
	step := event.NewTarget("step")
	m, err := New(Options{
		Mode:       ModePressPress,
		Document:   doc,
		Elements:   Elements{Step: step},
		IsStepping: func() bool { return false },
	})
	if err != nil {
		t.Fatal(err)
	}
	doc.Dispatch(&event.Event{Type: event.KeyDown, Key: "a"})
	doc.Dispatch(&event.Event{Type: event.KeyDown, Key: "f"})
	step.Dispatch(&event.Event{Type: event.PointerDown})
	m.Close()
}

func TestClose_RemovesListeners(t *testing.T) {
	h := newHarness(t, ModePressAReleaseB, nil)
	if h.doc.TotalListeners() == 0 || h.step.TotalListeners() == 0 {
		t.Fatal("expected listeners before Close")
	}

	h.m.Close()
	h.m.Close()

	if n := h.doc.TotalListeners() + h.step.TotalListeners() + h.lang.TotalListeners(); n != 0 {
		t.Errorf("%d listeners left after Close", n)
	}
	h.keyDown("a")
	h.pointerDown()
	h.expect(t)
}

func TestListenersOnlyForActivePhases(t *testing.T) {
	tests := []struct {
		mode Mode
		// listener counts per phase
		keyDown, keyUp, pointerDown, pointerUp int
	}{
		// Two special-key listeners are always present on the document.
		{ModePressRelease, 2, 2, 1, 1},
		{ModePressPress, 2, 1, 1, 0},
		{ModeReleaseRelease, 1, 2, 0, 1},
		{ModePressAReleaseB, 2, 2, 1, 1},
		{ModePressAPressB, 2, 1, 1, 0},
		{ModeReleaseAReleaseB, 1, 2, 0, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newHarness(t, tt.mode, nil)
			got := []int{
				h.doc.ListenerCount(event.KeyDown),
				h.doc.ListenerCount(event.KeyUp),
				h.step.ListenerCount(event.PointerDown),
				h.step.ListenerCount(event.PointerUp),
			}
			want := []int{tt.keyDown, tt.keyUp, tt.pointerDown, tt.pointerUp}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("listener counts = %v, want %v", got, want)
			}
		})
	}
}

func TestPointerCancel(t *testing.T) {
	tests := []struct {
		mode Mode
		want []string
	}{
		// A held press ends; nothing else reacts to a cancelled press.
		{ModePressRelease, []string{"start", "stop"}},
		{ModePressPress, []string{"start"}},
		{ModeReleaseRelease, nil},
		{ModePressAReleaseB, []string{"start", "stop"}},
		{ModePressAPressB, []string{"start"}},
		{ModeReleaseAReleaseB, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			h := newHarness(t, tt.mode, nil)
			h.pointerDown()
			h.pointerCancel()
			h.expect(t, tt.want...)
		})
	}
}

func TestPointerCancel_IdleReleaseModes(t *testing.T) {
	for _, mode := range []Mode{ModeReleaseRelease, ModeReleaseAReleaseB} {
		h := newHarness(t, mode, nil)
		h.pointerCancel()
		if h.stepping {
			t.Errorf("%s: pointercancel started stepping", mode)
		}
		if n := h.step.ListenerCount(event.PointerCancel); n != 0 {
			t.Errorf("%s: %d pointercancel listeners, want 0", mode, n)
		}
	}
}
