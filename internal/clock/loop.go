package clock

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultLoopMinDelay mirrors the clamp browsers apply to nested timers.
const DefaultLoopMinDelay = 4 * time.Millisecond

// FireMsg is posted to the Bubble Tea program when a Loop timer elapses.
// The model must pass it to Loop.Handle.
type FireMsg struct {
	ID uint64
}

// Loop schedules callbacks with real timers but runs them on the Bubble Tea
// update goroutine. The timer goroutine only posts a FireMsg; the pending
// table is touched exclusively from the update loop, so it needs no lock.
type Loop struct {
	MinDelay time.Duration

	send    func(tea.Msg)
	nextID  uint64
	pending map[uint64]*loopTimer
}

type loopTimer struct {
	id    uint64
	fn    func()
	timer *time.Timer
	owner *Loop
}

func (t *loopTimer) Stop() bool {
	if _, ok := t.owner.pending[t.id]; !ok {
		return false
	}
	delete(t.owner.pending, t.id)
	t.timer.Stop()
	return true
}

// NewLoop creates an unbound loop scheduler. Call Bind before scheduling.
func NewLoop() *Loop {
	return &Loop{
		MinDelay: DefaultLoopMinDelay,
		pending:  make(map[uint64]*loopTimer),
	}
}

// Bind sets the function used to post messages, normally (*tea.Program).Send.
func (l *Loop) Bind(send func(tea.Msg)) {
	l.send = send
}

// AfterFunc schedules fn to run on the update loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	if l.send == nil {
		panic("clock: Loop.AfterFunc called before Bind")
	}
	if d < l.MinDelay {
		d = l.MinDelay
	}
	l.nextID++
	id := l.nextID
	send := l.send

	t := &loopTimer{id: id, fn: fn, owner: l}
	t.timer = time.AfterFunc(d, func() {
		send(FireMsg{ID: id})
	})
	l.pending[id] = t
	return t
}

// Handle runs the callback for msg if its timer is still pending. A FireMsg
// for a stopped timer is dropped. It reports whether a callback ran.
func (l *Loop) Handle(msg FireMsg) bool {
	t, ok := l.pending[msg.ID]
	if !ok {
		return false
	}
	delete(l.pending, msg.ID)
	t.fn()
	return true
}

// Pending returns the number of timers that have not run or been stopped.
func (l *Loop) Pending() int {
	return len(l.pending)
}
