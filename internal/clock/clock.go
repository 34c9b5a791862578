// Package clock schedules fire-and-forget callbacks.
//
// Callers never block on a scheduled callback. Both schedulers run the
// callback on the caller's loop: Manual runs it inside Advance, Loop runs it
// when the Bubble Tea model hands back the FireMsg.
package clock

import (
	"sort"
	"time"
)

// Timer is a handle for a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already
	// ran or was stopped before.
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// DefaultManualResolution is the smallest delay a Manual scheduler honors.
const DefaultManualResolution = time.Millisecond

// Manual is a deterministic scheduler driven by virtual time.
type Manual struct {
	// Resolution is the minimum effective delay. Zero-delay callbacks that
	// reschedule themselves would otherwise never let virtual time advance.
	Resolution time.Duration

	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	at    time.Duration
	seq   uint64
	fn    func()
	owner *Manual
	done  bool
}

func (t *manualTask) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.owner.remove(t)
	return true
}

// NewManual creates a manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{Resolution: DefaultManualResolution}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// AfterFunc schedules fn at Now()+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < m.Resolution {
		d = m.Resolution
	}
	m.seq++
	t := &manualTask{at: m.now + d, seq: m.seq, fn: fn, owner: m}
	m.tasks = append(m.tasks, t)
	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].at != m.tasks[j].at {
			return m.tasks[i].at < m.tasks[j].at
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	return t
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	return len(m.tasks)
}

// NextDelay returns the time until the next callback and whether one exists.
func (m *Manual) NextDelay() (time.Duration, bool) {
	if len(m.tasks) == 0 {
		return 0, false
	}
	return m.tasks[0].at - m.now, true
}

// Advance moves virtual time forward by d, running every callback that
// becomes due, including callbacks scheduled by those callbacks. It returns
// the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	end := m.now + d
	fired := 0
	for len(m.tasks) > 0 && m.tasks[0].at <= end {
		t := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.now = t.at
		t.done = true
		t.fn()
		fired++
	}
	m.now = end
	return fired
}

// RunNext jumps to the next scheduled callback and runs it.
func (m *Manual) RunNext() bool {
	delay, ok := m.NextDelay()
	if !ok {
		return false
	}
	end := m.now + delay
	t := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.now = end
	t.done = true
	t.fn()
	return true
}

func (m *Manual) remove(t *manualTask) {
	for i, candidate := range m.tasks {
		if candidate == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
