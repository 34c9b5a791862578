// Package stepper drives a self-rescheduling loop whose delay shrinks by a
// tenth of the maximum delay on every step until it reaches zero.
package stepper

import (
	"time"

	"github.com/marcus/rtg/internal/clock"
	"github.com/marcus/rtg/internal/event"
)

// DefaultMaxDelay is the initial and ceiling delay between steps.
const DefaultMaxDelay = 200 * time.Millisecond

// decayDivisor sets the per-step decrement to maxDelay/10.
const decayDivisor = 10

// Stepper is idle until Start and runs until Stop.
type Stepper struct {
	OnStart event.Handler
	OnStep  event.Handler
	OnStop  event.Handler

	sched        clock.Scheduler
	maxDelay     time.Duration
	currentDelay time.Duration
	timer        clock.Timer
	gen          uint64
}

// Option configures a Stepper.
type Option func(*Stepper)

// WithMaxDelay sets the maximum delay. Non-positive values keep the default.
func WithMaxDelay(d time.Duration) Option {
	return func(s *Stepper) {
		if d > 0 {
			s.maxDelay = d
		}
	}
}

// New creates an idle stepper that schedules steps on sched.
func New(sched clock.Scheduler, opts ...Option) *Stepper {
	s := &Stepper{
		sched:    sched,
		maxDelay: DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Stepper) reset() {
	s.timer = nil
	s.currentDelay = s.maxDelay
}

// Start begins stepping. A running stepper is stopped first, so Start always
// restarts from the full delay. The first step runs before Start returns.
func (s *Stepper) Start() {
	if s.IsRunning() {
		s.Stop()
	}
	s.gen++
	s.OnStart.Call()
	s.step()
}

func (s *Stepper) step() {
	gen := s.gen
	s.OnStep.Call()
	// OnStep may have stopped or restarted the stepper.
	if s.gen != gen {
		return
	}
	s.currentDelay -= s.maxDelay / decayDivisor
	if s.currentDelay < 0 {
		s.currentDelay = 0
	}
	s.timer = s.sched.AfterFunc(s.currentDelay, s.fire)
}

// fire keeps the spent timer in place so IsRunning stays true during OnStep.
func (s *Stepper) fire() {
	s.step()
}

// Stop cancels the pending step and resets the delay. OnStop fires even if
// the stepper was idle.
func (s *Stepper) Stop() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	s.reset()
	s.OnStop.Call()
}

// IsRunning reports whether a step is scheduled.
func (s *Stepper) IsRunning() bool {
	return s.timer != nil
}

// CurrentDelay returns the delay used for the most recently scheduled step,
// or the maximum delay when idle.
func (s *Stepper) CurrentDelay() time.Duration {
	return s.currentDelay
}

// MaxDelay returns the configured maximum delay.
func (s *Stepper) MaxDelay() time.Duration {
	return s.maxDelay
}
