package stepper

import (
	"testing"
	"time"

	"github.com/marcus/rtg/internal/clock"
)

func TestNew_Defaults(t *testing.T) {
	s := New(clock.NewManual())
	if s.MaxDelay() != DefaultMaxDelay {
		t.Errorf("MaxDelay() = %v, want %v", s.MaxDelay(), DefaultMaxDelay)
	}
	if s.CurrentDelay() != DefaultMaxDelay {
		t.Errorf("CurrentDelay() = %v, want %v", s.CurrentDelay(), DefaultMaxDelay)
	}
	if s.IsRunning() {
		t.Error("new stepper should be idle")
	}
}

func TestWithMaxDelay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{"custom", 100 * time.Millisecond, 100 * time.Millisecond},
		{"zero keeps default", 0, DefaultMaxDelay},
		{"negative keeps default", -time.Second, DefaultMaxDelay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(clock.NewManual(), WithMaxDelay(tt.in))
			if s.MaxDelay() != tt.want {
				t.Errorf("MaxDelay() = %v, want %v", s.MaxDelay(), tt.want)
			}
		})
	}
}

func TestStart_FiresStartAndImmediateStep(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)

	var calls []string
	s.OnStart = func() { calls = append(calls, "start") }
	s.OnStep = func() { calls = append(calls, "step") }

	s.Start()

	if len(calls) != 2 || calls[0] != "start" || calls[1] != "step" {
		t.Fatalf("calls = %v, want [start step]", calls)
	}
	if !s.IsRunning() {
		t.Error("IsRunning() should be true after Start")
	}
	if s.CurrentDelay() != 180*time.Millisecond {
		t.Errorf("CurrentDelay() = %v, want 180ms", s.CurrentDelay())
	}
	if sched.Pending() != 1 {
		t.Errorf("pending timers = %d, want 1", sched.Pending())
	}
}

func TestStep_DelayDecaysAndFloorsAtZero(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	steps := 0
	s.OnStep = func() { steps++ }

	s.Start()

	want := []time.Duration{180, 160, 140, 120, 100, 80, 60, 40, 20, 0, 0, 0}
	prev := s.CurrentDelay()
	for i, w := range want {
		if i > 0 {
			if !sched.RunNext() {
				t.Fatalf("step %d: nothing scheduled", i)
			}
		}
		got := s.CurrentDelay()
		if got != w*time.Millisecond {
			t.Errorf("step %d: CurrentDelay() = %v, want %v", i, got, w*time.Millisecond)
		}
		if got > prev {
			t.Errorf("step %d: delay increased from %v to %v", i, prev, got)
		}
		if got < 0 {
			t.Errorf("step %d: negative delay %v", i, got)
		}
		if sched.Pending() != 1 {
			t.Errorf("step %d: pending timers = %d, want 1", i, sched.Pending())
		}
		prev = got
	}
	if steps != len(want) {
		t.Errorf("steps = %d, want %d", steps, len(want))
	}
}

func TestStep_ManyStepsAfterFloor(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	steps := 0
	s.OnStep = func() { steps++ }

	s.Start()
	// 180+160+...+20 = 900ms until the delay reaches zero.
	sched.Advance(900 * time.Millisecond)
	before := steps
	sched.Advance(50 * time.Millisecond)

	if steps-before != 50 {
		t.Errorf("steps in 50ms after floor = %d, want 50 at 1ms resolution", steps-before)
	}
	if s.CurrentDelay() != 0 {
		t.Errorf("CurrentDelay() = %v, want 0", s.CurrentDelay())
	}
}

func TestStop_ResetsState(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	stops := 0
	s.OnStop = func() { stops++ }

	s.Start()
	sched.RunNext()
	sched.RunNext()
	s.Stop()

	if s.IsRunning() {
		t.Error("IsRunning() should be false after Stop")
	}
	if s.CurrentDelay() != DefaultMaxDelay {
		t.Errorf("CurrentDelay() = %v, want %v", s.CurrentDelay(), DefaultMaxDelay)
	}
	if sched.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", sched.Pending())
	}
	if stops != 1 {
		t.Errorf("OnStop calls = %d, want 1", stops)
	}

	s.Start()
	if s.CurrentDelay() != 180*time.Millisecond {
		t.Errorf("restart CurrentDelay() = %v, want 180ms (no residual decay)", s.CurrentDelay())
	}
}

func TestStop_ImmediatelyAfterStart(t *testing.T) {
	s := New(clock.NewManual())
	s.Start()
	s.Stop()
	if s.IsRunning() {
		t.Error("IsRunning() should be false")
	}
}

func TestStop_WhenIdleStillFiresOnStop(t *testing.T) {
	s := New(clock.NewManual())
	stops := 0
	s.OnStop = func() { stops++ }

	s.Stop()
	s.Stop()

	if stops != 2 {
		t.Errorf("OnStop calls = %d, want 2", stops)
	}
	if s.IsRunning() {
		t.Error("idle stepper should stay idle")
	}
}

func TestStart_WhileRunningRestarts(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	var calls []string
	s.OnStart = func() { calls = append(calls, "start") }
	s.OnStop = func() { calls = append(calls, "stop") }

	s.Start()
	sched.RunNext()
	sched.RunNext()
	s.Start()

	want := []string{"start", "stop", "start"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	if sched.Pending() != 1 {
		t.Errorf("pending timers = %d, want 1 (no dangling timer)", sched.Pending())
	}
	if s.CurrentDelay() != 180*time.Millisecond {
		t.Errorf("CurrentDelay() = %v, want 180ms", s.CurrentDelay())
	}
}

func TestNilCallbacksAreSkipped(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	s.Start()
	sched.Advance(time.Second)
	s.Stop()
}

func TestOnStep_StopInsideStep(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	steps := 0
	s.OnStep = func() {
		steps++
		if steps == 3 {
			s.Stop()
		}
	}

	s.Start()
	sched.Advance(time.Second)

	if steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
	if s.IsRunning() {
		t.Error("stepper should be idle after stopping inside OnStep")
	}
	if sched.Pending() != 0 {
		t.Errorf("pending timers = %d, want 0", sched.Pending())
	}
}

func TestOnStep_StopInsideFirstStep(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	s.OnStep = s.Stop

	s.Start()

	if s.IsRunning() || sched.Pending() != 0 {
		t.Error("stop during the first step must not leave a timer behind")
	}
}

func TestIsRunning_TrueDuringScheduledStep(t *testing.T) {
	sched := clock.NewManual()
	s := New(sched)
	var seen []bool
	s.OnStep = func() { seen = append(seen, s.IsRunning()) }

	s.Start()
	sched.RunNext()

	if len(seen) != 2 || seen[1] != true {
		t.Errorf("IsRunning during scheduled step = %v, want true", seen)
	}
}
