// Package driver schedules flock ticks from a frame clock and hosts a flock
// inside a goakt actor so a renderer only ever sees detached snapshots.
package driver

import "time"

// StepFunc advances a simulation by dt seconds.
type StepFunc func(dt float64)

// Loop turns wall-clock frames into simulation steps. It owns no simulation
// state: whatever StepFunc closes over is stepped.
type Loop struct {
	step   StepFunc
	last   time.Time
	primed bool
	paused bool
	frames uint64
}

// NewLoop returns a Loop calling step once per frame.
func NewLoop(step StepFunc) *Loop {
	return &Loop{step: step}
}

// Frame records a frame at now and steps by the seconds elapsed since the
// previous frame. The first frame, and the first one after Restart, steps by 0.
// A paused loop keeps its clock but does not step. Frame returns the dt passed
// to the step, or 0 when paused.
func (l *Loop) Frame(now time.Time) float64 {
	dt := 0.0
	if l.primed {
		dt = now.Sub(l.last).Seconds()
	}
	l.last = now
	l.primed = true

	if l.paused {
		return 0
	}
	l.frames++
	l.step(dt)
	return dt
}

// SetPaused stops or resumes stepping.
func (l *Loop) SetPaused(paused bool) { l.paused = paused }

// Paused reports whether stepping is suspended.
func (l *Loop) Paused() bool { return l.paused }

// Restart forgets the previous frame time.
func (l *Loop) Restart() {
	l.primed = false
	l.frames = 0
}

// Frames returns how many frames have stepped since creation or Restart.
func (l *Loop) Frames() uint64 { return l.frames }
