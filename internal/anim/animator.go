// Package anim steps a marker along a precomputed parameter path.
//
// An [Animator] owns the path and its cursor. It never schedules itself:
// an external timer calls [Animator.Tick] every [Animator.Period] and stops
// once Tick reports anything other than [Advanced].
package anim

import (
	"errors"
	"time"

	"github.com/san-kum/losscape/internal/field"
)

// DefaultPeriod is the tick period used until SetPeriod is called.
const DefaultPeriod = 60 * time.Millisecond

var (
	ErrEmptyPath = errors.New("anim: empty path")
	ErrNoPath    = errors.New("anim: no path loaded")
	ErrBadPeriod = errors.New("anim: period must be positive")
)

// Status is the outcome of a Tick.
type Status int

const (
	// Idle means no path is loaded; the tick was a no-op.
	Idle Status = iota
	// Paused means the animator is paused; the tick was a no-op.
	Paused
	// Advanced means the cursor moved one step.
	Advanced
	// Exhausted means the cursor is on the last point and cannot advance.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Advanced:
		return "advanced"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Animator holds the active path and the cursor into it.
// Not safe for concurrent use; drive it from one goroutine.
type Animator struct {
	path      []field.Param
	index     int
	current   field.Param
	paused    bool
	exhausted bool
	period    time.Duration
}

// New returns an animator with no path, resting at the origin.
func New() *Animator {
	return &Animator{period: DefaultPeriod}
}

// SetPath replaces the path and rewinds to its first point, running.
func (a *Animator) SetPath(path []field.Param) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	a.path = append([]field.Param(nil), path...)
	a.index = 0
	a.current = a.path[0]
	a.paused = false
	a.exhausted = false
	return nil
}

// Tick advances the cursor by one step. It is safe to call at any time.
func (a *Animator) Tick() Status {
	if len(a.path) == 0 {
		return Idle
	}
	if a.exhausted {
		return Exhausted
	}
	if a.paused {
		return Paused
	}
	if a.index+1 >= len(a.path) {
		a.exhausted = true
		return Exhausted
	}
	a.index++
	a.current = a.path[a.index]
	return Advanced
}

// Pause freezes the cursor; Tick reports Paused until Resume.
func (a *Animator) Pause() error {
	if len(a.path) == 0 {
		return ErrNoPath
	}
	a.paused = true
	return nil
}

// Resume lets Tick advance again.
func (a *Animator) Resume() error {
	if len(a.path) == 0 {
		return ErrNoPath
	}
	a.paused = false
	return nil
}

// ResetToStart rewinds to the first point without dropping the path. The
// animator is left paused; call Resume to run again. Without a path the
// current point returns to the origin.
func (a *Animator) ResetToStart() {
	a.index = 0
	a.exhausted = false
	if len(a.path) == 0 {
		a.current = field.Param{}
		return
	}
	a.current = a.path[0]
	a.paused = true
}

// Clear drops the path, e.g. after the data points were regenerated.
func (a *Animator) Clear() {
	a.path = nil
	a.index = 0
	a.current = field.Param{}
	a.paused = false
	a.exhausted = false
}

// SetPeriod changes how often the driving timer should call Tick.
func (a *Animator) SetPeriod(d time.Duration) error {
	if d <= 0 {
		return ErrBadPeriod
	}
	a.period = d
	return nil
}

func (a *Animator) Period() time.Duration { return a.period }
func (a *Animator) Current() field.Param { return a.current }
func (a *Animator) Index() int { return a.index }
func (a *Animator) Len() int { return len(a.path) }
func (a *Animator) Paused() bool { return a.paused }
func (a *Animator) Exhausted() bool { return a.exhausted }
func (a *Animator) HasPath() bool { return len(a.path) > 0 }
func (a *Animator) Path() []field.Param { return append([]field.Param(nil), a.path...) }

// Running reports whether a timer should currently be driving Tick.
func (a *Animator) Running() bool {
	return len(a.path) > 0 && !a.paused && !a.exhausted
}
