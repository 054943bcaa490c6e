package clock

import (
	"math"
	"sync"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// J2000 is the Julian day of the default epoch, 2000-01-01 12:00 TT.
const J2000 = 2451545.0

// Clock is the cumulative simulation clock in days. Real frame time is scaled by
// the time multiplier before it is added, so positions derive from absolute
// simulation time rather than accumulated per-body state.
type Clock struct {
	mu *sync.Mutex

	epoch       float64 // Julian day at simulation time zero
	startTime   float64
	simTime     float64
	timeScale   float64 // simulation days per real second
	paused      bool
	maxTimeStep float64 // largest real dt accepted per Advance, in seconds
}

// ClockOption is a functional option for configuring a Clock.
type ClockOption func(*Clock)

// WithEpoch sets the calendar instant that simulation time zero corresponds to.
//
// Parameters:
//   - epoch: the instant of simulation time zero
//
// Returns:
//   - ClockOption: option function to apply
func WithEpoch(epoch time.Time) ClockOption {
	return func(c *Clock) {
		c.epoch = julian.TimeToJD(epoch)
	}
}

// WithStartTime sets the initial simulation time in days, also used by Reset.
func WithStartTime(days float64) ClockOption {
	return func(c *Clock) {
		if !math.IsNaN(days) && !math.IsInf(days, 0) {
			c.startTime = days
		}
	}
}

// WithTimeScale sets the initial simulation days advanced per real second.
func WithTimeScale(scale float64) ClockOption {
	return func(c *Clock) {
		if !math.IsNaN(scale) && !math.IsInf(scale, 0) {
			c.timeScale = scale
		}
	}
}

// WithMaxTimeStep caps the real time accepted by a single Advance, so a stalled
// frame (window drag, debugger) does not fling the bodies forward.
func WithMaxTimeStep(d time.Duration) ClockOption {
	return func(c *Clock) {
		if d > 0 {
			c.maxTimeStep = d.Seconds()
		}
	}
}

// WithPaused starts the clock paused.
func WithPaused(paused bool) ClockOption {
	return func(c *Clock) {
		c.paused = paused
	}
}

// NewClock creates a Clock at J2000 advancing one simulation day per real second.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - *Clock: the newly created clock
func NewClock(options ...ClockOption) *Clock {
	c := &Clock{
		mu:          &sync.Mutex{},
		epoch:       J2000,
		timeScale:   1,
		maxTimeStep: 1,
	}
	for _, option := range options {
		option(c)
	}
	c.simTime = c.startTime
	return c
}

// Advance moves simulation time forward by realSeconds scaled by the time multiplier.
// Paused clocks and non-finite or negative inputs leave the time unchanged.
//
// Parameters:
//   - realSeconds: elapsed wall-clock time since the previous frame
//
// Returns:
//   - float64: the simulation time after advancing, in days
func (c *Clock) Advance(realSeconds float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || realSeconds <= 0 || math.IsNaN(realSeconds) || math.IsInf(realSeconds, 0) {
		return c.simTime
	}
	c.simTime += math.Min(realSeconds, c.maxTimeStep) * c.timeScale
	return c.simTime
}

// Time returns the simulation time in days since the epoch.
func (c *Clock) Time() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.simTime
}

// SetTime jumps to an absolute simulation time in days. Non-finite values are ignored.
func (c *Clock) SetTime(days float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return
	}
	c.simTime = days
}

// TimeScale returns the simulation days advanced per real second.
func (c *Clock) TimeScale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeScale
}

// SetTimeScale sets the simulation days advanced per real second. Negative
// values run time backwards.
func (c *Clock) SetTimeScale(scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return
	}
	c.timeScale = scale
}

// Paused reports whether Advance is currently a no-op.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Pause stops the clock.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume restarts the clock.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// TogglePause flips the paused state and returns the new state.
func (c *Clock) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = !c.paused
	return c.paused
}

// Reset returns to the start time. The time scale and pause state are kept.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.simTime = c.startTime
}

// Date returns the calendar instant (UTC) of the current simulation time.
func (c *Clock) Date() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return julian.JDToTime(c.epoch + c.simTime).UTC()
}

// DaysSince returns the simulation time, in days relative to this clock's epoch,
// that corresponds to t.
func (c *Clock) DaysSince(t time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return julian.TimeToJD(t) - c.epoch
}

// DaysSinceJ2000 converts a calendar instant to days since the J2000 epoch.
//
// Parameters:
//   - t: the instant to convert
//
// Returns:
//   - float64: days since 2000-01-01 12:00
func DaysSinceJ2000(t time.Time) float64 {
	return julian.TimeToJD(t) - J2000
}
