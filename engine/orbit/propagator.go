package orbit

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/engine/metrics"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r3"
)

// State is the per-body result of one propagation. It is recomputed wholesale
// every step and never patched in place.
type State struct {
	MeanAnomaly      float64
	EccentricAnomaly float64
	TrueAnomaly      float64
	// Radius is the current distance from the focus.
	Radius float64
	// Position is in scene space: ecliptic plane = XZ, north = +Y.
	Position r3.Vec
	// RotationAngle is the spin about the body's own axis, negative when retrograde.
	RotationAngle float64
	// Converged is false when the Kepler solve ran out of iterations.
	Converged  bool
	Iterations int
}

// Propagator converts simulation time into body states. Its results depend only on
// (elements, time); the only mutable state is the non-convergence counter.
type Propagator struct {
	maxIterations int
	tolerance     float64
	logger        *slog.Logger

	nonConvergent atomic.Uint64
	warnSometimes rate.Sometimes
}

// NewPropagator creates a Propagator with the default solver budget.
//
// Parameters:
//   - options: functional options to configure the propagator
//
// Returns:
//   - *Propagator: the newly created propagator
func NewPropagator(options ...PropagatorOption) *Propagator {
	p := &Propagator{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
		logger:        slog.Default(),
		warnSometimes: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// ComputePosition propagates one body to simulationTime (days, may be negative).
//
// Parameters:
//   - el: the body's orbital elements
//   - simulationTime: cumulative simulation clock in days
//
// Returns:
//   - State: the body's state at simulationTime
//   - error: ErrInvalidOrbitalElements (wrapped) or ErrNonFiniteTime
func (p *Propagator) ComputePosition(el Elements, simulationTime float64) (State, error) {
	if err := el.Validate(); err != nil {
		return State{}, err
	}
	if math.IsNaN(simulationTime) || math.IsInf(simulationTime, 0) {
		return State{}, fmt.Errorf("%w: %v", ErrNonFiniteTime, simulationTime)
	}

	e := el.Eccentricity
	M := NormalizeAngle(el.MeanAnomalyAtEpoch + (simulationTime/el.OrbitalPeriod)*twoPi)

	E, iterations, converged := solveKepler(M, e, p.tolerance, p.maxIterations)
	if !converged {
		p.nonConvergent.Add(1)
		metrics.RecordNonConvergentSolve()
		p.warnSometimes.Do(func() {
			p.logger.Warn("kepler solve did not converge",
				"mean_anomaly", M,
				"eccentricity", e,
				"iterations", iterations,
				"estimate", E,
			)
		})
	}

	nu := TrueAnomaly(E, e)
	r := el.SemiMajorAxis * (1 - e*math.Cos(E))

	return State{
		MeanAnomaly:      M,
		EccentricAnomaly: E,
		TrueAnomaly:      nu,
		Radius:           r,
		Position:         orient(el, nu, r),
		RotationAngle:    SpinAngle(el, simulationTime),
		Converged:        converged,
		Iterations:       iterations,
	}, nil
}

// SamplePath returns n points around the orbit at uniform eccentric-anomaly steps,
// starting at periapsis. Used to draw orbit lines.
//
// Parameters:
//   - el: the body's orbital elements
//   - n: number of samples (minimum 3)
//
// Returns:
//   - []r3.Vec: the sampled positions in scene space
//   - error: ErrInvalidOrbitalElements (wrapped) if el is invalid
func (p *Propagator) SamplePath(el Elements, n int) ([]r3.Vec, error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	n = max(n, 3)

	points := make([]r3.Vec, n)
	for k := range points {
		E := twoPi * float64(k) / float64(n)
		r := el.SemiMajorAxis * (1 - el.Eccentricity*math.Cos(E))
		points[k] = orient(el, TrueAnomaly(E, el.Eccentricity), r)
	}
	return points, nil
}

// NonConvergentCount returns how many solves ran out of iterations.
func (p *Propagator) NonConvergentCount() uint64 {
	return p.nonConvergent.Load()
}

// SpinAngle returns the body's rotation about its own axis at simulationTime,
// derived from absolute time: ±(2π·t/|P|) wrapped, negative for retrograde spin.
// A zero rotation period means the body does not spin.
func SpinAngle(el Elements, simulationTime float64) float64 {
	if el.RotationPeriod == 0 {
		return 0
	}
	angle := NormalizeAngle(twoPi * simulationTime / math.Abs(el.RotationPeriod))
	if el.RotationPeriod < 0 {
		return -angle
	}
	return angle
}

// orient rotates the in-plane position (r, ν) by ω, i and Ω, then maps ecliptic
// (X, Y, Z) to scene (x, z, y). With Ω = ω = i = 0 this is x = r·cos ν, z = r·sin ν.
func orient(el Elements, nu, r float64) r3.Vec {
	sinU, cosU := math.Sincos(el.ArgumentOfPeriapsis + nu)
	sinO, cosO := math.Sincos(el.AscendingNode)
	sinI, cosI := math.Sincos(el.Inclination)

	X := r * (cosO*cosU - sinO*sinU*cosI)
	Y := r * (sinO*cosU + cosO*sinU*cosI)
	Z := r * (sinU * sinI)
	return r3.Vec{X: X, Y: Z, Z: Y}
}
