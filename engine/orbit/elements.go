package orbit

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOrbitalElements is returned (wrapped in *ElementsError) when a body's
// elements cannot describe a closed Keplerian orbit.
var ErrInvalidOrbitalElements = errors.New("invalid orbital elements")

// ErrNonFiniteTime is returned when the simulation time is NaN or infinite.
var ErrNonFiniteTime = errors.New("simulation time is not finite")

// Elements holds the fixed Keplerian elements of one body.
// Angles are in radians, distances in scene units and periods in simulation days.
type Elements struct {
	// SemiMajorAxis is the mean distance from the central body (> 0).
	SemiMajorAxis float64
	// Eccentricity is the ellipse shape, in [0, 1).
	Eccentricity float64
	// Inclination tilts the orbital plane away from the ecliptic.
	Inclination float64
	// AscendingNode is the longitude of the ascending node (Ω).
	AscendingNode float64
	// ArgumentOfPeriapsis is the angle from the ascending node to periapsis (ω).
	ArgumentOfPeriapsis float64
	// MeanAnomalyAtEpoch is the phase at simulation time zero.
	MeanAnomalyAtEpoch float64
	// OrbitalPeriod is the time for one revolution (> 0).
	OrbitalPeriod float64
	// RotationPeriod is the spin period. Negative means retrograde spin, zero means no spin.
	RotationPeriod float64
}

// ElementsError describes which element failed validation.
type ElementsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ElementsError) Error() string {
	return fmt.Sprintf("%s: %s = %g %s", ErrInvalidOrbitalElements, e.Field, e.Value, e.Reason)
}

func (e *ElementsError) Unwrap() error {
	return ErrInvalidOrbitalElements
}

// Validate checks the invariants the propagator relies on.
//
// Returns:
//   - error: an *ElementsError wrapping ErrInvalidOrbitalElements, or nil
func (el Elements) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"semiMajorAxis", el.SemiMajorAxis},
		{"eccentricity", el.Eccentricity},
		{"inclination", el.Inclination},
		{"ascendingNode", el.AscendingNode},
		{"argumentOfPeriapsis", el.ArgumentOfPeriapsis},
		{"meanAnomalyAtEpoch", el.MeanAnomalyAtEpoch},
		{"orbitalPeriod", el.OrbitalPeriod},
		{"rotationPeriod", el.RotationPeriod},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ElementsError{Field: f.name, Value: f.value, Reason: "is not finite"}
		}
	}

	switch {
	case el.SemiMajorAxis <= 0:
		return &ElementsError{Field: "semiMajorAxis", Value: el.SemiMajorAxis, Reason: "must be positive"}
	case el.Eccentricity < 0 || el.Eccentricity >= 1:
		return &ElementsError{Field: "eccentricity", Value: el.Eccentricity, Reason: "must be in [0, 1)"}
	case el.OrbitalPeriod <= 0:
		return &ElementsError{Field: "orbitalPeriod", Value: el.OrbitalPeriod, Reason: "must be positive"}
	}
	return nil
}

// Periapsis returns the closest distance to the focus.
func (el Elements) Periapsis() float64 {
	return el.SemiMajorAxis * (1 - el.Eccentricity)
}

// Apoapsis returns the farthest distance from the focus.
func (el Elements) Apoapsis() float64 {
	return el.SemiMajorAxis * (1 + el.Eccentricity)
}

// Retrograde reports whether the body spins backwards.
func (el Elements) Retrograde() bool {
	return el.RotationPeriod < 0
}
