package orbit

import (
	"math"
)

const (
	twoPi = 2 * math.Pi

	// DefaultTolerance is the |ΔE| below which Newton-Raphson stops.
	DefaultTolerance = 1e-6
	// DefaultMaxIterations bounds the Newton-Raphson loop.
	DefaultMaxIterations = 50
)

// NormalizeAngle wraps an angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a -= twoPi
	}
	return a
}

// SolveKepler solves M = E - e·sin(E) for the eccentric anomaly E with the
// default tolerance and iteration budget.
//
// Parameters:
//   - meanAnomaly: M in radians
//   - eccentricity: e in [0, 1)
//
// Returns:
//   - float64: the eccentric anomaly (best estimate when not converged)
//   - bool: false when the iteration budget ran out first
func SolveKepler(meanAnomaly, eccentricity float64) (float64, bool) {
	E, _, ok := solveKepler(meanAnomaly, eccentricity, DefaultTolerance, DefaultMaxIterations)
	return E, ok
}

// solveKepler runs Newton-Raphson from E₀ = M. It returns the estimate, the number
// of iterations used and whether |ΔE| dropped below tol.
func solveKepler(M, e, tol float64, maxIterations int) (float64, int, bool) {
	E := M
	for i := 1; i <= maxIterations; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < tol {
			return E, i, true
		}
	}
	return E, maxIterations, false
}

// TrueAnomaly converts an eccentric anomaly to the true anomaly using the
// half-angle form ν = E + 2·atan2(β·sin E, 1 − β·cos E), β = e / (1 + √(1−e²)).
// The result is wrapped into [0, 2π).
func TrueAnomaly(eccentricAnomaly, eccentricity float64) float64 {
	beta := eccentricity / (1 + math.Sqrt(1-eccentricity*eccentricity))
	sinE, cosE := math.Sincos(eccentricAnomaly)
	return NormalizeAngle(eccentricAnomaly + 2*math.Atan2(beta*sinE, 1-beta*cosE))
}

// EccentricFromTrue is the inverse of TrueAnomaly, wrapped into [0, 2π).
func EccentricFromTrue(trueAnomaly, eccentricity float64) float64 {
	sinNu, cosNu := math.Sincos(trueAnomaly)
	return NormalizeAngle(math.Atan2(math.Sqrt(1-eccentricity*eccentricity)*sinNu, eccentricity+cosNu))
}

// MeanFromEccentric evaluates Kepler's equation, wrapped into [0, 2π).
func MeanFromEccentric(eccentricAnomaly, eccentricity float64) float64 {
	return NormalizeAngle(eccentricAnomaly - eccentricity*math.Sin(eccentricAnomaly))
}
