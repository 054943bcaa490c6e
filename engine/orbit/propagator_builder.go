package orbit

import "log/slog"

// PropagatorOption is a functional option for configuring a Propagator.
type PropagatorOption func(*Propagator)

// WithMaxIterations sets the Newton-Raphson iteration budget.
//
// Parameters:
//   - n: maximum iterations (values < 1 are treated as 1)
//
// Returns:
//   - PropagatorOption: option function to apply
func WithMaxIterations(n int) PropagatorOption {
	return func(p *Propagator) {
		p.maxIterations = max(n, 1)
	}
}

// WithTolerance sets the |ΔE| convergence threshold.
//
// Parameters:
//   - tol: convergence threshold in radians (ignored when <= 0)
//
// Returns:
//   - PropagatorOption: option function to apply
func WithTolerance(tol float64) PropagatorOption {
	return func(p *Propagator) {
		if tol > 0 {
			p.tolerance = tol
		}
	}
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(logger *slog.Logger) PropagatorOption {
	return func(p *Propagator) {
		if logger != nil {
			p.logger = logger
		}
	}
}
