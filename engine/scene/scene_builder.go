package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/clock"
	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBodies adds initial bodies to the scene.
// Bodies without IDs will be assigned new IDs. Duplicate names panic.
//
// Parameters:
//   - bodies: the bodies to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBodies(bodies ...body.Body) SceneBuilderOption {
	return func(s *scene) {
		for _, b := range bodies {
			if err := s.addLocked(b); err != nil {
				panic("scene: " + err.Error())
			}
		}
	}
}

// WithClock replaces the default clock.
func WithClock(c *clock.Clock) SceneBuilderOption {
	return func(s *scene) {
		s.clk = c
	}
}

// WithPropagator replaces the default propagator.
func WithPropagator(p *orbit.Propagator) SceneBuilderOption {
	return func(s *scene) {
		s.prop = p
	}
}

// WithLogger sets the logger used for per-body propagation warnings.
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithComputeWorkers sets the number of worker goroutines used by GenerateOrbitPaths.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.computeWorkers = n
	}
}
