package body

import (
	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

// BodyBuilderOption is a functional option for configuring a Body during construction.
type BodyBuilderOption func(*bodyImpl)

// WithID sets the ID of the Body.
//
// Parameters:
//   - id: unique identifier for the Body
//
// Returns:
//   - BodyBuilderOption: functional option to set the ID
func WithID(id uint64) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.id = id
	}
}

// WithKind sets the display classification.
func WithKind(kind Kind) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.kind = kind
	}
}

// WithEnabled sets whether the Body is propagated and drawn.
//
// Parameters:
//   - enabled: true to update and render the body
//
// Returns:
//   - BodyBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.enabled.Store(enabled)
	}
}

// WithElements makes the Body orbit with the given elements.
//
// Parameters:
//   - el: the orbital elements
//
// Returns:
//   - BodyBuilderOption: functional option to set the elements
func WithElements(el orbit.Elements) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.elements = el
		b.orbiting = true
	}
}

// WithSpin gives a non-orbiting Body a rotation period in days (negative = retrograde).
func WithSpin(rotationPeriod float64) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.elements.RotationPeriod = rotationPeriod
	}
}

// WithPosition pins a non-orbiting Body at p.
func WithPosition(p r3.Vec) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.position = p
	}
}

// WithRadius sets the display radius in scene units.
func WithRadius(radius float64) BodyBuilderOption {
	return func(b *bodyImpl) {
		if radius > 0 {
			b.radius = radius
		}
	}
}

// WithColor sets the display color as linear RGBA.
func WithColor(color [4]float32) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.color = color
	}
}
