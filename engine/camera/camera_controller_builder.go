package camera

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitControllerImpl)

// WithTarget sets the initial orbit pivot.
//
// Parameters:
//   - target: world-space pivot point
//
// Returns:
//   - OrbitControllerOption: functional option to set the target position
func WithTarget(target r3.Vec) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.target = target
	}
}

// WithDamping enables or disables inertia.
//
// Parameters:
//   - enabled: whether pending deltas decay over several frames
//   - factor: fraction of the pending delta applied per frame, in (0, 1)
//
// Returns:
//   - OrbitControllerOption: functional option to set damping
func WithDamping(enabled bool, factor float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.enableDamping = enabled
		if factor > 0 && factor < 1 {
			oc.dampingFactor = factor
		}
	}
}

// WithRotate enables rotation and sets its speed multiplier.
func WithRotate(enabled bool, speed float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.enableRotate = enabled
		oc.rotateSpeed = speed
	}
}

// WithDolly enables dolly and sets its speed exponent.
func WithDolly(enabled bool, speed float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.enableZoom = enabled
		oc.zoomSpeed = speed
	}
}

// WithPan enables panning and sets its speed multiplier.
//
// Parameters:
//   - enabled: whether pan gestures are accepted
//   - speed: pan speed multiplier
//   - screenSpace: pan along the camera up axis (true) or along the ground plane (false)
//
// Returns:
//   - OrbitControllerOption: functional option to set panning
func WithPan(enabled bool, speed float64, screenSpace bool) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.enablePan = enabled
		oc.panSpeed = speed
		oc.screenSpacePanning = screenSpace
	}
}

// WithKeys enables arrow-key control with the given pan step in pixels.
func WithKeys(enabled bool, keyPanSpeed float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.enableKeys = enabled
		oc.keyPanSpeed = keyPanSpeed
	}
}

// WithDistanceBounds sets the perspective dolly limits.
//
// Parameters:
//   - min: minimum distance from the target
//   - max: maximum distance from the target (math.Inf(1) for none)
//
// Returns:
//   - OrbitControllerOption: functional option to set distance bounds
func WithDistanceBounds(min, max float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minDistance = min
		oc.maxDistance = max
	}
}

// WithZoomBounds sets the orthographic zoom limits.
func WithZoomBounds(min, max float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minZoom = min
		oc.maxZoom = max
	}
}

// WithPolarBounds sets how far the camera may tilt, in radians from +Y.
//
// Parameters:
//   - min: minimum polar angle, at least 0
//   - max: maximum polar angle, at most π
//
// Returns:
//   - OrbitControllerOption: functional option to set polar bounds
func WithPolarBounds(min, max float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minPolarAngle = math.Max(0, min)
		oc.maxPolarAngle = math.Min(math.Pi, max)
	}
}

// WithAzimuthBounds sets how far the camera may swing around +Y, in radians.
// Infinite bounds disable the clamp. Ranges that wrap past ±π are supported.
//
// Parameters:
//   - min: minimum azimuth angle
//   - max: maximum azimuth angle
//
// Returns:
//   - OrbitControllerOption: functional option to set azimuth bounds
func WithAzimuthBounds(min, max float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.minAzimuthAngle = min
		oc.maxAzimuthAngle = max
	}
}

// WithAutoRotate spins the camera around the target while no gesture is active.
// A speed of 2 is one revolution every 30 seconds.
func WithAutoRotate(enabled bool, speed float64) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.autoRotate = enabled
		oc.autoRotateSpeed = speed
	}
}

// WithViewport sets the viewport size source used to normalize rotate and pan deltas.
func WithViewport(fn ViewportFunc) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		if fn != nil {
			oc.viewport = fn
		}
	}
}

// WithFocus makes the target follow fn from the first Update.
func WithFocus(fn FocusFunc) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		oc.focus = fn
	}
}

// WithLogger sets the logger used for controller diagnostics.
func WithLogger(logger *slog.Logger) OrbitControllerOption {
	return func(oc *orbitControllerImpl) {
		if logger != nil {
			oc.logger = logger
		}
	}
}
