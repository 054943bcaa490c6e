package camera

import "gonum.org/v1/gonum/spatial/r3"

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithPosition(p r3.Vec) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithUp sets the camera's world up vector.
//
// Parameters:
//   - up: the up direction; zero vectors are ignored
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up r3.Vec) CameraBuilderOption {
	return func(c *cameraImpl) {
		if r3.Norm2(up) > 0 {
			c.up = r3.Unit(up)
		}
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
func WithAspect(aspect float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithClip sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets both planes
func WithClip(near, far float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithOrthographic switches the camera to an orthographic projection with the
// given half-height. The horizontal extent follows the aspect ratio.
//
// Parameters:
//   - halfHeight: half of the visible height in world units at zoom 1
//
// Returns:
//   - CameraBuilderOption: a function that sets orthographic mode
func WithOrthographic(halfHeight float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionOrthographic
		c.top = halfHeight
		c.bottom = -halfHeight
		c.left = -halfHeight * c.aspect
		c.right = halfHeight * c.aspect
	}
}

// WithZoom sets the initial orthographic zoom.
func WithZoom(zoom float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		if zoom > 0 {
			c.zoom = zoom
		}
	}
}
