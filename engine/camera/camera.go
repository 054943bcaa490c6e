package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Projection selects how the camera maps view space to clip space.
type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

func (p Projection) String() string {
	switch p {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

type cameraImpl struct {
	mu *sync.Mutex

	projection Projection

	position   r3.Vec
	up         r3.Vec
	quaternion quat.Number

	fov    float64
	aspect float64
	near   float64
	far    float64
	zoom   float64

	// orthographic extents at zoom 1
	left, right, top, bottom float64
}

// Camera holds the pose and projection of the viewer. The pose is written by an
// OrbitController; the renderer reads the matrices once per frame.
type Camera interface {
	// Projection returns whether the camera is perspective or orthographic.
	Projection() Projection

	// Position returns the camera's world-space position.
	Position() r3.Vec

	// SetPosition moves the camera without changing its orientation.
	//
	// Parameters:
	//   - p: world-space position
	SetPosition(p r3.Vec)

	// Up returns the camera's world up vector.
	Up() r3.Vec

	// SetUp sets the world up vector used by LookAt.
	//
	// Parameters:
	//   - up: the up direction (normalized internally)
	SetUp(up r3.Vec)

	// Quaternion returns the camera orientation.
	Quaternion() quat.Number

	// Basis returns the camera's local right, up and backward axes in world space.
	// The camera looks down its negative backward axis.
	//
	// Returns:
	//   - right, up, backward: unit vectors
	Basis() (right, up, backward r3.Vec)

	// LookAt orients the camera toward target using the current up vector.
	//
	// Parameters:
	//   - target: world-space point to look at
	LookAt(target r3.Vec)

	// Fov returns the vertical field of view in radians.
	Fov() float64

	// SetFov sets the vertical field of view in radians.
	SetFov(fov float64)

	// Aspect returns the aspect ratio (width / height).
	Aspect() float64

	// SetAspect sets the aspect ratio. Orthographic cameras keep their vertical
	// extent and widen or narrow horizontally.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float64)

	// Near returns the near clipping distance.
	Near() float64

	// Far returns the far clipping distance.
	Far() float64

	// SetClip sets the near and far clipping distances.
	SetClip(near, far float64)

	// Zoom returns the orthographic zoom factor (1 = unzoomed).
	Zoom() float64

	// SetZoom sets the orthographic zoom factor.
	SetZoom(zoom float64)

	// OrthoBounds returns the orthographic view volume extents at zoom 1.
	OrthoBounds() (left, right, top, bottom float64)

	// ViewMatrix returns the world-to-view matrix.
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the view-to-clip matrix for WebGPU depth [0, 1].
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
	ViewProjectionMatrix() common.Mat4

	// Frustum returns the world-space culling planes of the current view.
	Frustum() common.Frustum
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera at (0, 0, 1) looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		projection: ProjectionPerspective,
		position:   r3.Vec{Z: 1},
		up:         r3.Vec{Y: 1},
		quaternion: common.QuatIdentity,
		fov:        45.0 * (math.Pi / 180.0),
		aspect:     1.0,
		near:       0.1,
		far:        10000.0,
		zoom:       1.0,
		left:       -1,
		right:      1,
		top:        1,
		bottom:     -1,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Position() r3.Vec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p r3.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) Up() r3.Vec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) SetUp(up r3.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r3.Norm2(up) == 0 {
		return
	}
	c.up = r3.Unit(up)
}

func (c *cameraImpl) Quaternion() quat.Number {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quaternion
}

func (c *cameraImpl) Basis() (right, up, backward r3.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.basis()
}

func (c *cameraImpl) LookAt(target r3.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	z := r3.Sub(c.position, target)
	if r3.Norm2(z) == 0 {
		z.Z = 1
	}
	z = r3.Unit(z)

	x := r3.Cross(c.up, z)
	if r3.Norm2(x) == 0 {
		// up and view direction are parallel; nudge the view axis off the pole
		if math.Abs(c.up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = r3.Unit(z)
		x = r3.Cross(c.up, z)
	}
	x = r3.Unit(x)
	y := r3.Cross(z, x)

	c.quaternion = common.QuatFromBasis(x, y, z)
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
}

func (c *cameraImpl) Aspect() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return
	}
	c.aspect = aspect
	halfHeight := (c.top - c.bottom) / 2
	centerX := (c.left + c.right) / 2
	c.left = centerX - halfHeight*aspect
	c.right = centerX + halfHeight*aspect
}

func (c *cameraImpl) Near() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetClip(near, far float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.far = far
}

func (c *cameraImpl) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if zoom <= 0 {
		return
	}
	c.zoom = zoom
}

func (c *cameraImpl) OrthoBounds() (left, right, top, bottom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left, c.right, c.top, c.bottom
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix()
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix()
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Mul4(c.projectionMatrix(), c.viewMatrix())
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	vp := common.Mul4(c.projectionMatrix(), c.viewMatrix())
	return common.ExtractFrustumFromMatrix(vp[:])
}

// basis returns the rotated unit axes. Caller must hold the mutex.
func (c *cameraImpl) basis() (right, up, backward r3.Vec) {
	rot := r3.Rotation(c.quaternion)
	return rot.Rotate(r3.Vec{X: 1}), rot.Rotate(r3.Vec{Y: 1}), rot.Rotate(r3.Vec{Z: 1})
}

// viewMatrix builds the world-to-view matrix from the pose. Caller must hold the mutex.
func (c *cameraImpl) viewMatrix() common.Mat4 {
	_, up, backward := c.basis()
	center := r3.Sub(c.position, backward)
	return common.LookAt(vec32(c.position), vec32(center), vec32(up))
}

// projectionMatrix builds the projection for the active mode. Caller must hold the mutex.
func (c *cameraImpl) projectionMatrix() common.Mat4 {
	if c.projection == ProjectionOrthographic {
		z := c.zoom
		cx, cy := (c.left+c.right)/2, (c.top+c.bottom)/2
		dx, dy := (c.right-c.left)/(2*z), (c.top-c.bottom)/(2*z)
		return common.Orthographic(
			float32(cx-dx), float32(cx+dx), float32(cy-dy), float32(cy+dy),
			float32(c.near), float32(c.far),
		)
	}
	return common.Perspective(float32(c.fov), float32(c.aspect), float32(c.near), float32(c.far))
}

func vec32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
