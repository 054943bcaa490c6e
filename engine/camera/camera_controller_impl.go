package camera

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/metrics"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	twoPi = 2 * math.Pi

	// changeEpsilon is the squared distance and orientation delta below which an
	// update is considered settle-jitter and no change event is emitted.
	changeEpsilon = 1e-6
	// polarEpsilon keeps phi off the poles.
	polarEpsilon = 1e-6
	// minRadius keeps the camera off the target when minDistance is 0.
	minRadius = 1e-6
)

type listenerEntry struct {
	id   int
	kind EventKind
	fn   Listener
}

// orbitControllerImpl is the single implementation of OrbitController.
// Input handlers write only to the pending fields (sphericalDelta, panOffset,
// scale); update is the only place the camera pose changes.
type orbitControllerImpl struct {
	mu *sync.Mutex

	camera Camera
	logger *slog.Logger

	enabled bool
	target  r3.Vec

	enableDamping bool
	dampingFactor float64

	enableZoom bool
	zoomSpeed  float64

	enableRotate bool
	rotateSpeed  float64

	enablePan          bool
	panSpeed           float64
	screenSpacePanning bool

	enableKeys  bool
	keyPanSpeed float64

	autoRotate      bool
	autoRotateSpeed float64

	minDistance, maxDistance         float64
	minZoom, maxZoom                 float64
	minPolarAngle, maxPolarAngle     float64
	minAzimuthAngle, maxAzimuthAngle float64

	viewport ViewportFunc
	focus    FocusFunc

	gesture        Gesture
	spherical      Spherical
	sphericalDelta Spherical
	scale          float64
	panOffset      r3.Vec
	zoomChanged    bool

	// upQuat rotates the camera's up vector onto +Y so the spherical math can
	// assume a Y-up world.
	upQuat        quat.Number
	upQuatInverse quat.Number

	lastPosition   r3.Vec
	lastQuaternion quat.Number

	rotateStart r2.Vec
	panStart    r2.Vec
	dollyStart  r2.Vec
	pinchStart  float64

	target0   r3.Vec
	position0 r3.Vec
	zoom0     float64

	listeners      []listenerEntry
	nextListenerID int

	degenerate    atomic.Uint64
	warnSometimes rate.Sometimes
}

// Compile-time interface compliance check
var _ OrbitController = &orbitControllerImpl{}

// NewOrbitController creates a controller that drives cam around a target point.
// The camera is pointed at the target immediately and the initial pose is saved
// for Reset.
//
// Parameters:
//   - cam: the camera to control (must not be nil)
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(cam Camera, options ...OrbitControllerOption) OrbitController {
	if cam == nil {
		panic("camera cannot be nil")
	}

	oc := &orbitControllerImpl{
		mu:     &sync.Mutex{},
		camera: cam,
		logger: slog.Default(),

		enabled: true,

		enableDamping: true,
		dampingFactor: 0.05,

		enableZoom: true,
		zoomSpeed:  1.0,

		enableRotate: true,
		rotateSpeed:  1.0,

		enablePan:          true,
		panSpeed:           1.0,
		screenSpacePanning: true,

		enableKeys:  true,
		keyPanSpeed: 7.0,

		autoRotateSpeed: 2.0,

		minDistance:     0,
		maxDistance:     math.Inf(1),
		minZoom:         0,
		maxZoom:         math.Inf(1),
		minPolarAngle:   0,
		maxPolarAngle:   math.Pi,
		minAzimuthAngle: math.Inf(-1),
		maxAzimuthAngle: math.Inf(1),

		viewport: func() (float64, float64) { return 800, 600 },

		scale: 1,

		warnSometimes: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}

	for _, option := range options {
		option(oc)
	}

	oc.upQuat = common.QuatFromUnitVectors(cam.Up(), r3.Vec{Y: 1})
	oc.upQuatInverse = common.QuatInverse(oc.upQuat)
	oc.lastPosition = cam.Position()
	oc.lastQuaternion = cam.Quaternion()

	oc.update(0)
	oc.saveState()
	return oc
}

// --- internal helpers ---

// update applies pending input to the camera and returns the events to dispatch.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) update(deltaTime float64) ([]Event, bool) {
	oc.followFocus()

	position := oc.camera.Position()
	offset := common.Rotate(oc.upQuat, r3.Sub(position, oc.target))
	if r3.Norm2(offset) == 0 || !finite(offset) {
		oc.holdDegenerate(position)
		return nil, false
	}

	s := sphericalFromVec(offset)

	if oc.autoRotate && oc.gesture == GestureNone {
		oc.rotateLeft(twoPi / 60 * oc.autoRotateSpeed * deltaTime)
	}

	if oc.enableDamping {
		s.Theta += oc.sphericalDelta.Theta * oc.dampingFactor
		s.Phi += oc.sphericalDelta.Phi * oc.dampingFactor
	} else {
		s.Theta += oc.sphericalDelta.Theta
		s.Phi += oc.sphericalDelta.Phi
	}

	s.Theta = clampAzimuth(s.Theta, oc.minAzimuthAngle, oc.maxAzimuthAngle)
	s.Phi = oc.clampPolar(s.Phi)

	if oc.camera.Projection() == ProjectionPerspective {
		s.Radius = common.Clamp(s.Radius*oc.scale, oc.minDistance, oc.maxDistance)
		s.Radius = math.Max(s.Radius, minRadius)
	} else if oc.scale != 1 {
		old := oc.camera.Zoom()
		zoom := common.Clamp(old/oc.scale, oc.minZoom, oc.maxZoom)
		if zoom > 0 && zoom != old {
			oc.camera.SetZoom(zoom)
			oc.zoomChanged = true
		}
	}

	if oc.enableDamping {
		oc.target = r3.Add(oc.target, r3.Scale(oc.dampingFactor, oc.panOffset))
	} else {
		oc.target = r3.Add(oc.target, oc.panOffset)
	}

	offset = common.Rotate(oc.upQuatInverse, vecFromSpherical(s))
	position = r3.Add(oc.target, offset)
	oc.camera.SetPosition(position)
	oc.camera.LookAt(oc.target)
	oc.spherical = s

	if oc.enableDamping {
		oc.sphericalDelta.Theta *= 1 - oc.dampingFactor
		oc.sphericalDelta.Phi *= 1 - oc.dampingFactor
		oc.panOffset = r3.Scale(1-oc.dampingFactor, oc.panOffset)
	} else {
		oc.sphericalDelta = Spherical{}
		oc.panOffset = r3.Vec{}
	}
	oc.scale = 1

	q := oc.camera.Quaternion()
	if oc.zoomChanged ||
		r3.Norm2(r3.Sub(oc.lastPosition, position)) > changeEpsilon ||
		8*(1-common.QuatDot(oc.lastQuaternion, q)) > changeEpsilon {
		oc.lastPosition = position
		oc.lastQuaternion = q
		oc.zoomChanged = false
		metrics.RecordCameraChange()
		return []Event{{Kind: EventChange, Gesture: oc.gesture}}, true
	}
	return nil, false
}

// followFocus moves the target and camera together onto the focused point.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) followFocus() {
	if oc.focus == nil {
		return
	}
	p, ok := oc.focus()
	if !ok || !finite(p) {
		return
	}
	shift := r3.Sub(p, oc.target)
	if shift != (r3.Vec{}) {
		oc.camera.SetPosition(r3.Add(oc.camera.Position(), shift))
		oc.target = p
	}
	// the followed point owns the target while focused
	oc.panOffset = r3.Vec{}
}

// holdDegenerate leaves the pose untouched and drops input that cannot be applied.
// Caller must hold the mutex.
func (oc *orbitControllerImpl) holdDegenerate(position r3.Vec) {
	oc.degenerate.Add(1)
	metrics.RecordDegenerateCamera()
	oc.sphericalDelta = Spherical{}
	oc.panOffset = r3.Vec{}
	oc.scale = 1
	oc.warnSometimes.Do(func() {
		oc.logger.Warn("holding previous camera pose",
			"error", ErrDegenerateGeometry,
			"position", position,
			"target", oc.target,
		)
	})
}

func (oc *orbitControllerImpl) rotateLeft(angle float64) {
	oc.sphericalDelta.Theta -= angle
}

func (oc *orbitControllerImpl) rotateUp(angle float64) {
	oc.sphericalDelta.Phi -= angle
}

// rotateBy converts a pixel drag into spherical deltas normalized by viewport height.
func (oc *orbitControllerImpl) rotateBy(dx, dy float64) {
	_, h := oc.viewport()
	if h <= 0 {
		return
	}
	oc.rotateLeft(twoPi * dx * oc.rotateSpeed / h)
	oc.rotateUp(twoPi * dy * oc.rotateSpeed / h)
}

func (oc *orbitControllerImpl) panLeft(distance float64) {
	right, _, _ := oc.camera.Basis()
	oc.panOffset = r3.Add(oc.panOffset, r3.Scale(-distance, right))
}

func (oc *orbitControllerImpl) panUp(distance float64) {
	right, up, _ := oc.camera.Basis()
	if !oc.screenSpacePanning {
		up = r3.Cross(oc.camera.Up(), right)
	}
	oc.panOffset = r3.Add(oc.panOffset, r3.Scale(distance, up))
}

// pan converts a pixel drag into a world-space target offset that tracks the
// apparent scene scale at the current distance or zoom.
func (oc *orbitControllerImpl) pan(dx, dy float64) {
	w, h := oc.viewport()
	if w <= 0 || h <= 0 {
		return
	}
	if oc.camera.Projection() == ProjectionPerspective {
		offset := r3.Sub(oc.camera.Position(), oc.target)
		targetDistance := r3.Norm(offset) * math.Tan(oc.camera.Fov()/2)
		oc.panLeft(2 * dx * targetDistance / h)
		oc.panUp(2 * dy * targetDistance / h)
		return
	}
	left, right, top, bottom := oc.camera.OrthoBounds()
	zoom := oc.camera.Zoom()
	oc.panLeft(dx * (right - left) / zoom / w)
	oc.panUp(dy * (top - bottom) / zoom / h)
}

func (oc *orbitControllerImpl) zoomScale() float64 {
	return math.Pow(0.95, oc.zoomSpeed)
}

func (oc *orbitControllerImpl) dollyOut(s float64) {
	oc.scale /= s
}

func (oc *orbitControllerImpl) dollyIn(s float64) {
	oc.scale *= s
}

// setTouchGesture derives the gesture from the number of contacts and returns
// start/end events for the transition. Caller must hold the mutex.
func (oc *orbitControllerImpl) setTouchGesture(touches []Touch) []Event {
	prev := oc.gesture
	next := GestureNone

	if oc.enabled {
		switch len(touches) {
		case 1:
			if oc.enableRotate {
				next = GestureTouchRotate
				oc.rotateStart = touchPoint(touches[0])
			}
		case 2:
			if oc.enableZoom || oc.enablePan {
				next = GestureTouchPanOrDolly
				a, b := touchPoint(touches[0]), touchPoint(touches[1])
				oc.pinchStart = r2.Norm(r2.Sub(a, b))
				oc.panStart = r2.Scale(0.5, r2.Add(a, b))
			}
		}
	}
	oc.gesture = next

	switch {
	case prev == GestureNone && next != GestureNone:
		return []Event{{Kind: EventStart, Gesture: next}}
	case prev != GestureNone && next == GestureNone:
		return []Event{{Kind: EventEnd, Gesture: prev}}
	}
	return nil
}

// mouseGesture reports whether a pointer gesture owns the controller. Touch
// input is ignored until it ends. Caller must hold the mutex.
func (oc *orbitControllerImpl) mouseGesture() bool {
	switch oc.gesture {
	case GestureRotate, GesturePan, GestureDolly:
		return true
	}
	return false
}

func (oc *orbitControllerImpl) saveState() {
	oc.target0 = oc.target
	oc.position0 = oc.camera.Position()
	oc.zoom0 = oc.camera.Zoom()
}

// unlockAndDispatch releases the mutex and delivers events to the listeners
// registered at the time of the call.
func (oc *orbitControllerImpl) unlockAndDispatch(events []Event) {
	if len(events) == 0 {
		oc.mu.Unlock()
		return
	}
	listeners := make([]listenerEntry, len(oc.listeners))
	copy(listeners, oc.listeners)
	oc.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			if l.kind == ev.Kind {
				l.fn(ev)
			}
		}
	}
}

func sphericalFromVec(v r3.Vec) Spherical {
	r := r3.Norm(v)
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math.Atan2(v.X, v.Z),
		Phi:    math.Acos(common.Clamp(v.Y/r, -1, 1)),
	}
}

// clampPolar keeps phi strictly inside the configured polar range, inset by
// polarEpsilon so the camera never reaches a bound or a pole. A range narrower
// than the inset collapses to its midpoint.
func (oc *orbitControllerImpl) clampPolar(phi float64) float64 {
	lo := math.Max(oc.minPolarAngle, 0) + polarEpsilon
	hi := math.Min(oc.maxPolarAngle, math.Pi) - polarEpsilon
	if lo > hi {
		return (oc.minPolarAngle + oc.maxPolarAngle) / 2
	}
	return common.Clamp(phi, lo, hi)
}

func vecFromSpherical(s Spherical) r3.Vec {
	sinPhiRadius := math.Sin(s.Phi) * s.Radius
	return r3.Vec{
		X: sinPhiRadius * math.Sin(s.Theta),
		Y: math.Cos(s.Phi) * s.Radius,
		Z: sinPhiRadius * math.Cos(s.Theta),
	}
}

// clampAzimuth clamps theta into [min, max]. Bounds are first wrapped into [-π, π];
// when the wrapped range crosses ±π (min > max) theta snaps to whichever bound
// lies on its side of the range midpoint.
func clampAzimuth(theta, min, max float64) float64 {
	if math.IsInf(min, 0) || math.IsInf(max, 0) || math.IsNaN(min) || math.IsNaN(max) {
		return theta
	}
	if min < -math.Pi {
		min += twoPi
	} else if min > math.Pi {
		min -= twoPi
	}
	if max < -math.Pi {
		max += twoPi
	} else if max > math.Pi {
		max -= twoPi
	}

	if min <= max {
		return common.Clamp(theta, min, max)
	}
	if theta > (min+max)/2 {
		return math.Max(min, theta)
	}
	return math.Min(max, theta)
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func touchPoint(t Touch) r2.Vec {
	return r2.Vec{X: t.X, Y: t.Y}
}

func hasPanModifier(m common.ModifierKey) bool {
	return m.Has(common.ModControl) || m.Has(common.ModSuper) || m.Has(common.ModShift)
}

// --- OrbitController implementation ---

func (oc *orbitControllerImpl) Update(deltaTime float64) bool {
	oc.mu.Lock()
	events, changed := oc.update(deltaTime)
	oc.unlockAndDispatch(events)
	return changed
}

func (oc *orbitControllerImpl) PointerDown(ev PointerEvent) {
	oc.mu.Lock()
	if !oc.enabled || oc.gesture != GestureNone {
		oc.mu.Unlock()
		return
	}

	p := r2.Vec{X: ev.X, Y: ev.Y}
	switch ev.Button {
	case common.MouseButtonLeft:
		if hasPanModifier(ev.Modifiers) {
			if oc.enablePan {
				oc.gesture = GesturePan
				oc.panStart = p
			}
		} else if oc.enableRotate {
			oc.gesture = GestureRotate
			oc.rotateStart = p
		}
	case common.MouseButtonMiddle:
		if oc.enableZoom {
			oc.gesture = GestureDolly
			oc.dollyStart = p
		}
	case common.MouseButtonRight:
		if oc.enablePan {
			oc.gesture = GesturePan
			oc.panStart = p
		}
	}

	var events []Event
	if oc.gesture != GestureNone {
		events = []Event{{Kind: EventStart, Gesture: oc.gesture}}
	}
	oc.unlockAndDispatch(events)
}

func (oc *orbitControllerImpl) PointerMove(ev PointerEvent) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.enabled {
		return
	}

	p := r2.Vec{X: ev.X, Y: ev.Y}
	switch oc.gesture {
	case GestureRotate:
		if !oc.enableRotate {
			return
		}
		d := r2.Sub(p, oc.rotateStart)
		oc.rotateBy(d.X, d.Y)
		oc.rotateStart = p
	case GestureDolly:
		if !oc.enableZoom {
			return
		}
		if dy := p.Y - oc.dollyStart.Y; dy > 0 {
			oc.dollyOut(oc.zoomScale())
		} else if dy < 0 {
			oc.dollyIn(oc.zoomScale())
		}
		oc.dollyStart = p
	case GesturePan:
		if !oc.enablePan {
			return
		}
		d := r2.Scale(oc.panSpeed, r2.Sub(p, oc.panStart))
		oc.pan(d.X, d.Y)
		oc.panStart = p
	}
}

// PointerUp ends whatever gesture is active.
func (oc *orbitControllerImpl) PointerUp(_ PointerEvent) {
	oc.mu.Lock()
	var events []Event
	if oc.gesture != GestureNone {
		events = []Event{{Kind: EventEnd, Gesture: oc.gesture}}
		oc.gesture = GestureNone
	}
	oc.unlockAndDispatch(events)
}

func (oc *orbitControllerImpl) Wheel(ev WheelEvent) {
	oc.mu.Lock()
	if !oc.enabled || !oc.enableZoom || (oc.gesture != GestureNone && oc.gesture != GestureRotate) || ev.DeltaY == 0 {
		oc.mu.Unlock()
		return
	}
	if ev.DeltaY < 0 {
		oc.dollyIn(oc.zoomScale())
	} else {
		oc.dollyOut(oc.zoomScale())
	}
	oc.unlockAndDispatch([]Event{
		{Kind: EventStart, Gesture: oc.gesture},
		{Kind: EventEnd, Gesture: oc.gesture},
	})
}

func (oc *orbitControllerImpl) TouchStart(ev TouchEvent) {
	oc.mu.Lock()
	if !oc.enabled || oc.mouseGesture() {
		oc.mu.Unlock()
		return
	}
	oc.unlockAndDispatch(oc.setTouchGesture(ev.Touches))
}

func (oc *orbitControllerImpl) TouchMove(ev TouchEvent) {
	oc.mu.Lock()
	if !oc.enabled {
		oc.mu.Unlock()
		return
	}

	switch {
	case oc.gesture == GestureTouchRotate && len(ev.Touches) == 1:
		if oc.enableRotate {
			p := touchPoint(ev.Touches[0])
			d := r2.Sub(p, oc.rotateStart)
			oc.rotateBy(d.X, d.Y)
			oc.rotateStart = p
		}
	case oc.gesture == GestureTouchPanOrDolly && len(ev.Touches) == 2:
		a, b := touchPoint(ev.Touches[0]), touchPoint(ev.Touches[1])
		if oc.enableZoom {
			dist := r2.Norm(r2.Sub(a, b))
			if oc.pinchStart > 0 && dist > 0 {
				oc.dollyOut(math.Pow(dist/oc.pinchStart, oc.zoomSpeed))
			}
			oc.pinchStart = dist
		}
		mid := r2.Scale(0.5, r2.Add(a, b))
		if oc.enablePan {
			d := r2.Scale(oc.panSpeed, r2.Sub(mid, oc.panStart))
			oc.pan(d.X, d.Y)
		}
		oc.panStart = mid
	case oc.gesture == GestureTouchRotate || oc.gesture == GestureTouchPanOrDolly:
		// contact count no longer matches the gesture
		oc.unlockAndDispatch(oc.setTouchGesture(ev.Touches))
		return
	}
	oc.mu.Unlock()
}

func (oc *orbitControllerImpl) TouchEnd(ev TouchEvent) {
	oc.mu.Lock()
	if len(ev.Changed) == 0 || oc.mouseGesture() {
		oc.mu.Unlock()
		return
	}
	oc.unlockAndDispatch(oc.setTouchGesture(ev.Touches))
}

func (oc *orbitControllerImpl) KeyDown(ev KeyEvent) bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if !oc.enabled || !oc.enableKeys {
		return false
	}

	rotate := hasPanModifier(ev.Modifiers)
	if rotate && !oc.enableRotate || !rotate && !oc.enablePan {
		return false
	}
	_, h := oc.viewport()
	step := 0.0
	if h > 0 {
		step = twoPi * oc.rotateSpeed / h
	}

	switch ev.Key {
	case common.KeyUp:
		if rotate {
			oc.rotateUp(step)
		} else {
			oc.pan(0, oc.keyPanSpeed)
		}
	case common.KeyDown:
		if rotate {
			oc.rotateUp(-step)
		} else {
			oc.pan(0, -oc.keyPanSpeed)
		}
	case common.KeyLeft:
		if rotate {
			oc.rotateLeft(step)
		} else {
			oc.pan(oc.keyPanSpeed, 0)
		}
	case common.KeyRight:
		if rotate {
			oc.rotateLeft(-step)
		} else {
			oc.pan(-oc.keyPanSpeed, 0)
		}
	default:
		return false
	}
	return true
}

func (oc *orbitControllerImpl) Dolly(factor float64) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	oc.scale *= factor
}

func (oc *orbitControllerImpl) Gesture() Gesture {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.gesture
}

func (oc *orbitControllerImpl) Camera() Camera {
	return oc.camera
}

func (oc *orbitControllerImpl) Target() r3.Vec {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitControllerImpl) SetTarget(target r3.Vec) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = target
}

func (oc *orbitControllerImpl) Spherical() Spherical {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.spherical
}

func (oc *orbitControllerImpl) Pending() Pending {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return Pending{
		ThetaDelta: oc.sphericalDelta.Theta,
		PhiDelta:   oc.sphericalDelta.Phi,
		PanOffset:  oc.panOffset,
		ZoomScale:  oc.scale,
	}
}

func (oc *orbitControllerImpl) Enabled() bool {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.enabled
}

func (oc *orbitControllerImpl) SetEnabled(enabled bool) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.enabled = enabled
}

func (oc *orbitControllerImpl) SetViewport(fn ViewportFunc) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if fn != nil {
		oc.viewport = fn
	}
}

func (oc *orbitControllerImpl) SetFocus(fn FocusFunc) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.focus = fn
}

func (oc *orbitControllerImpl) ClearFocus() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.focus = nil
}

func (oc *orbitControllerImpl) SaveState() {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.saveState()
}

func (oc *orbitControllerImpl) Reset() {
	oc.mu.Lock()
	oc.focus = nil
	oc.target = oc.target0
	oc.camera.SetPosition(oc.position0)
	oc.camera.SetZoom(oc.zoom0)
	oc.gesture = GestureNone
	oc.sphericalDelta = Spherical{}
	oc.panOffset = r3.Vec{}
	oc.scale = 1
	oc.zoomChanged = true

	events, _ := oc.update(0)
	oc.unlockAndDispatch(events)
}

func (oc *orbitControllerImpl) AddListener(kind EventKind, fn Listener) int {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.nextListenerID++
	oc.listeners = append(oc.listeners, listenerEntry{id: oc.nextListenerID, kind: kind, fn: fn})
	return oc.nextListenerID
}

func (oc *orbitControllerImpl) OnChange(fn Listener) int {
	return oc.AddListener(EventChange, fn)
}

func (oc *orbitControllerImpl) RemoveListener(id int) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	for i, l := range oc.listeners {
		if l.id == id {
			oc.listeners = append(oc.listeners[:i], oc.listeners[i+1:]...)
			return
		}
	}
}

func (oc *orbitControllerImpl) DegenerateCount() uint64 {
	return oc.degenerate.Load()
}
