package camera

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateGeometry is logged when the camera sits exactly on its target and
// no spherical coordinates can be derived. The controller holds the previous pose.
var ErrDegenerateGeometry = errors.New("camera position coincides with target")

// Gesture is the controller's active input gesture.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureRotate
	GesturePan
	GestureDolly
	GestureTouchRotate
	GestureTouchPanOrDolly
)

func (g Gesture) String() string {
	switch g {
	case GestureNone:
		return "none"
	case GestureRotate:
		return "rotate"
	case GesturePan:
		return "pan"
	case GestureDolly:
		return "dolly"
	case GestureTouchRotate:
		return "touch_rotate"
	case GestureTouchPanOrDolly:
		return "touch_pan_or_dolly"
	default:
		return "unknown"
	}
}

// EventKind identifies a controller notification.
type EventKind int

const (
	// EventChange fires from Update when the camera pose moved perceptibly.
	EventChange EventKind = iota
	// EventStart fires when a gesture or wheel impulse begins.
	EventStart
	// EventEnd fires when a gesture or wheel impulse ends.
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners.
type Event struct {
	Kind    EventKind
	Gesture Gesture
}

// Listener receives controller notifications. Listeners run synchronously on the
// caller's goroutine after the controller has released its lock.
type Listener func(Event)

// PointerEvent is a mouse press, release or motion in device pixels.
type PointerEvent struct {
	X, Y      float64
	Button    common.MouseButton
	Modifiers common.ModifierKey
}

// WheelEvent is a scroll impulse. Negative DeltaY scrolls up (zoom in).
type WheelEvent struct {
	DeltaY float64
}

// Touch is one active contact point.
type Touch struct {
	ID   int
	X, Y float64
}

// TouchEvent carries every contact still on the surface in Touches and the
// contacts that started, moved or ended in Changed.
type TouchEvent struct {
	Touches []Touch
	Changed []Touch
}

// KeyEvent is a key press.
type KeyEvent struct {
	Key       int
	Modifiers common.ModifierKey
}

// Spherical is a camera offset from the target in spherical coordinates.
// Phi is the polar angle from +Y, Theta the azimuth around +Y measured from +Z.
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

// Pending is the input accumulated since the last Update.
type Pending struct {
	ThetaDelta float64
	PhiDelta   float64
	PanOffset  r3.Vec
	ZoomScale  float64
}

// ViewportFunc reports the current drawable size in pixels.
type ViewportFunc func() (width, height float64)

// FocusFunc reports the world position the camera should orbit, and whether it is
// currently available.
type FocusFunc func() (r3.Vec, bool)

// OrbitController turns pointer, wheel, touch and key input into a damped orbital
// camera pose around a target point. Input handlers only accumulate deltas; the
// camera is moved exclusively by Update.
type OrbitController interface {
	// Update applies pending input to the camera. Call once per frame.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous frame (drives auto-rotate)
	//
	// Returns:
	//   - bool: true when the pose changed and a change event was emitted
	Update(deltaTime float64) bool

	// PointerDown starts a rotate, pan or dolly gesture depending on the button and modifiers.
	PointerDown(ev PointerEvent)

	// PointerMove feeds motion into the active gesture.
	PointerMove(ev PointerEvent)

	// PointerUp ends the active gesture.
	PointerUp(ev PointerEvent)

	// Wheel applies a dolly impulse while no gesture or a rotate gesture is active.
	Wheel(ev WheelEvent)

	// TouchStart begins a one-finger rotate or two-finger pan/dolly gesture.
	TouchStart(ev TouchEvent)

	// TouchMove feeds touch motion into the active gesture.
	TouchMove(ev TouchEvent)

	// TouchEnd ends or re-enters a touch gesture depending on the remaining contacts.
	TouchEnd(ev TouchEvent)

	// KeyDown pans (or rotates, with a modifier held) in response to arrow keys.
	//
	// Returns:
	//   - bool: true when the key was consumed
	KeyDown(ev KeyEvent) bool

	// Dolly scales the orbit radius multiplicatively on the next Update.
	// A factor above 1 moves the camera away from the target.
	//
	// Parameters:
	//   - factor: positive scale factor
	Dolly(factor float64)

	// Gesture returns the active gesture.
	Gesture() Gesture

	// Camera returns the controlled camera.
	Camera() Camera

	// Target returns the point the camera orbits.
	Target() r3.Vec

	// SetTarget moves the orbit pivot. The camera position is left in place.
	SetTarget(target r3.Vec)

	// Spherical returns the camera offset from the target as of the last Update.
	Spherical() Spherical

	// Pending returns the input accumulated but not yet fully applied.
	Pending() Pending

	// Enabled reports whether input is accepted.
	Enabled() bool

	// SetEnabled toggles input handling. Update keeps running while disabled.
	SetEnabled(enabled bool)

	// SetViewport replaces the viewport size source.
	SetViewport(fn ViewportFunc)

	// SetFocus makes the target follow a moving point. The camera keeps its offset.
	SetFocus(fn FocusFunc)

	// ClearFocus stops following and leaves the target where it is.
	ClearFocus()

	// SaveState records the current target, position and zoom for Reset.
	SaveState()

	// Reset restores the saved state and emits a change event.
	Reset()

	// AddListener registers fn for kind.
	//
	// Returns:
	//   - int: an id for RemoveListener
	AddListener(kind EventKind, fn Listener) int

	// OnChange registers fn for change events.
	OnChange(fn Listener) int

	// RemoveListener unregisters a listener.
	RemoveListener(id int)

	// DegenerateCount returns how many updates held the pose because the camera sat on the target.
	DegenerateCount() uint64
}
