package camera

import (
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const frame = 1.0 / 60

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func fixedViewport(w, h float64) ViewportFunc {
	return func() (float64, float64) { return w, h }
}

// newTestController returns a controller whose camera sits 50 units down +Z from the origin.
func newTestController(options ...OrbitControllerOption) OrbitController {
	cam := NewCamera(WithPosition(r3.Vec{Z: 50}))
	base := []OrbitControllerOption{
		WithViewport(fixedViewport(800, 600)),
		WithLogger(testLogger()),
	}
	return NewOrbitController(cam, append(base, options...)...)
}

func drag(oc OrbitController, button common.MouseButton, mods common.ModifierKey, dx, dy float64) {
	oc.PointerDown(PointerEvent{X: 100, Y: 100, Button: button, Modifiers: mods})
	oc.PointerMove(PointerEvent{X: 100 + dx, Y: 100 + dy, Button: button, Modifiers: mods})
	oc.PointerUp(PointerEvent{X: 100 + dx, Y: 100 + dy, Button: button, Modifiers: mods})
}

func TestNewOrbitControllerInitialPose(t *testing.T) {
	oc := newTestController()
	s := oc.Spherical()
	if !scalar.EqualWithinAbs(s.Radius, 50, 1e-9) || !scalar.EqualWithinAbs(s.Phi, math.Pi/2, 1e-9) || !scalar.EqualWithinAbs(s.Theta, 0, 1e-9) {
		t.Errorf("spherical = %+v, want radius 50, phi π/2, theta 0", s)
	}
	if oc.Gesture() != GestureNone {
		t.Errorf("gesture = %v, want none", oc.Gesture())
	}
}

func TestNewOrbitControllerNilCameraPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil camera")
		}
	}()
	NewOrbitController(nil)
}

func TestDistanceClampHoldsForAnyDollySequence(t *testing.T) {
	oc := newTestController(WithDistanceBounds(5, 100))
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 2000; i++ {
		switch rng.IntN(3) {
		case 0:
			oc.Dolly(0.25 + rng.Float64()*4)
		case 1:
			oc.Wheel(WheelEvent{DeltaY: rng.Float64()*2 - 1})
		default:
			drag(oc, common.MouseButtonMiddle, 0, 0, rng.Float64()*40-20)
		}
		oc.Update(frame)

		if r := oc.Spherical().Radius; r < 5 || r > 100 {
			t.Fatalf("step %d: radius %v outside [5, 100]", i, r)
		}
	}
}

// TestDollyOutClampsAtMaxDistance applies 1000 dolly-out impulses of 1.1 from radius 50.
func TestDollyOutClampsAtMaxDistance(t *testing.T) {
	oc := newTestController(WithDistanceBounds(5, 100))
	for range 1000 {
		oc.Dolly(1.1)
		oc.Update(frame)
	}
	if r := oc.Spherical().Radius; r != 100 {
		t.Errorf("radius = %v, want 100", r)
	}
	if d := r3.Norm(r3.Sub(oc.Camera().Position(), oc.Target())); !scalar.EqualWithinAbs(d, 100, 1e-9) {
		t.Errorf("camera distance = %v, want 100", d)
	}
}

func TestPolarClamp(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
	}{
		{"full range stays off the poles", 0, math.Pi},
		{"narrow range", 0.5, 1.2},
		{"upper hemisphere", 0.1, math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := newTestController(WithPolarBounds(tt.min, tt.max), WithDamping(false, 0))
			rng := rand.New(rand.NewPCG(3, 4))

			for i := 0; i < 500; i++ {
				drag(oc, common.MouseButtonLeft, 0, rng.Float64()*400-200, rng.Float64()*1200-600)
				oc.Update(frame)

				if phi := oc.Spherical().Phi; phi <= tt.min || phi >= tt.max {
					t.Fatalf("step %d: phi %v not strictly inside (%v, %v)", i, phi, tt.min, tt.max)
				}
			}
		})
	}
}

func TestPolarClampLongDragStopsShortOfBound(t *testing.T) {
	const lo, hi = 0.5, 1.2
	oc := newTestController(WithPolarBounds(lo, hi), WithDamping(false, 0))

	var reached []float64
	for _, dy := range []float64{2000, -4000} {
		drag(oc, common.MouseButtonLeft, 0, 0, dy)
		oc.Update(frame)
		phi := oc.Spherical().Phi
		if phi <= lo || phi >= hi {
			t.Fatalf("drag %v: phi %v not strictly inside (%v, %v)", dy, phi, lo, hi)
		}
		switch {
		case scalar.EqualWithinAbs(phi, lo, 1e-5):
			reached = append(reached, lo)
		case scalar.EqualWithinAbs(phi, hi, 1e-5):
			reached = append(reached, hi)
		default:
			t.Fatalf("drag %v: phi %v did not stop next to a bound", dy, phi)
		}
	}
	if reached[0] == reached[1] {
		t.Errorf("opposite drags stopped at the same bound %v", reached[0])
	}
}

func TestWithDampingRejectsFactorOutsideOpenRange(t *testing.T) {
	for _, factor := range []float64{0, 1, 1.5, -0.2} {
		oc := newTestController(WithDamping(true, factor)).(*orbitControllerImpl)
		if oc.dampingFactor != 0.05 {
			t.Errorf("WithDamping(true, %v): factor = %v, want default 0.05", factor, oc.dampingFactor)
		}
	}
	oc := newTestController(WithDamping(true, 0.25)).(*orbitControllerImpl)
	if oc.dampingFactor != 0.25 {
		t.Errorf("factor = %v, want 0.25", oc.dampingFactor)
	}
}

func TestDampingDecay(t *testing.T) {
	oc := newTestController(WithDamping(true, 0.1))
	drag(oc, common.MouseButtonLeft, 0, 60, 30)
	drag(oc, common.MouseButtonRight, 0, 40, -25)

	prev := oc.Pending()
	lastPos := oc.Camera().Position()
	var lastStep float64
	for i := 0; i < 300; i++ {
		oc.Update(frame)
		p := oc.Pending()
		if math.Abs(p.ThetaDelta) >= math.Abs(prev.ThetaDelta) ||
			math.Abs(p.PhiDelta) >= math.Abs(prev.PhiDelta) ||
			r3.Norm(p.PanOffset) >= r3.Norm(prev.PanOffset) {
			t.Fatalf("update %d: pending input did not shrink: %+v -> %+v", i, prev, p)
		}
		prev = p

		pos := oc.Camera().Position()
		lastStep = r3.Norm(r3.Sub(pos, lastPos))
		lastPos = pos
	}
	if lastStep > 1e-6 {
		t.Errorf("camera still moving %g per update after 300 updates", lastStep)
	}
}

func TestNoDampingAppliesEverythingAtOnce(t *testing.T) {
	oc := newTestController(WithDamping(false, 0))
	drag(oc, common.MouseButtonLeft, 0, 100, 0)
	drag(oc, common.MouseButtonRight, 0, 30, 10)
	oc.Dolly(1.5)

	if !oc.Update(frame) {
		t.Fatal("first update should report a change")
	}
	p := oc.Pending()
	if p.ThetaDelta != 0 || p.PhiDelta != 0 || p.PanOffset != (r3.Vec{}) || p.ZoomScale != 1 {
		t.Errorf("pending after update = %+v, want zero", p)
	}
	if s := oc.Spherical(); !scalar.EqualWithinAbs(s.Theta, -2*math.Pi*100/600, 1e-9) {
		t.Errorf("theta = %v, want %v", s.Theta, -2*math.Pi*100/600)
	}

	before := oc.Camera().Position()
	if oc.Update(frame) {
		t.Error("second update without input should not report a change")
	}
	if after := oc.Camera().Position(); r3.Norm(r3.Sub(after, before)) > 1e-9 {
		t.Errorf("camera moved without input: %v -> %v", before, after)
	}
}

// TestRotateDragScaledByViewportHeight drags 100px across a 600px-tall viewport.
func TestRotateDragScaledByViewportHeight(t *testing.T) {
	oc := newTestController(WithRotate(true, 1.0))
	oc.PointerDown(PointerEvent{X: 100, Y: 100, Button: common.MouseButtonLeft})
	oc.PointerMove(PointerEvent{X: 200, Y: 100, Button: common.MouseButtonLeft})

	p := oc.Pending()
	want := -2 * math.Pi * 100 / 600
	if !scalar.EqualWithinAbs(p.ThetaDelta, want, 1e-12) {
		t.Errorf("theta delta = %v, want %v", p.ThetaDelta, want)
	}
	if p.PhiDelta != 0 {
		t.Errorf("phi delta = %v, want 0", p.PhiDelta)
	}
}

func TestPointerGestureTransitions(t *testing.T) {
	tests := []struct {
		name    string
		options []OrbitControllerOption
		button  common.MouseButton
		mods    common.ModifierKey
		want    Gesture
	}{
		{"left rotates", nil, common.MouseButtonLeft, 0, GestureRotate},
		{"left with ctrl pans", nil, common.MouseButtonLeft, common.ModControl, GesturePan},
		{"left with shift pans", nil, common.MouseButtonLeft, common.ModShift, GesturePan},
		{"left with super pans", nil, common.MouseButtonLeft, common.ModSuper, GesturePan},
		{"right pans", nil, common.MouseButtonRight, 0, GesturePan},
		{"middle dollies", nil, common.MouseButtonMiddle, 0, GestureDolly},
		{"rotate disabled", []OrbitControllerOption{WithRotate(false, 1)}, common.MouseButtonLeft, 0, GestureNone},
		{"pan disabled", []OrbitControllerOption{WithPan(false, 1, true)}, common.MouseButtonRight, 0, GestureNone},
		{"zoom disabled", []OrbitControllerOption{WithDolly(false, 1)}, common.MouseButtonMiddle, 0, GestureNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := newTestController(tt.options...)
			oc.PointerDown(PointerEvent{Button: tt.button, Modifiers: tt.mods})
			if got := oc.Gesture(); got != tt.want {
				t.Fatalf("gesture = %v, want %v", got, tt.want)
			}
			oc.PointerUp(PointerEvent{Button: tt.button})
			if got := oc.Gesture(); got != GestureNone {
				t.Errorf("gesture after release = %v, want none", got)
			}
		})
	}
}

func TestSecondPointerPressIsIgnored(t *testing.T) {
	oc := newTestController()
	oc.PointerDown(PointerEvent{Button: common.MouseButtonLeft})
	oc.PointerDown(PointerEvent{Button: common.MouseButtonRight})
	if got := oc.Gesture(); got != GestureRotate {
		t.Errorf("gesture = %v, want rotate", got)
	}
}

func TestDisabledControllerIgnoresInput(t *testing.T) {
	oc := newTestController()
	oc.SetEnabled(false)
	oc.PointerDown(PointerEvent{Button: common.MouseButtonLeft})
	oc.Wheel(WheelEvent{DeltaY: -1})
	oc.TouchStart(TouchEvent{Touches: []Touch{{ID: 1}}})
	if oc.KeyDown(KeyEvent{Key: common.KeyLeft}) {
		t.Error("KeyDown consumed a key while disabled")
	}
	if oc.Gesture() != GestureNone || oc.Pending().ZoomScale != 1 {
		t.Errorf("disabled controller changed state: gesture %v, pending %+v", oc.Gesture(), oc.Pending())
	}
}

func TestTouchGestureTransitions(t *testing.T) {
	one := []Touch{{ID: 1, X: 10, Y: 10}}
	two := []Touch{{ID: 1, X: 10, Y: 10}, {ID: 2, X: 110, Y: 10}}
	three := []Touch{{ID: 1}, {ID: 2, X: 5}, {ID: 3, X: 9}}

	t.Run("one finger rotates", func(t *testing.T) {
		oc := newTestController()
		oc.TouchStart(TouchEvent{Touches: one, Changed: one})
		if oc.Gesture() != GestureTouchRotate {
			t.Errorf("gesture = %v", oc.Gesture())
		}
	})
	t.Run("two fingers pan or dolly", func(t *testing.T) {
		oc := newTestController()
		oc.TouchStart(TouchEvent{Touches: two, Changed: two})
		if oc.Gesture() != GestureTouchPanOrDolly {
			t.Errorf("gesture = %v", oc.Gesture())
		}
	})
	t.Run("three fingers reset", func(t *testing.T) {
		oc := newTestController()
		oc.TouchStart(TouchEvent{Touches: one, Changed: one})
		oc.TouchStart(TouchEvent{Touches: three, Changed: three[1:]})
		if oc.Gesture() != GestureNone {
			t.Errorf("gesture = %v, want none", oc.Gesture())
		}
	})
	t.Run("lifting one of two fingers re-enters rotate", func(t *testing.T) {
		oc := newTestController()
		oc.TouchStart(TouchEvent{Touches: two, Changed: two})
		oc.TouchEnd(TouchEvent{Touches: one, Changed: two[1:]})
		if oc.Gesture() != GestureTouchRotate {
			t.Errorf("gesture = %v, want touch rotate", oc.Gesture())
		}
		oc.TouchEnd(TouchEvent{Changed: one})
		if oc.Gesture() != GestureNone {
			t.Errorf("gesture = %v, want none", oc.Gesture())
		}
	})
	t.Run("move with extra fingers resets", func(t *testing.T) {
		oc := newTestController()
		oc.TouchStart(TouchEvent{Touches: one, Changed: one})
		oc.TouchMove(TouchEvent{Touches: three, Changed: three})
		if oc.Gesture() != GestureNone {
			t.Errorf("gesture = %v, want none", oc.Gesture())
		}
	})
	t.Run("touch end without changed touches is ignored", func(t *testing.T) {
		oc := newTestController()
		oc.TouchStart(TouchEvent{Touches: two, Changed: two})
		oc.TouchEnd(TouchEvent{})
		if oc.Gesture() != GestureTouchPanOrDolly {
			t.Errorf("gesture = %v, want touch pan or dolly", oc.Gesture())
		}
	})
}

func TestPinchDolly(t *testing.T) {
	oc := newTestController(WithPan(false, 1, true))
	start := []Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}}
	spread := []Touch{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 200, Y: 0}}

	oc.TouchStart(TouchEvent{Touches: start, Changed: start})
	oc.TouchMove(TouchEvent{Touches: spread, Changed: spread[1:]})

	if got := oc.Pending().ZoomScale; !scalar.EqualWithinAbs(got, 0.5, 1e-12) {
		t.Errorf("zoom scale = %v, want 0.5 (fingers spread twice as far)", got)
	}
}

func TestWheelGating(t *testing.T) {
	tests := []struct {
		name      string
		button    *common.MouseButton
		deltaY    float64
		wantScale float64
		wantStart int
	}{
		{"idle zooms in", nil, -1, 0.95, 1},
		{"idle zooms out", nil, 3, 1 / 0.95, 1},
		{"during rotate", ptr(common.MouseButtonLeft), -1, 0.95, 2},
		{"blocked during pan", ptr(common.MouseButtonRight), -1, 1, 1},
		{"blocked during dolly", ptr(common.MouseButtonMiddle), -1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := newTestController()
			starts := 0
			oc.AddListener(EventStart, func(Event) { starts++ })

			if tt.button != nil {
				oc.PointerDown(PointerEvent{Button: *tt.button})
			}
			oc.Wheel(WheelEvent{DeltaY: tt.deltaY})

			if got := oc.Pending().ZoomScale; !scalar.EqualWithinAbs(got, tt.wantScale, 1e-12) {
				t.Errorf("zoom scale = %v, want %v", got, tt.wantScale)
			}
			if starts != tt.wantStart {
				t.Errorf("start events = %d, want %d", starts, tt.wantStart)
			}
			if tt.button != nil && oc.Gesture() == GestureNone {
				t.Error("wheel must not change the active gesture")
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestClampAzimuth(t *testing.T) {
	tests := []struct {
		name     string
		theta    float64
		min, max float64
		want     float64
	}{
		{"unbounded", 5, math.Inf(-1), math.Inf(1), 5},
		{"inside plain range", 0.2, -1, 1, 0.2},
		{"below plain range", -2, -1, 1, -1},
		{"above plain range", 2, -1, 1, 1},
		{"bounds wrapped into [-π, π]", 0, -1 - 2*math.Pi, 1 + 2*math.Pi, 0},
		{"wrapped range keeps back angles", math.Pi, 3 * math.Pi / 4, -3 * math.Pi / 4, math.Pi},
		{"wrapped range keeps negative back angles", -math.Pi + 0.1, 3 * math.Pi / 4, -3 * math.Pi / 4, -math.Pi + 0.1},
		{"wrapped range above midpoint snaps to min", 0.1, 3 * math.Pi / 4, -3 * math.Pi / 4, 3 * math.Pi / 4},
		{"wrapped range at midpoint snaps to max", 0, 3 * math.Pi / 4, -3 * math.Pi / 4, -3 * math.Pi / 4},
		{"wrapped range below midpoint snaps to max", -0.1, 3 * math.Pi / 4, -3 * math.Pi / 4, -3 * math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampAzimuth(tt.theta, tt.min, tt.max); !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
				t.Errorf("clampAzimuth(%v, %v, %v) = %v, want %v", tt.theta, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestAzimuthBoundsApplied(t *testing.T) {
	oc := newTestController(WithAzimuthBounds(-0.5, 0.5), WithDamping(false, 0))
	drag(oc, common.MouseButtonLeft, 0, 300, 0)
	oc.Update(frame)
	if got := oc.Spherical().Theta; !scalar.EqualWithinAbs(got, -0.5, 1e-12) {
		t.Errorf("theta = %v, want -0.5", got)
	}
}

func TestDegenerateGeometryHoldsPose(t *testing.T) {
	cam := NewCamera(WithPosition(r3.Vec{}))
	oc := NewOrbitController(cam, WithLogger(testLogger()))
	before := oc.DegenerateCount()

	oc.Dolly(2)
	drag(oc, common.MouseButtonLeft, 0, 50, 50)
	if oc.Update(frame) {
		t.Error("degenerate update should not report a change")
	}
	if got := oc.DegenerateCount() - before; got != 1 {
		t.Errorf("degenerate count delta = %d, want 1", got)
	}
	p := cam.Position()
	if p != (r3.Vec{}) || math.IsNaN(p.X) {
		t.Errorf("position = %v, want held at origin", p)
	}
	if pending := oc.Pending(); pending.ZoomScale != 1 || pending.ThetaDelta != 0 {
		t.Errorf("pending = %+v, want cleared", pending)
	}

	// moving the target away recovers
	oc.SetTarget(r3.Vec{Z: -10})
	oc.Update(frame)
	if d := r3.Norm(cam.Position()); math.IsNaN(d) || !scalar.EqualWithinAbs(oc.Spherical().Radius, 10, 1e-9) {
		t.Errorf("after recovery radius = %v", oc.Spherical().Radius)
	}
}

func TestChangeNotification(t *testing.T) {
	oc := newTestController(WithDamping(false, 0))
	changes := 0
	id := oc.OnChange(func(ev Event) {
		if ev.Kind != EventChange {
			t.Errorf("OnChange listener got %v", ev.Kind)
		}
		changes++
	})

	oc.Update(frame)
	if changes != 0 {
		t.Errorf("idle update emitted %d change events", changes)
	}

	oc.Dolly(2)
	oc.Update(frame)
	if changes != 1 {
		t.Errorf("changes = %d, want 1", changes)
	}

	// below the jitter threshold
	oc.Dolly(1 + 1e-12)
	oc.Update(frame)
	if changes != 1 {
		t.Errorf("imperceptible motion emitted a change (changes = %d)", changes)
	}

	oc.RemoveListener(id)
	oc.Dolly(2)
	oc.Update(frame)
	if changes != 1 {
		t.Errorf("removed listener still called (changes = %d)", changes)
	}
}

func TestStartEndEvents(t *testing.T) {
	oc := newTestController()
	var got []EventKind
	oc.AddListener(EventStart, func(ev Event) { got = append(got, ev.Kind) })
	oc.AddListener(EventEnd, func(ev Event) { got = append(got, ev.Kind) })

	drag(oc, common.MouseButtonLeft, 0, 10, 10)
	oc.Wheel(WheelEvent{DeltaY: 1})

	want := []EventKind{EventStart, EventEnd, EventStart, EventEnd}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMixedMouseAndTouchInput(t *testing.T) {
	one := []Touch{{ID: 1, X: 10, Y: 10}}

	t.Run("touch during mouse rotate is ignored", func(t *testing.T) {
		oc := newTestController()
		var ends []Gesture
		oc.AddListener(EventEnd, func(ev Event) { ends = append(ends, ev.Gesture) })

		oc.PointerDown(PointerEvent{X: 100, Y: 100, Button: common.MouseButtonLeft})
		oc.TouchStart(TouchEvent{Touches: one, Changed: one})
		if oc.Gesture() != GestureRotate {
			t.Fatalf("gesture after touch start = %v, want rotate", oc.Gesture())
		}
		oc.TouchEnd(TouchEvent{Changed: one})
		if oc.Gesture() != GestureRotate {
			t.Fatalf("gesture after touch end = %v, want rotate", oc.Gesture())
		}

		oc.PointerUp(PointerEvent{X: 100, Y: 100, Button: common.MouseButtonLeft})
		if oc.Gesture() != GestureNone {
			t.Errorf("gesture after mouse release = %v, want none", oc.Gesture())
		}
		if len(ends) != 1 || ends[0] != GestureRotate {
			t.Errorf("end events = %v, want [rotate]", ends)
		}
	})

	t.Run("pointer release ends a touch gesture", func(t *testing.T) {
		oc := newTestController()
		var ends []Gesture
		oc.AddListener(EventEnd, func(ev Event) { ends = append(ends, ev.Gesture) })

		oc.TouchStart(TouchEvent{Touches: one, Changed: one})
		oc.PointerDown(PointerEvent{X: 100, Y: 100, Button: common.MouseButtonLeft})
		if oc.Gesture() != GestureTouchRotate {
			t.Fatalf("gesture after mouse press = %v, want touch rotate", oc.Gesture())
		}
		oc.PointerUp(PointerEvent{X: 100, Y: 100, Button: common.MouseButtonLeft})
		if oc.Gesture() != GestureNone {
			t.Errorf("gesture after release = %v, want none", oc.Gesture())
		}
		if len(ends) != 1 || ends[0] != GestureTouchRotate {
			t.Errorf("end events = %v, want [touch_rotate]", ends)
		}
	})
}

func TestFocusFollowsBody(t *testing.T) {
	oc := newTestController(WithDamping(false, 0))
	body := r3.Vec{X: 10}
	oc.SetFocus(func() (r3.Vec, bool) { return body, true })

	oc.Update(frame)
	if oc.Target() != body {
		t.Fatalf("target = %v, want %v", oc.Target(), body)
	}
	if got := oc.Camera().Position(); r3.Norm(r3.Sub(got, r3.Vec{X: 10, Z: 50})) > 1e-9 {
		t.Errorf("camera = %v, want offset kept at (10, 0, 50)", got)
	}

	body = r3.Vec{X: 20, Y: 5}
	oc.Update(frame)
	if !scalar.EqualWithinAbs(oc.Spherical().Radius, 50, 1e-9) {
		t.Errorf("radius = %v, want 50 while following", oc.Spherical().Radius)
	}

	oc.ClearFocus()
	body = r3.Vec{}
	oc.Update(frame)
	if oc.Target() != (r3.Vec{X: 20, Y: 5}) {
		t.Errorf("target moved after ClearFocus: %v", oc.Target())
	}
}

func TestFocusUnavailableHoldsTarget(t *testing.T) {
	oc := newTestController()
	oc.SetFocus(func() (r3.Vec, bool) { return r3.Vec{X: math.NaN()}, true })
	oc.Update(frame)
	if oc.Target() != (r3.Vec{}) {
		t.Errorf("target = %v, want origin", oc.Target())
	}
}

func TestSaveStateAndReset(t *testing.T) {
	oc := newTestController(WithDamping(false, 0))
	start := oc.Camera().Position()

	oc.Dolly(2)
	drag(oc, common.MouseButtonRight, 0, 50, 0)
	oc.Update(frame)
	if r3.Norm(r3.Sub(oc.Camera().Position(), start)) < 1 {
		t.Fatal("camera did not move")
	}

	changes := 0
	oc.OnChange(func(Event) { changes++ })
	oc.Reset()
	if r3.Norm(r3.Sub(oc.Camera().Position(), start)) > 1e-9 || oc.Target() != (r3.Vec{}) {
		t.Errorf("after reset camera = %v target = %v", oc.Camera().Position(), oc.Target())
	}
	if changes != 1 {
		t.Errorf("reset emitted %d change events, want 1", changes)
	}
}

func TestArrowKeys(t *testing.T) {
	t.Run("pan", func(t *testing.T) {
		oc := newTestController(WithDamping(false, 0))
		if !oc.KeyDown(KeyEvent{Key: common.KeyLeft}) {
			t.Fatal("arrow key not consumed")
		}
		oc.Update(frame)
		if x := oc.Target().X; x >= 0 {
			t.Errorf("target.X = %v, want negative after panning left", x)
		}
	})
	t.Run("rotate with modifier", func(t *testing.T) {
		oc := newTestController()
		oc.KeyDown(KeyEvent{Key: common.KeyLeft, Modifiers: common.ModShift})
		if got, want := oc.Pending().ThetaDelta, -2*math.Pi/600; !scalar.EqualWithinAbs(got, want, 1e-12) {
			t.Errorf("theta delta = %v, want %v", got, want)
		}
	})
	t.Run("other keys pass through", func(t *testing.T) {
		oc := newTestController()
		if oc.KeyDown(KeyEvent{Key: common.KeySpace}) {
			t.Error("space should not be consumed")
		}
	})
	t.Run("keys disabled", func(t *testing.T) {
		oc := newTestController(WithKeys(false, 7))
		if oc.KeyDown(KeyEvent{Key: common.KeyUp}) {
			t.Error("key consumed with keys disabled")
		}
	})
}

func TestAutoRotateOnlyWhenIdle(t *testing.T) {
	oc := newTestController(WithAutoRotate(true, 2), WithDamping(false, 0))
	oc.Update(1)
	if got, want := oc.Spherical().Theta, -2*math.Pi/60*2; !scalar.EqualWithinAbs(got, want, 1e-9) {
		t.Errorf("theta after 1s = %v, want %v", got, want)
	}

	oc.PointerDown(PointerEvent{Button: common.MouseButtonLeft})
	before := oc.Spherical().Theta
	oc.Update(1)
	if got := oc.Spherical().Theta; !scalar.EqualWithinAbs(got, before, 1e-9) {
		t.Errorf("auto-rotate ran during a gesture: %v -> %v", before, got)
	}
}

func TestOrthographicDollyChangesZoom(t *testing.T) {
	cam := NewCamera(WithPosition(r3.Vec{Z: 50}), WithOrthographic(10))
	oc := NewOrbitController(cam,
		WithViewport(fixedViewport(800, 600)),
		WithZoomBounds(0.5, 4),
		WithDamping(false, 0),
		WithLogger(testLogger()),
	)

	oc.Dolly(0.5)
	if !oc.Update(frame) {
		t.Error("zoom change should emit a change event")
	}
	if got := cam.Zoom(); !scalar.EqualWithinAbs(got, 2, 1e-12) {
		t.Errorf("zoom = %v, want 2", got)
	}
	if d := r3.Norm(cam.Position()); !scalar.EqualWithinAbs(d, 50, 1e-9) {
		t.Errorf("orthographic dolly moved the camera to distance %v", d)
	}

	oc.Dolly(0.001)
	oc.Update(frame)
	if got := cam.Zoom(); got != 4 {
		t.Errorf("zoom = %v, want clamped to 4", got)
	}
}
