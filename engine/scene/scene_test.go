package scene

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/clock"
	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func circular(a, period float64) orbit.Elements {
	return orbit.Elements{SemiMajorAxis: a, OrbitalPeriod: period, RotationPeriod: 1}
}

func newTestScene(t *testing.T, bodies ...body.Body) Scene {
	t.Helper()
	return NewScene("test",
		WithLogger(testLogger()),
		WithComputeWorkers(2),
		WithBodies(bodies...),
	)
}

func TestAddAssignsIDsInOrder(t *testing.T) {
	s := newTestScene(t)
	for _, name := range []string{"Sun", "Mercury", "Venus"} {
		if err := s.Add(body.NewBody(name)); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	bodies := s.Bodies()
	if len(bodies) != 3 || s.Count() != 3 {
		t.Fatalf("got %d bodies", len(bodies))
	}
	for i, want := range []string{"Sun", "Mercury", "Venus"} {
		if bodies[i].Name() != want || bodies[i].ID() != uint64(i+1) {
			t.Errorf("bodies[%d] = %s/%d, want %s/%d", i, bodies[i].Name(), bodies[i].ID(), want, i+1)
		}
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := newTestScene(t, body.NewBody("Earth"))
	if err := s.Add(body.NewBody("Earth")); !errors.Is(err, ErrDuplicateBody) {
		t.Errorf("duplicate name: err = %v", err)
	}
	if err := s.Add(body.NewBody("Moon", body.WithID(1))); !errors.Is(err, ErrDuplicateBody) {
		t.Errorf("duplicate id: err = %v", err)
	}
	if err := s.Add(body.NewBody("Mars", body.WithID(10))); err != nil {
		t.Fatalf("explicit id: %v", err)
	}
	next := body.NewBody("Jupiter")
	if err := s.Add(next); err != nil || next.ID() != 11 {
		t.Errorf("next id = %d, err = %v", next.ID(), err)
	}
}

func TestRemoveAndLookup(t *testing.T) {
	s := newTestScene(t, body.NewBody("Earth"), body.NewBody("Mars"))
	if b, ok := s.Body("Mars"); !ok || b.Name() != "Mars" {
		t.Fatal("Mars not found")
	}
	if !s.Remove("Mars") {
		t.Fatal("Remove returned false")
	}
	if s.Remove("Mars") {
		t.Error("second Remove should return false")
	}
	if _, ok := s.Body("Mars"); ok {
		t.Error("Mars still registered")
	}
}

func TestStepPropagatesFromClock(t *testing.T) {
	earth := body.NewBody("Earth", body.WithElements(circular(100, 4)))
	s := newTestScene(t, earth)
	s.Clock().SetTimeScale(2)

	if got := s.Step(0.5); got != 1 {
		t.Fatalf("Step returned %v, want 1", got)
	}
	want := r3.Vec{X: 0, Y: 0, Z: 100}
	if d := r3.Norm(r3.Sub(earth.Position(), want)); d > 1e-9 {
		t.Errorf("position = %v, want %v", earth.Position(), want)
	}
}

func TestStepIsolatesInvalidBody(t *testing.T) {
	good := body.NewBody("Good", body.WithElements(circular(10, 8)))
	bad := body.NewBody("Bad", body.WithElements(orbit.Elements{SemiMajorAxis: 10, OrbitalPeriod: 8, Eccentricity: 1.2}))
	s := newTestScene(t, bad, good)

	bad.Apply(orbit.State{Position: r3.Vec{X: 7}})
	if failed := s.Propagate(2); failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if !errors.Is(bad.Err(), orbit.ErrInvalidOrbitalElements) {
		t.Errorf("bad.Err = %v", bad.Err())
	}
	if bad.Position() != (r3.Vec{X: 7}) {
		t.Errorf("invalid body moved to %v", bad.Position())
	}
	if good.Err() != nil || !scalar.EqualWithinAbs(good.Position().Z, 10, 1e-9) {
		t.Errorf("good body = %v err %v", good.Position(), good.Err())
	}

	snap := s.Snapshot()
	if len(snap) != 2 || !snap[0].Failed || snap[1].Failed {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStepSkipsDisabledAndSpinsFixedBodies(t *testing.T) {
	sun := body.NewBody("Sun", body.WithKind(body.KindStar), body.WithSpin(4))
	hidden := body.NewBody("Hidden", body.WithElements(circular(10, 8)), body.WithEnabled(false))
	s := newTestScene(t, sun, hidden)

	s.Propagate(1)
	if !scalar.EqualWithinAbs(sun.RotationAngle(), math.Pi/2, 1e-12) {
		t.Errorf("sun rotation = %v, want π/2", sun.RotationAngle())
	}
	if sun.Position() != (r3.Vec{}) {
		t.Errorf("sun moved to %v", sun.Position())
	}
	if hidden.Position() != (r3.Vec{}) {
		t.Errorf("disabled body moved to %v", hidden.Position())
	}
	if len(s.Snapshot()) != 1 {
		t.Errorf("snapshot should omit disabled bodies")
	}
}

func TestStepPausedClockKeepsPositions(t *testing.T) {
	earth := body.NewBody("Earth", body.WithElements(circular(100, 4)))
	s := NewScene("paused", WithLogger(testLogger()), WithClock(clock.NewClock(clock.WithPaused(true))), WithBodies(earth))

	s.Step(1)
	first := earth.Position()
	s.Step(1)
	if earth.Position() != first {
		t.Errorf("paused step moved the body from %v to %v", first, earth.Position())
	}
}

func TestFocusProvider(t *testing.T) {
	earth := body.NewBody("Earth", body.WithElements(circular(100, 4)))
	s := newTestScene(t, earth)

	if _, err := s.FocusProvider("Pluto"); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("unknown body: err = %v", err)
	}

	focus, err := s.FocusProvider("Earth")
	if err != nil {
		t.Fatal(err)
	}
	s.Propagate(1)
	if p, ok := focus(); !ok || p != earth.Position() {
		t.Errorf("focus = %v %v, want %v", p, ok, earth.Position())
	}

	earth.SetEnabled(false)
	if _, ok := focus(); ok {
		t.Error("disabled body should not report a focus")
	}
	earth.SetEnabled(true)

	s.Remove("Earth")
	if _, ok := focus(); ok {
		t.Error("removed body should not report a focus")
	}
	if err := s.Add(body.NewBody("Earth")); err != nil {
		t.Fatal(err)
	}
	if _, ok := focus(); ok {
		t.Error("focus should not follow a different body with the same name")
	}
}

func TestGenerateOrbitPaths(t *testing.T) {
	s := newTestScene(t,
		body.NewBody("Sun", body.WithKind(body.KindStar)),
		body.NewBody("Inner", body.WithElements(circular(10, 8))),
		body.NewBody("Outer", body.WithElements(orbit.Elements{SemiMajorAxis: 40, Eccentricity: 0.3, OrbitalPeriod: 80})),
		body.NewBody("Broken", body.WithElements(orbit.Elements{SemiMajorAxis: -1, OrbitalPeriod: 8})),
	)

	paths := s.GenerateOrbitPaths(64)
	if len(paths) != 2 {
		t.Fatalf("got paths for %d bodies, want 2", len(paths))
	}
	for _, p := range paths["Inner"] {
		if !scalar.EqualWithinAbs(r3.Norm(p), 10, 1e-9) {
			t.Fatalf("inner path point %v off the circle", p)
		}
	}
	outer := paths["Outer"]
	if len(outer) != 64 {
		t.Fatalf("outer has %d points", len(outer))
	}
	if !scalar.EqualWithinAbs(r3.Norm(outer[0]), 28, 1e-9) {
		t.Errorf("outer path should start at periapsis, radius %v", r3.Norm(outer[0]))
	}
}
