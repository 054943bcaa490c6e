package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/clock"
	"github.com/Carmen-Shannon/oxy-orrery/engine/metrics"
	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrDuplicateBody is returned by Add when a body with the same name is registered.
	ErrDuplicateBody = errors.New("body already registered")
	// ErrUnknownBody is returned when a body name is not in the registry.
	ErrUnknownBody = errors.New("unknown body")
)

// Scene owns the bodies of one simulation, the clock that drives them and the
// propagator that positions them. Bodies are looked up by name through the scene
// rather than through any global registry.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Clock returns the simulation clock.
	Clock() *clock.Clock

	// Propagator returns the propagator used by Step.
	Propagator() *orbit.Propagator

	// Add registers a body, assigning it the next ID when it has none.
	//
	// Parameters:
	//   - b: the body to add
	//
	// Returns:
	//   - error: ErrDuplicateBody (wrapped) when the name is taken
	Add(b body.Body) error

	// Remove unregisters a body by name.
	//
	// Returns:
	//   - bool: false when no such body was registered
	Remove(name string) bool

	// Body looks a body up by name.
	Body(name string) (body.Body, bool)

	// Bodies returns every registered body in ID order.
	Bodies() []body.Body

	// Count returns the number of registered bodies.
	Count() int

	// Step advances the clock by realSeconds and repositions every enabled body.
	//
	// Parameters:
	//   - realSeconds: wall-clock time since the previous frame
	//
	// Returns:
	//   - float64: the simulation time the bodies now reflect, in days
	Step(realSeconds float64) float64

	// Propagate repositions every enabled body at simulationTime without touching the clock.
	// A body whose elements are invalid keeps its previous transform and records the error.
	//
	// Returns:
	//   - int: the number of bodies that failed
	Propagate(simulationTime float64) int

	// FocusProvider returns a capability reporting the named body's live position,
	// for the camera controller to follow.
	//
	// Returns:
	//   - camera.FocusFunc: reports the position, and false once the body is removed or disabled
	//   - error: ErrUnknownBody (wrapped) when the name is not registered
	FocusProvider(name string) (camera.FocusFunc, error)

	// GenerateOrbitPaths samples every orbiting body's path in parallel.
	//
	// Parameters:
	//   - samples: points per orbit (minimum 3)
	//
	// Returns:
	//   - map[string][]r3.Vec: sampled paths keyed by body name (invalid bodies are omitted)
	GenerateOrbitPaths(samples int) map[string][]r3.Vec

	// Snapshot copies the drawable state of every enabled body in ID order.
	Snapshot() []BodySnapshot
}

// BodySnapshot is an immutable copy of one body's drawable state.
type BodySnapshot struct {
	ID       uint64
	Name     string
	Kind     body.Kind
	Position r3.Vec
	Rotation float64
	Radius   float64
	Color    [4]float32
	Failed   bool
}

type scene struct {
	mu *sync.RWMutex

	name     string
	registry map[uint64]body.Body
	byName   map[string]uint64
	nextID   uint64

	clk    *clock.Clock
	prop   *orbit.Propagator
	logger *slog.Logger

	invalidSometimes rate.Sometimes

	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

var _ Scene = &scene{}

// NewScene creates an empty Scene with a default clock and propagator.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:               &sync.RWMutex{},
		name:             name,
		registry:         make(map[uint64]body.Body),
		byName:           make(map[string]uint64),
		nextID:           1,
		logger:           slog.Default(),
		invalidSometimes: rate.Sometimes{First: 1, Interval: 5 * time.Second},
		computeWorkers:   max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}
	if s.clk == nil {
		s.clk = clock.NewClock()
	}
	if s.prop == nil {
		s.prop = orbit.NewPropagator(orbit.WithLogger(s.logger))
	}

	// Workers persist across calls so repeated path generation (on config reload or
	// element edits) does not respawn goroutines.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Clock() *clock.Clock {
	return s.clk
}

func (s *scene) Propagator() *orbit.Propagator {
	return s.prop
}

func (s *scene) Add(b body.Body) error {
	if b == nil {
		panic("scene: Add requires a non-nil Body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(b)
}

func (s *scene) addLocked(b body.Body) error {
	if _, ok := s.byName[b.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateBody, b.Name())
	}
	if b.ID() == 0 {
		b.SetID(s.nextID)
		s.nextID++
	} else if _, taken := s.registry[b.ID()]; taken {
		return fmt.Errorf("%w: id %d", ErrDuplicateBody, b.ID())
	} else if b.ID() >= s.nextID {
		s.nextID = b.ID() + 1
	}
	s.registry[b.ID()] = b
	s.byName[b.Name()] = b.ID()
	return nil
}

func (s *scene) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[name]
	if !ok {
		return false
	}
	delete(s.byName, name)
	delete(s.registry, id)
	return true
}

func (s *scene) Body(name string) (body.Body, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.registry[id], true
}

func (s *scene) Bodies() []body.Body {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *scene) sortedLocked() []body.Body {
	ids := make([]uint64, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]body.Body, len(ids))
	for i, id := range ids {
		out[i] = s.registry[id]
	}
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Step(realSeconds float64) float64 {
	t := s.clk.Advance(realSeconds)
	s.Propagate(t)
	return t
}

func (s *scene) Propagate(simulationTime float64) int {
	bodies := s.Bodies()
	failed := 0
	for _, b := range bodies {
		if !b.Enabled() {
			continue
		}
		el, orbiting := b.Elements()
		if !orbiting {
			b.SetSpin(orbit.SpinAngle(el, simulationTime))
			continue
		}
		state, err := s.prop.ComputePosition(el, simulationTime)
		if err != nil {
			failed++
			b.Fail(err)
			metrics.RecordInvalidElements(b.Name())
			s.invalidSometimes.Do(func() {
				s.logger.Warn("body propagation failed, keeping previous transform",
					"body", b.Name(),
					"simulation_time", simulationTime,
					"error", err,
				)
			})
			continue
		}
		b.Apply(state)
	}
	return failed
}

func (s *scene) FocusProvider(name string) (camera.FocusFunc, error) {
	b, ok := s.Body(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	return func() (r3.Vec, bool) {
		current, ok := s.Body(name)
		if !ok || current != b || !b.Enabled() {
			return r3.Vec{}, false
		}
		return b.Position(), true
	}, nil
}

func (s *scene) GenerateOrbitPaths(samples int) map[string][]r3.Vec {
	bodies := s.Bodies()

	var (
		wg     sync.WaitGroup
		pathMu sync.Mutex
	)
	paths := make(map[string][]r3.Vec, len(bodies))
	taskID := 0
	for _, b := range bodies {
		el, orbiting := b.Elements()
		if !orbiting {
			continue
		}
		wg.Add(1)
		bCap := b
		id := taskID
		taskID++
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				points, err := s.prop.SamplePath(el, samples)
				if err != nil {
					return nil, err
				}
				pathMu.Lock()
				paths[bCap.Name()] = points
				pathMu.Unlock()
				return nil, nil
			},
		})
	}
	wg.Wait()
	return paths
}

func (s *scene) Snapshot() []BodySnapshot {
	bodies := s.Bodies()
	out := make([]BodySnapshot, 0, len(bodies))
	for _, b := range bodies {
		if !b.Enabled() {
			continue
		}
		out = append(out, BodySnapshot{
			ID:       b.ID(),
			Name:     b.Name(),
			Kind:     b.Kind(),
			Position: b.Position(),
			Rotation: b.RotationAngle(),
			Radius:   b.Radius(),
			Color:    b.Color(),
			Failed:   b.Err() != nil,
		})
	}
	return out
}
