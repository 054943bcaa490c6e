package body

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-orrery/engine/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind classifies a body for display.
type Kind int

const (
	KindPlanet Kind = iota
	KindStar
	KindDwarfPlanet
)

func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindStar:
		return "star"
	case KindDwarfPlanet:
		return "dwarf_planet"
	default:
		return "unknown"
	}
}

type bodyImpl struct {
	mu *sync.Mutex

	id      uint64
	name    string
	kind    Kind
	enabled atomic.Bool

	// orbiting is false for bodies pinned at a fixed position (the central star).
	orbiting bool
	elements orbit.Elements

	radius float64
	color  [4]float32

	position r3.Vec
	rotation float64
	state    orbit.State
	err      error
}

// Body is one celestial body in the scene: its fixed orbital elements, display
// attributes and the transform the propagator writes each frame.
type Body interface {
	// ID returns the body's registry identifier.
	//
	// Returns:
	//   - uint64: the body ID (0 until added to a scene)
	ID() uint64

	// SetID sets the body's registry identifier.
	SetID(id uint64)

	// Name returns the unique display name.
	Name() string

	// Kind returns the display classification.
	Kind() Kind

	// Enabled returns whether the body is propagated and drawn.
	Enabled() bool

	// SetEnabled toggles propagation and drawing.
	SetEnabled(enabled bool)

	// Elements returns the body's orbital elements.
	//
	// Returns:
	//   - orbit.Elements: the elements
	//   - bool: false for bodies that do not orbit
	Elements() (orbit.Elements, bool)

	// SetElements replaces the orbital elements and marks the body as orbiting.
	//
	// Parameters:
	//   - el: the new elements (validated on the next propagation)
	SetElements(el orbit.Elements)

	// Radius returns the display radius in scene units.
	Radius() float64

	// Color returns the display color as linear RGBA.
	Color() [4]float32

	// Position returns the world-space position written by the last propagation.
	Position() r3.Vec

	// RotationAngle returns the spin angle about the body's own axis.
	RotationAngle() float64

	// State returns the full propagation result of the last successful update.
	State() orbit.State

	// Apply writes a propagation result to the body and clears any previous error.
	//
	// Parameters:
	//   - s: the new state
	Apply(s orbit.State)

	// SetSpin updates only the spin angle. Used for bodies that do not orbit.
	SetSpin(angle float64)

	// Err returns the error from the last failed propagation, or nil.
	Err() error

	// Fail records a propagation error. The previous transform is kept.
	//
	// Parameters:
	//   - err: the propagation error
	Fail(err error)
}

var _ Body = &bodyImpl{}

// NewBody creates a new enabled Body configured with the given options.
//
// Parameters:
//   - name: the unique display name
//   - options: functional options to configure the body
//
// Returns:
//   - Body: the newly created body
func NewBody(name string, options ...BodyBuilderOption) Body {
	b := &bodyImpl{
		mu:     &sync.Mutex{},
		name:   name,
		radius: 1,
		color:  [4]float32{1, 1, 1, 1},
	}
	b.enabled.Store(true)
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *bodyImpl) ID() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

func (b *bodyImpl) SetID(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = id
}

func (b *bodyImpl) Name() string {
	return b.name
}

func (b *bodyImpl) Kind() Kind {
	return b.kind
}

func (b *bodyImpl) Enabled() bool {
	return b.enabled.Load()
}

func (b *bodyImpl) SetEnabled(enabled bool) {
	b.enabled.Store(enabled)
}

func (b *bodyImpl) Elements() (orbit.Elements, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.elements, b.orbiting
}

func (b *bodyImpl) SetElements(el orbit.Elements) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.elements = el
	b.orbiting = true
}

func (b *bodyImpl) Radius() float64 {
	return b.radius
}

func (b *bodyImpl) Color() [4]float32 {
	return b.color
}

func (b *bodyImpl) Position() r3.Vec {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

func (b *bodyImpl) RotationAngle() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rotation
}

func (b *bodyImpl) State() orbit.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *bodyImpl) Apply(s orbit.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = s
	b.position = s.Position
	b.rotation = s.RotationAngle
	b.err = nil
}

func (b *bodyImpl) SetSpin(angle float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotation = angle
}

func (b *bodyImpl) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *bodyImpl) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}
