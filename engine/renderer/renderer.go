package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/Carmen-Shannon/oxy-orrery/engine/window"
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is everything drawn in one frame. Bodies and camera are snapshots taken
// after the scene step and controller update of the same frame.
type Frame struct {
	Camera camera.Camera
	Bodies []scene.BodySnapshot
}

// FrameStats reports what the last Render submitted.
type FrameStats struct {
	BodiesDrawn  int
	BodiesCulled int
	OrbitPoints  int
}

// Renderer draws bodies as camera-facing shaded discs and their orbits as line loops.
type Renderer interface {
	// Resize configures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetOrbitPaths replaces the orbit lines. Each path is drawn as a closed loop
	// in its body's color at reduced opacity.
	//
	// Parameters:
	//   - paths: sampled points keyed by body name
	//   - colors: RGBA per body name; missing names use a neutral grey
	//
	// Returns:
	//   - error: if the upload fails
	SetOrbitPaths(paths map[string][]r3.Vec, colors map[string][4]float32) error

	// Render uploads the frame and draws it.
	//
	// Returns:
	//   - error: if the surface could not be acquired or the upload failed
	Render(f Frame) error

	// Stats returns the counts from the last Render.
	Stats() FrameStats

	// Release frees GPU resources.
	Release()
}

type renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	logger  *slog.Logger

	cullingDisabled bool
	orbitOpacity    float32
	orbitsVisible   bool

	instances []GPUBodyInstance
	stats     FrameStats

	// Pre-creation config collected from builder options.
	presentMode PresentMode
}

var _ Renderer = &renderer{}

// NewRenderer creates a WebGPU renderer targeting the window's surface.
//
// Parameters:
//   - w: the window providing the surface descriptor and initial size
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
//   - error: if the GPU device or pipelines could not be created
func NewRenderer(w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	if w == nil {
		panic("renderer: NewRenderer requires a non-nil Window")
	}
	r := newRenderer(options...)
	backend, err := newWGPURendererBackend(w.SurfaceDescriptor(), r.presentMode)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebGPU backend: %w", err)
	}
	r.backend = backend
	r.backend.ConfigureSurface(w.Width(), w.Height())
	return r, nil
}

// NewRendererWithBackend creates a renderer over an existing backend.
func NewRendererWithBackend(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic("renderer: NewRendererWithBackend requires a non-nil backend")
	}
	r := newRenderer(options...)
	r.backend = backend
	return r
}

func newRenderer(options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		logger:        slog.Default(),
		orbitOpacity:  0.45,
		orbitsVisible: true,
		presentMode:   PresentModeVSync,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimized windows report a zero framebuffer; the surface cannot be configured.
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetOrbitPaths(paths map[string][]r3.Vec, colors map[string][4]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var vertices []GPUOrbitVertex
	if r.orbitsVisible {
		vertices = BuildOrbitVertices(paths, colors, r.orbitOpacity)
	}
	if err := r.backend.WriteOrbits(MarshalOrbitVertices(vertices), len(vertices)); err != nil {
		return fmt.Errorf("failed to upload orbit lines: %w", err)
	}
	r.stats.OrbitPoints = len(vertices)
	return nil
}

func (r *renderer) Render(f Frame) error {
	if f.Camera == nil {
		panic("renderer: Render requires a camera")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	uniform := camera.NewGPUCameraUniform(f.Camera)
	r.backend.WriteCamera(uniform.Marshal())

	var culled int
	if r.cullingDisabled {
		r.instances, culled = BuildBodyInstances(r.instances[:0], nil, f.Bodies)
	} else {
		frustum := f.Camera.Frustum()
		r.instances, culled = BuildBodyInstances(r.instances[:0], &frustum, f.Bodies)
	}
	if err := r.backend.WriteBodies(MarshalBodyInstances(r.instances), len(r.instances)); err != nil {
		return fmt.Errorf("failed to upload bodies: %w", err)
	}
	r.stats.BodiesDrawn = len(r.instances)
	r.stats.BodiesCulled = culled

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	r.backend.DrawOrbits()
	r.backend.DrawBodies()
	r.backend.EndFrame()
	r.backend.Present()
	return nil
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}
