package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/metrics"
	"github.com/Carmen-Shannon/oxy-orrery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-orrery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/Carmen-Shannon/oxy-orrery/engine/window"
	"golang.org/x/time/rate"
)

// engine implements the Engine interface.
// Every frame runs on the window's message loop goroutine.
type engine struct {
	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	ctrl     camera.OrbitController
	logger   *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	now       func() time.Time
	lastFrame time.Time

	orbitSamples     int
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	baseTitle        string
	focusIndex       int // 1-based index of the followed body, 0 when free

	renderErrSometimes rate.Sometimes
	titleSometimes     rate.Sometimes
}

// Engine drives the orrery: it owns the per-frame order (advance the clock and
// reposition bodies, then move the camera, then draw) and routes window input to
// the camera controller and the simulation controls.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	Window() window.Window

	// Scene returns the simulated scene.
	Scene() scene.Scene

	// Controller returns the camera orbit controller.
	Controller() camera.OrbitController

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	SetRenderFrameLimit(fps float64)

	// Frame runs one frame. The scene step and the controller update both
	// complete before the frame is drawn.
	//
	// Parameters:
	//   - deltaTime: wall-clock seconds since the previous frame
	Frame(deltaTime float64)

	// RefreshOrbits resamples every orbit path and uploads it to the renderer.
	//
	// Returns:
	//   - error: if the upload fails
	RefreshOrbits() error

	// Focus makes the camera follow the named body.
	//
	// Returns:
	//   - error: scene.ErrUnknownBody (wrapped) for an unknown name
	Focus(name string) error

	// ClearFocus stops following a body.
	ClearFocus()

	// Run starts the main loop (blocks until the window closes or Quit is called).
	Run()

	// Quit stops the main loop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine over a scene and its camera controller.
// Input callbacks are bound to the window immediately when one is supplied.
//
// Parameters:
//   - sc: the scene to simulate (must not be nil)
//   - ctrl: the camera controller (must not be nil)
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(sc scene.Scene, ctrl camera.OrbitController, options ...EngineBuilderOption) Engine {
	if sc == nil {
		panic("engine: NewEngine requires a non-nil Scene")
	}
	if ctrl == nil {
		panic("engine: NewEngine requires a non-nil OrbitController")
	}

	e := &engine{
		quitChannel:        make(chan struct{}),
		scene:              sc,
		ctrl:               ctrl,
		logger:             slog.Default(),
		now:                time.Now,
		orbitSamples:       256,
		baseTitle:          "Orrery",
		renderErrSometimes: rate.Sometimes{First: 1, Interval: 5 * time.Second},
		titleSometimes:     rate.Sometimes{Interval: 500 * time.Millisecond},
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.bindInput()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Controller() camera.OrbitController {
	return e.ctrl
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Frame(deltaTime float64) {
	start := e.now()

	simTime := e.scene.Step(deltaTime)
	e.ctrl.Update(deltaTime)
	metrics.RecordFrameUpdate(e.now().Sub(start))

	if e.renderer != nil {
		err := e.renderer.Render(renderer.Frame{
			Camera: e.ctrl.Camera(),
			Bodies: e.scene.Snapshot(),
		})
		if err != nil {
			e.renderErrSometimes.Do(func() {
				e.logger.Warn("frame dropped", "error", err)
			})
		}
	}

	if e.window != nil {
		e.titleSometimes.Do(func() {
			e.window.SetTitle(e.title())
		})
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(
			"sim_days", simTime,
			"bodies", e.scene.Count(),
			"kepler_nonconvergent", e.scene.Propagator().NonConvergentCount(),
		)
	}
}

func (e *engine) title() string {
	clk := e.scene.Clock()
	state := fmt.Sprintf("x%g days/s", clk.TimeScale())
	if clk.Paused() {
		state = "paused"
	}
	return fmt.Sprintf("%s | %s | %s", e.baseTitle, clk.Date().Format("2006-01-02 15:04"), state)
}

func (e *engine) RefreshOrbits() error {
	if e.renderer == nil {
		return nil
	}
	paths := e.scene.GenerateOrbitPaths(e.orbitSamples)
	colors := make(map[string][4]float32, len(paths))
	for _, b := range e.scene.Bodies() {
		colors[b.Name()] = b.Color()
	}
	return e.renderer.SetOrbitPaths(paths, colors)
}

func (e *engine) Focus(name string) error {
	focus, err := e.scene.FocusProvider(name)
	if err != nil {
		return err
	}
	e.ctrl.SetFocus(focus)
	e.logger.Info("camera focus", "body", name)
	return nil
}

func (e *engine) ClearFocus() {
	e.focusIndex = 0
	e.ctrl.ClearFocus()
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run requires a window")
	}
	if err := e.RefreshOrbits(); err != nil {
		e.logger.Error("failed to upload orbit paths", "error", err)
	}

	e.lastFrame = e.now()
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			if err := e.window.Close(); err != nil {
				e.logger.Warn("window close failed", "error", err)
			}
			return
		default:
		}

		frameStart := e.now()
		dt := frameStart.Sub(e.lastFrame).Seconds()
		e.lastFrame = frameStart
		e.Frame(dt)

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - e.now().Sub(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()

	if e.renderer != nil {
		e.renderer.Release()
	}
}

// Quit signals the main loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// bindInput routes window callbacks to the controller and the simulation keys.
func (e *engine) bindInput() {
	w := e.window
	e.ctrl.SetViewport(func() (float64, float64) {
		return float64(w.Width()), float64(w.Height())
	})

	w.SetResizeCallback(func(width, height int) {
		if e.renderer != nil {
			e.renderer.Resize(width, height)
		}
		if width > 0 && height > 0 {
			e.ctrl.Camera().SetAspect(float64(width) / float64(height))
		}
	})
	w.SetMouseDownCallback(func(button common.MouseButton, x, y float64, mods common.ModifierKey) {
		e.ctrl.PointerDown(camera.PointerEvent{X: x, Y: y, Button: button, Modifiers: mods})
	})
	w.SetMouseUpCallback(func(button common.MouseButton, x, y float64, mods common.ModifierKey) {
		e.ctrl.PointerUp(camera.PointerEvent{X: x, Y: y, Button: button, Modifiers: mods})
	})
	w.SetMouseMoveCallback(func(x, y float64) {
		e.ctrl.PointerMove(camera.PointerEvent{X: x, Y: y})
	})
	w.SetScrollCallback(func(yoff float64) {
		// GLFW reports scrolling away from the user as positive; the controller
		// treats negative DeltaY as zoom in.
		e.ctrl.Wheel(camera.WheelEvent{DeltaY: -yoff})
	})
	w.SetKeyDownCallback(e.handleKey)
}

// handleKey gives the controller first refusal (arrow keys), then applies the
// simulation bindings.
func (e *engine) handleKey(key int, mods common.ModifierKey) {
	if e.ctrl.KeyDown(camera.KeyEvent{Key: key, Modifiers: mods}) {
		return
	}

	clk := e.scene.Clock()
	switch {
	case key >= common.Key1 && key <= common.Key9:
		e.focusNth(key - common.Key1 + 1)
	case key == common.Key0:
		e.ClearFocus()
	case key == common.KeySpace:
		paused := clk.TogglePause()
		e.logger.Info("simulation paused", "paused", paused)
	case key == common.KeyEqual || key == common.KeyKPAdd:
		clk.SetTimeScale(clk.TimeScale() * 2)
		e.logger.Info("time scale", "days_per_second", clk.TimeScale())
	case key == common.KeyMinus || key == common.KeyKPSubtract:
		clk.SetTimeScale(clk.TimeScale() / 2)
		e.logger.Info("time scale", "days_per_second", clk.TimeScale())
	case key == common.KeyR:
		e.focusIndex = 0
		e.ctrl.Reset()
	}
}

// focusNth follows the nth enabled body in ID order (1-based).
func (e *engine) focusNth(n int) {
	var enabled []string
	for _, b := range e.scene.Bodies() {
		if b.Enabled() {
			enabled = append(enabled, b.Name())
		}
	}
	if n > len(enabled) {
		return
	}
	if err := e.Focus(enabled[n-1]); err != nil {
		e.logger.Warn("focus failed", "error", err)
		return
	}
	e.focusIndex = n
}
