package renderer

import "log/slog"

// PresentMode selects how frames are synchronized with the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank (FIFO).
	PresentModeVSync PresentMode = iota
	// PresentModeUncapped presents immediately.
	PresentModeUncapped
)

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the swapchain present mode.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithCullingDisabled draws every body regardless of the view frustum.
func WithCullingDisabled(disabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.cullingDisabled = disabled
	}
}

// WithOrbitOpacity sets the alpha of orbit lines.
func WithOrbitOpacity(opacity float32) RendererBuilderOption {
	return func(r *renderer) {
		if opacity >= 0 && opacity <= 1 {
			r.orbitOpacity = opacity
		}
	}
}

// WithOrbitsVisible toggles orbit line drawing.
func WithOrbitsVisible(visible bool) RendererBuilderOption {
	return func(r *renderer) {
		r.orbitsVisible = visible
	}
}

// WithLogger sets the logger used for GPU diagnostics.
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
