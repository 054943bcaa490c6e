package window

import "github.com/Carmen-Shannon/oxy-orrery/common"

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the initial title bar text. An empty title keeps the default.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = common.Coalesce(title, w.title)
	}
}

// WithSize sets the requested framebuffer size. Non-positive values keep the
// default for that dimension. The size is clamped to the size limits when the
// platform window is created.
//
// Parameters:
//   - width: requested width in pixels
//   - height: requested height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
		if height > 0 {
			w.height = height
		}
	}
}

// WithSizeLimits bounds interactive resizing. A zero bound keeps the default.
//
// Parameters:
//   - minWidth, minHeight: smallest allowed size in pixels
//   - maxWidth, maxHeight: largest allowed size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = common.Coalesce(minWidth, w.minWidth)
		w.minHeight = common.Coalesce(minHeight, w.minHeight)
		w.maxWidth = common.Coalesce(maxWidth, w.maxWidth)
		w.maxHeight = common.Coalesce(maxHeight, w.maxHeight)
	}
}

// WithCloseOnEscape makes the Escape key close the window (default true).
func WithCloseOnEscape(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.closeOnEscape = enabled
	}
}
