package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyR         = 82  // R key (ASCII)
	KeySpace     = 32  // Spacebar (ASCII)
	KeyMinus     = 45  // - key (ASCII)
	KeyEqual     = 61  // = / + key (ASCII)
	KeyBackspace = 259 // Backspace key (GLFW)
	KeyEsc       = 256 // Escape key (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key9 = 57 // 9 key (ASCII)

	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)

	KeyKPAdd      = 334 // Keypad + (GLFW)
	KeyKPSubtract = 333 // Keypad - (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)

// MouseButton identifies a pointer button. Values match GLFW mouse buttons.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0 // primary
	MouseButtonRight  MouseButton = 1 // secondary
	MouseButtonMiddle MouseButton = 2 // tertiary (wheel button)
)

// ModifierKey is a bit set of held modifier keys. Bits match glfw.ModifierKey.
type ModifierKey int

const (
	ModShift   ModifierKey = 0x0001
	ModControl ModifierKey = 0x0002
	ModAlt     ModifierKey = 0x0004
	ModSuper   ModifierKey = 0x0008
)

// Has reports whether all bits of k are set in m.
func (m ModifierKey) Has(k ModifierKey) bool {
	return m&k == k
}
