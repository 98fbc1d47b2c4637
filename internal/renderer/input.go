package renderer

import "github.com/go-gl/glfw/v3.3/glfw"

// Input is the polled keyboard and mouse state a Camera reads during
// Update. Implementations answer for the current frame only.
type Input interface {
	KeyDown(key glfw.Key) bool
	MouseLeftDown() bool
	// MouseDelta is the cursor movement in pixels since the previous poll.
	MouseDelta() (dx, dy float32)
	// KeyboardCaptured and MouseCaptured report that another consumer (the
	// debug UI) owns the device this frame.
	KeyboardCaptured() bool
	MouseCaptured() bool
}

// keysDown reports a pressed and b released.
func keysDown(in Input, a, b glfw.Key) bool {
	return in.KeyDown(a) && !in.KeyDown(b)
}
