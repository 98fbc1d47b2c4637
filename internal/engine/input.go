package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// cursorTracker turns absolute cursor positions into per-frame deltas. The
// first sample after a reset yields no movement so a re-grab does not jump.
type cursorTracker struct {
	lastX, lastY float64
	primed       bool
}

func (c *cursorTracker) update(x, y float64) (dx, dy float32) {
	if !c.primed {
		c.lastX, c.lastY = x, y
		c.primed = true
		return 0, 0
	}
	dx, dy = float32(x-c.lastX), float32(y-c.lastY)
	c.lastX, c.lastY = x, y
	return dx, dy
}

func (c *cursorTracker) reset() { c.primed = false }

// WindowInput is the polled keyboard and mouse state of a glfw window. Poll
// must run once per frame before the state is read.
type WindowInput struct {
	window *glfw.Window
	cursor cursorTracker

	dx, dy   float32
	captured bool

	rightWasDown bool
	rightClicked bool
}

func NewWindowInput(window *glfw.Window) *WindowInput {
	return &WindowInput{window: window}
}

// Poll samples the window. Movement accumulates only while the left button
// is held, and both devices count as captured while the window is unfocused.
func (in *WindowInput) Poll() {
	in.captured = in.window.GetAttrib(glfw.Focused) != glfw.True

	if in.MouseLeftDown() && !in.captured {
		in.dx, in.dy = in.cursor.update(in.window.GetCursorPos())
	} else {
		in.dx, in.dy = 0, 0
		in.cursor.reset()
	}

	rightDown := in.window.GetMouseButton(glfw.MouseButtonRight) == glfw.Press
	in.rightClicked = rightDown && !in.rightWasDown
	in.rightWasDown = rightDown
}

func (in *WindowInput) KeyDown(key glfw.Key) bool {
	return in.window.GetKey(key) == glfw.Press
}

func (in *WindowInput) MouseLeftDown() bool {
	return in.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
}

func (in *WindowInput) MouseDelta() (float32, float32) { return in.dx, in.dy }
func (in *WindowInput) KeyboardCaptured() bool         { return in.captured }
func (in *WindowInput) MouseCaptured() bool            { return in.captured }

// RightClicked reports a right button press that started this frame.
func (in *WindowInput) RightClicked() bool { return in.rightClicked }

func (in *WindowInput) CursorPos() (float32, float32) {
	x, y := in.window.GetCursorPos()
	return float32(x), float32(y)
}
