package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults.
const (
	DefaultFov        = math32.Pi / 3
	DefaultOrthoWidth = 10.0
	DefaultNearClip   = 0.01
	DefaultFarClip    = 1000.0
	DefaultMoveSpeed  = 5.0
	DefaultLookSpeed  = 10.0
)

// ProjectionMode selects how a Camera builds its projection matrix.
type ProjectionMode int

const (
	Perspective ProjectionMode = iota
	Orthographic
)

func (m ProjectionMode) String() string {
	if m == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

type Camera struct {
	// HOT DATA - read every frame by the renderer
	transform  *Transform
	view       mgl32.Mat4
	projection mgl32.Mat4

	// COLD DATA - projection parameters and navigation tuning
	aspect     float32
	fov        float32 // radians, perspective only
	orthoWidth float32 // world units, orthographic only
	mode       ProjectionMode
	nearClip   float32
	farClip    float32
	moveSpeed  float32 // units per second
	lookSpeed  float32 // milliradians per pixel

	Name string
}

// CameraOption customises a Camera at construction.
type CameraOption func(*Camera)

// WithFov selects a perspective camera with the given vertical field of view
// in radians.
func WithFov(fov float32) CameraOption {
	return func(c *Camera) {
		c.mode = Perspective
		c.fov = fov
	}
}

// WithOrthographic selects an orthographic camera with a view box width in
// world units.
func WithOrthographic(width float32) CameraOption {
	return func(c *Camera) {
		c.mode = Orthographic
		c.orthoWidth = width
	}
}

// WithTransform shares an existing Transform instead of creating one.
func WithTransform(t *Transform) CameraOption {
	return func(c *Camera) {
		c.transform = t
	}
}

func WithClipPlanes(near, far float32) CameraOption {
	return func(c *Camera) {
		c.nearClip = near
		c.farClip = far
	}
}

func WithSpeeds(move, look float32) CameraOption {
	return func(c *Camera) {
		c.moveSpeed = move
		c.lookSpeed = look
	}
}

// NewCamera creates a perspective Camera with a fresh Transform. WithFov
// and WithOrthographic are mutually exclusive; the last one applied wins.
func NewCamera(name string, aspect float32, opts ...CameraOption) *Camera {
	c := &Camera{
		Name:       name,
		aspect:     aspect,
		fov:        DefaultFov,
		orthoWidth: DefaultOrthoWidth,
		mode:       Perspective,
		nearClip:   DefaultNearClip,
		farClip:    DefaultFarClip,
		moveSpeed:  DefaultMoveSpeed,
		lookSpeed:  DefaultLookSpeed,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transform == nil {
		c.transform = NewTransform()
	}
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix()
	return c
}

func (c *Camera) GetTransform() *Transform        { return c.transform }
func (c *Camera) GetViewMatrix() mgl32.Mat4       { return c.view }
func (c *Camera) GetProjectionMatrix() mgl32.Mat4 { return c.projection }
func (c *Camera) GetAspect() float32              { return c.aspect }
func (c *Camera) GetFov() float32                 { return c.fov }
func (c *Camera) GetOrthographicWidth() float32   { return c.orthoWidth }
func (c *Camera) GetNearClip() float32            { return c.nearClip }
func (c *Camera) GetFarClip() float32             { return c.farClip }
func (c *Camera) GetMoveSpeed() float32           { return c.moveSpeed }
func (c *Camera) GetLookSpeed() float32           { return c.lookSpeed }
func (c *Camera) GetProjectionMode() ProjectionMode {
	return c.mode
}
func (c *Camera) IsOrthographic() bool { return c.mode == Orthographic }

// GetViewProjection returns projection * view.
func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.view)
}

// Setter methods that automatically update projection

func (c *Camera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.UpdateProjectionMatrix()
}

// SetFov stores the field of view and rebuilds the projection only while the
// camera is in perspective mode.
func (c *Camera) SetFov(fov float32) {
	c.fov = fov
	if c.mode == Perspective {
		c.UpdateProjectionMatrix()
	}
}

// SetOrthographicWidth stores the view box width and rebuilds the
// projection only while the camera is orthographic.
func (c *Camera) SetOrthographicWidth(width float32) {
	c.orthoWidth = width
	if c.mode == Orthographic {
		c.UpdateProjectionMatrix()
	}
}

func (c *Camera) SetNearClip(distance float32) {
	c.nearClip = distance
	c.UpdateProjectionMatrix()
}

func (c *Camera) SetFarClip(distance float32) {
	c.farClip = distance
	c.UpdateProjectionMatrix()
}

func (c *Camera) SetMoveSpeed(speed float32) { c.moveSpeed = speed }
func (c *Camera) SetLookSpeed(speed float32) { c.lookSpeed = speed }

func (c *Camera) SetProjectionMode(mode ProjectionMode) {
	if c.mode != mode {
		c.mode = mode
		c.UpdateProjectionMatrix()
	}
}

func (c *Camera) ToggleProjectionMode() {
	if c.mode == Perspective {
		c.mode = Orthographic
	} else {
		c.mode = Perspective
	}
	c.UpdateProjectionMatrix()
}

// Update moves and turns the camera from the polled input, then rebuilds the
// view matrix. W/S/A/D and E/Q move relative to the camera; Space/Shift move
// along world Y. Mouse look applies while the left button is held.
func (c *Camera) Update(in Input, dt float32) {
	if in != nil && !in.KeyboardCaptured() {
		c.processKeyboard(in, dt)
	}
	if in != nil && !in.MouseCaptured() && in.MouseLeftDown() {
		dx, dy := in.MouseDelta()
		c.Look(dx, dy)
	}
	c.UpdateViewMatrix()
}

func (c *Camera) processKeyboard(in Input, dt float32) {
	step := c.moveSpeed * dt
	var rel mgl32.Vec3
	var absY float32

	if keysDown(in, glfw.KeyD, glfw.KeyA) {
		rel[0] = step
	} else if keysDown(in, glfw.KeyA, glfw.KeyD) {
		rel[0] = -step
	}
	if keysDown(in, glfw.KeyW, glfw.KeyS) {
		rel[2] = step
	} else if keysDown(in, glfw.KeyS, glfw.KeyW) {
		rel[2] = -step
	}
	if keysDown(in, glfw.KeyE, glfw.KeyQ) {
		rel[1] = step
	} else if keysDown(in, glfw.KeyQ, glfw.KeyE) {
		rel[1] = -step
	}

	shift := in.KeyDown(glfw.KeyLeftShift) || in.KeyDown(glfw.KeyRightShift)
	space := in.KeyDown(glfw.KeySpace)
	if space && !shift {
		absY = step
	} else if shift && !space {
		absY = -step
	}

	if rel != (mgl32.Vec3{}) {
		c.transform.MoveRelativeV(rel)
	}
	if absY != 0 {
		c.transform.MoveAbsolute(0, absY, 0)
	}
}

// Look turns the camera by a mouse delta in pixels and clamps pitch to
// [-pi/2, pi/2]. It does not rebuild the view matrix.
func (c *Camera) Look(dx, dy float32) {
	scale := c.lookSpeed / 1000
	c.transform.Rotate(dy*scale, dx*scale, 0)

	rot := c.transform.GetRotation()
	if rot[0] > math32.Pi/2 {
		c.transform.SetRotation(math32.Pi/2, rot[1], rot[2])
	} else if rot[0] < -math32.Pi/2 {
		c.transform.SetRotation(-math32.Pi/2, rot[1], rot[2])
	}
}

// UpdateViewMatrix rebuilds the view from the Transform's current position
// and forward vector. Transform edits made between calls are not visible in
// the view until this runs.
func (c *Camera) UpdateViewMatrix() {
	c.view = LookToLH(c.transform.GetPosition(), c.transform.GetForward(), WorldUp)
}

// UpdateProjectionMatrix rebuilds the projection for the current mode.
// Orthographic height is width / aspect.
func (c *Camera) UpdateProjectionMatrix() {
	if c.mode == Orthographic {
		c.projection = OrthographicLH(c.orthoWidth, c.orthoWidth/c.aspect, c.nearClip, c.farClip)
		return
	}
	c.projection = PerspectiveFovLH(c.fov, c.aspect, c.nearClip, c.farClip)
}

// Validate reports projection parameters that produce a degenerate matrix.
// The setters themselves accept any value.
func (c *Camera) Validate() error {
	var errs []error
	if c.aspect <= 0 {
		errs = append(errs, &ConfigurationError{Field: "camera.aspect", Value: c.aspect, Reason: "must be positive"})
	}
	if c.mode == Perspective && (c.fov <= 0 || c.fov >= math32.Pi) {
		errs = append(errs, &ConfigurationError{Field: "camera.fov", Value: c.fov, Reason: "must be in (0, pi)"})
	}
	if c.mode == Orthographic && c.orthoWidth <= 0 {
		errs = append(errs, &ConfigurationError{Field: "camera.ortho_width", Value: c.orthoWidth, Reason: "must be positive"})
	}
	if c.nearClip <= 0 {
		errs = append(errs, &ConfigurationError{Field: "camera.near", Value: c.nearClip, Reason: "must be positive"})
	}
	if c.farClip <= c.nearClip {
		errs = append(errs, &ConfigurationError{Field: "camera.far", Value: c.farClip, Reason: "must be greater than near"})
	}
	return combineErrors(errs)
}

type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

type Frustum struct {
	Planes [6]Plane
}

// CalculateFrustum extracts the six clip planes from the view-projection.
// Depth runs 0..1 so the near plane is the third row alone.
func (c *Camera) CalculateFrustum() Frustum {
	var frustum Frustum
	vp := c.GetViewProjection()
	row := func(i int) mgl32.Vec4 { return vp.Row(i) }
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes := [6]mgl32.Vec4{
		r3.Add(r0), // left
		r3.Sub(r0), // right
		r3.Add(r1), // bottom
		r3.Sub(r1), // top
		r2,         // near
		r3.Sub(r2), // far
	}
	for i, p := range planes {
		normal := p.Vec3()
		length := normal.Len()
		frustum.Planes[i] = Plane{
			Normal:   normal.Mul(1.0 / length),
			Distance: p[3] / length,
		}
	}
	return frustum
}

func (p *Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
