package renderer

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position, Euler rotation and scale with lazily rebuilt
// world matrices and basis vectors. Transforms have no parent; a Transform
// may be shared between several entities or cameras through its pointer.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3 // pitch, yaw, roll in radians
	scale    mgl32.Vec3

	world                 mgl32.Mat4
	worldInverseTranspose mgl32.Mat4
	forward               mgl32.Vec3
	right                 mgl32.Vec3
	up                    mgl32.Vec3

	matricesDirty bool
	vectorsDirty  bool
}

// NewTransform returns a Transform with no translation, no rotation and
// unit scale.
func NewTransform() *Transform {
	return &Transform{
		scale:                 mgl32.Vec3{1, 1, 1},
		world:                 mgl32.Ident4(),
		worldInverseTranspose: mgl32.Ident4(),
		forward:               mgl32.Vec3{0, 0, 1},
		right:                 mgl32.Vec3{1, 0, 0},
		up:                    mgl32.Vec3{0, 1, 0},
	}
}

func (t *Transform) GetPosition() mgl32.Vec3 { return t.position }
func (t *Transform) GetRotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) GetScale() mgl32.Vec3    { return t.scale }

// GetWorld returns the world matrix, rebuilding it first if a mutator ran
// since the last read.
func (t *Transform) GetWorld() mgl32.Mat4 {
	if t.matricesDirty {
		t.rebuildMatrices()
	}
	return t.world
}

// GetWorldInverseTranspose returns inverse(transpose(world)), used to
// transform normals under non-uniform scale.
func (t *Transform) GetWorldInverseTranspose() mgl32.Mat4 {
	if t.matricesDirty {
		t.rebuildMatrices()
	}
	return t.worldInverseTranspose
}

func (t *Transform) GetForward() mgl32.Vec3 {
	if t.vectorsDirty {
		t.rebuildVectors()
	}
	return t.forward
}

func (t *Transform) GetRight() mgl32.Vec3 {
	if t.vectorsDirty {
		t.rebuildVectors()
	}
	return t.right
}

func (t *Transform) GetUp() mgl32.Vec3 {
	if t.vectorsDirty {
		t.rebuildVectors()
	}
	return t.up
}

func (t *Transform) SetPosition(x, y, z float32) {
	t.SetPositionV(mgl32.Vec3{x, y, z})
}

func (t *Transform) SetPositionV(position mgl32.Vec3) {
	t.position = position
	t.matricesDirty = true
}

func (t *Transform) SetRotation(pitch, yaw, roll float32) {
	t.SetRotationV(mgl32.Vec3{pitch, yaw, roll})
}

func (t *Transform) SetRotationV(pitchYawRoll mgl32.Vec3) {
	t.rotation = pitchYawRoll
	t.matricesDirty = true
	t.vectorsDirty = true
}

func (t *Transform) SetScale(x, y, z float32) {
	t.SetScaleV(mgl32.Vec3{x, y, z})
}

func (t *Transform) SetScaleV(scale mgl32.Vec3) {
	t.scale = scale
	t.matricesDirty = true
}

// MoveAbsolute translates along the world axes.
func (t *Transform) MoveAbsolute(x, y, z float32) {
	t.MoveAbsoluteV(mgl32.Vec3{x, y, z})
}

func (t *Transform) MoveAbsoluteV(offset mgl32.Vec3) {
	t.position = t.position.Add(offset)
	t.matricesDirty = true
}

// MoveRelative translates along the Transform's own axes: the offset is
// rotated by the current orientation before it is added.
func (t *Transform) MoveRelative(x, y, z float32) {
	t.MoveRelativeV(mgl32.Vec3{x, y, z})
}

func (t *Transform) MoveRelativeV(offset mgl32.Vec3) {
	q := t.orientation()
	t.position = t.position.Add(q.Rotate(offset))
	t.matricesDirty = true
}

// Rotate adds to the Euler angles. Gimbal lock is not handled.
func (t *Transform) Rotate(pitch, yaw, roll float32) {
	t.RotateV(mgl32.Vec3{pitch, yaw, roll})
}

func (t *Transform) RotateV(pitchYawRoll mgl32.Vec3) {
	t.rotation = t.rotation.Add(pitchYawRoll)
	t.matricesDirty = true
	t.vectorsDirty = true
}

// Scale multiplies the current scale component-wise.
func (t *Transform) Scale(x, y, z float32) {
	t.ScaleV(mgl32.Vec3{x, y, z})
}

func (t *Transform) ScaleV(factor mgl32.Vec3) {
	t.scale = mgl32.Vec3{t.scale[0] * factor[0], t.scale[1] * factor[1], t.scale[2] * factor[2]}
	t.matricesDirty = true
}

func (t *Transform) orientation() mgl32.Quat {
	return RotationPitchYawRoll(t.rotation[0], t.rotation[1], t.rotation[2])
}

func (t *Transform) rebuildMatrices() {
	scale := mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2])
	rotation := t.orientation().Mat4()
	translation := mgl32.Translate3D(t.position[0], t.position[1], t.position[2])

	t.world = translation.Mul4(rotation).Mul4(scale)
	t.worldInverseTranspose = t.world.Transpose().Inv()
	t.matricesDirty = false
}

// rebuildVectors rotates the canonical unit axes; the results are not
// re-normalized.
func (t *Transform) rebuildVectors() {
	q := t.orientation()
	t.right = q.Rotate(mgl32.Vec3{1, 0, 0})
	t.up = q.Rotate(mgl32.Vec3{0, 1, 0})
	t.forward = q.Rotate(mgl32.Vec3{0, 0, 1})
	t.vectorsDirty = false
}
