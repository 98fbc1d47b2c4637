package renderer

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// The scene uses a left-handed coordinate system: +X right, +Y up, +Z into
// the screen. Matrices follow mgl32's column-vector convention, so a world
// matrix reads Translate * Rotate * Scale and clip = Projection * View * v.
// Clip-space depth is [0, 1].

// WorldUp is the reference up vector for every look-to matrix.
var WorldUp = mgl32.Vec3{0, 1, 0}

// LookToLH builds a left-handed view matrix at eye looking along dir.
// When dir is parallel to up the basis is built from +Z instead so the
// matrix stays invertible.
func LookToLH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	z := dir.Normalize()
	x := up.Cross(z)
	if x.Dot(x) == 0 {
		x = mgl32.Vec3{0, 0, 1}.Cross(z)
		if x.Dot(x) == 0 {
			x = mgl32.Vec3{1, 0, 0}
		}
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl32.Mat4FromRows(
		mgl32.Vec4{x[0], x[1], x[2], -x.Dot(eye)},
		mgl32.Vec4{y[0], y[1], y[2], -y.Dot(eye)},
		mgl32.Vec4{z[0], z[1], z[2], -z.Dot(eye)},
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// PerspectiveFovLH builds a left-handed perspective projection. fovY is the
// vertical field of view in radians.
func PerspectiveFovLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	h := 1 / math32.Tan(fovY/2)
	w := h / aspect
	r := far / (far - near)

	return mgl32.Mat4FromRows(
		mgl32.Vec4{w, 0, 0, 0},
		mgl32.Vec4{0, h, 0, 0},
		mgl32.Vec4{0, 0, r, -r * near},
		mgl32.Vec4{0, 0, 1, 0},
	)
}

// OrthographicLH builds a left-handed orthographic projection of a
// width x height view box centred on the view axis.
func OrthographicLH(width, height, near, far float32) mgl32.Mat4 {
	r := 1 / (far - near)

	return mgl32.Mat4FromRows(
		mgl32.Vec4{2 / width, 0, 0, 0},
		mgl32.Vec4{0, 2 / height, 0, 0},
		mgl32.Vec4{0, 0, r, -r * near},
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// RotationPitchYawRoll returns the orientation for Euler angles in radians.
// Roll (Z) is applied first, then pitch (X), then yaw (Y).
func RotationPitchYawRoll(pitch, yaw, roll float32) mgl32.Quat {
	qx := mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}
