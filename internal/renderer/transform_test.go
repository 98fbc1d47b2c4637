package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-4

func assertVec3(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, expected[i], actual[i], epsilon, "component %d of %v vs %v", i, expected, actual)
	}
}

func TestNewTransform(t *testing.T) {
	tr := NewTransform()

	if tr.GetPosition() != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("Expected position (0,0,0), got %v", tr.GetPosition())
	}
	if tr.GetScale() != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("Expected scale (1,1,1), got %v", tr.GetScale())
	}
	if tr.GetWorld() != mgl32.Ident4() {
		t.Errorf("Expected identity world, got %v", tr.GetWorld())
	}
	assertVec3(t, mgl32.Vec3{0, 0, 1}, tr.GetForward())
	assertVec3(t, mgl32.Vec3{1, 0, 0}, tr.GetRight())
	assertVec3(t, mgl32.Vec3{0, 1, 0}, tr.GetUp())
}

func TestTransformWorldDecomposes(t *testing.T) {
	cases := []struct {
		position, rotation, scale mgl32.Vec3
	}{
		{mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}},
		{mgl32.Vec3{-4, 0.5, 10}, mgl32.Vec3{0.3, -1.2, 0.7}, mgl32.Vec3{2, 3, 0.5}},
		{mgl32.Vec3{0, -7, 2}, mgl32.Vec3{math.Pi / 2, math.Pi, 0.1}, mgl32.Vec3{0.25, 0.25, 4}},
	}

	for _, c := range cases {
		tr := NewTransform()
		tr.SetPositionV(c.position)
		tr.SetRotationV(c.rotation)
		tr.SetScaleV(c.scale)

		world := tr.GetWorld()
		assertVec3(t, c.position, world.Col(3).Vec3())

		var rot mgl32.Mat4
		for i := 0; i < 3; i++ {
			col := world.Col(i).Vec3()
			assert.InDelta(t, c.scale[i], col.Len(), epsilon)
			rot.SetCol(i, col.Mul(1/col.Len()).Vec4(0))
		}
		rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

		expected := RotationPitchYawRoll(c.rotation[0], c.rotation[1], c.rotation[2]).Mat4()
		assert.True(t, expected.ApproxEqualThreshold(rot, epsilon), "rotation %v != %v", expected, rot)

		wit := tr.GetWorldInverseTranspose()
		assert.True(t, world.Transpose().Inv().ApproxEqualThreshold(wit, epsilon))
	}
}

func TestTransformScaleRotateTranslateOrder(t *testing.T) {
	tr := NewTransform()
	tr.SetScale(2, 1, 1)
	tr.SetRotation(0, math.Pi/2, 0)
	tr.SetPosition(0, 0, 5)

	// Local +X is stretched to 2, yawed onto -Z, then moved by +5 on Z.
	p := tr.GetWorld().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec3(t, mgl32.Vec3{0, 0, 3}, p)
}

func TestTransformCaching(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(1, 2, 3)

	if !tr.matricesDirty {
		t.Fatal("SetPosition should mark matrices dirty")
	}
	first := tr.GetWorld()
	if tr.matricesDirty {
		t.Error("GetWorld should clear the dirty flag")
	}
	second := tr.GetWorld()
	if first != second {
		t.Error("Repeated reads without a mutator should be identical")
	}

	tr.MoveAbsolute(1, 0, 0)
	third := tr.GetWorld()
	if third == second {
		t.Error("GetWorld should reflect MoveAbsolute")
	}
	assertVec3(t, mgl32.Vec3{2, 2, 3}, third.Col(3).Vec3())
}

func TestTransformDirtyFlagsAreIndependent(t *testing.T) {
	tr := NewTransform()
	tr.GetForward()
	tr.GetWorld()

	tr.SetPosition(4, 5, 6)
	tr.SetScale(2, 2, 2)
	if tr.vectorsDirty {
		t.Error("position and scale must not dirty the basis vectors")
	}
	if !tr.matricesDirty {
		t.Error("position and scale must dirty the matrices")
	}

	tr.GetWorld()
	tr.Rotate(0.1, 0, 0)
	if !tr.vectorsDirty || !tr.matricesDirty {
		t.Error("rotation must dirty both caches")
	}

	tr.GetUp()
	if tr.vectorsDirty {
		t.Error("GetUp should rebuild the basis")
	}
	if !tr.matricesDirty {
		t.Error("reading the basis must not rebuild the matrices")
	}
}

func TestTransformBasisIgnoresScaleAndPosition(t *testing.T) {
	tr := NewTransform()
	tr.SetScale(5, 0.1, 3)
	tr.SetPosition(100, -20, 7)
	tr.SetRotation(0, math.Pi/2, 0)

	assertVec3(t, mgl32.Vec3{1, 0, 0}, tr.GetForward())
	assertVec3(t, mgl32.Vec3{0, 0, -1}, tr.GetRight())
	assertVec3(t, mgl32.Vec3{0, 1, 0}, tr.GetUp())
	assert.InDelta(t, 1.0, tr.GetUp().Len(), epsilon)
}

func TestTransformMoveRelative(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(0, math.Pi/2, 0)

	right := tr.GetRight()
	tr.MoveRelative(1, 0, 0)

	expected := NewTransform()
	expected.MoveAbsoluteV(right)

	assertVec3(t, expected.GetPosition(), tr.GetPosition())
	assertVec3(t, mgl32.Vec3{0, 0, -1}, tr.GetPosition())
}

func TestTransformMoveRelativeForward(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(math.Pi/4, 0, 0)
	tr.MoveRelative(0, 0, 2)

	assertVec3(t, tr.GetForward().Mul(2), tr.GetPosition())
}

func TestTransformRotateIsAdditive(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(0.1, 0.2, 0.3)
	tr.Rotate(0.1, -0.2, 1)

	assertVec3(t, mgl32.Vec3{0.2, 0, 1.3}, tr.GetRotation())
}

func TestTransformScaleCompounds(t *testing.T) {
	tr := NewTransform()
	tr.Scale(2, 3, 4)
	tr.Scale(0.5, 2, 1)

	if tr.GetScale() != (mgl32.Vec3{1, 6, 4}) {
		t.Errorf("Expected scale (1,6,4), got %v", tr.GetScale())
	}
}
