package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayIntersectSphere(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, -10}, Direction: mgl32.Vec3{0, 0, 1}}

	hit, dist, point := RayIntersectSphere(ray, mgl32.Vec3{}, 2)
	require.True(t, hit)
	assert.InDelta(t, 8, dist, epsilon)
	assertVec3(t, mgl32.Vec3{0, 0, -2}, point)

	hit, _, _ = RayIntersectSphere(ray, mgl32.Vec3{5, 0, 0}, 2)
	assert.False(t, hit, "Sphere off to the side should be missed")

	hit, _, _ = RayIntersectSphere(ray, mgl32.Vec3{0, 0, -20}, 2)
	assert.False(t, hit, "Sphere behind the origin should be missed")

	inside := Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{1, 0, 0}}
	hit, dist, _ = RayIntersectSphere(inside, mgl32.Vec3{}, 3)
	require.True(t, hit)
	assert.InDelta(t, 3, dist, epsilon)
}

func TestScreenToRayCenter(t *testing.T) {
	cam := NewCamera("main", 16.0/9.0, WithFov(mgl32.DegToRad(60)))
	cam.GetTransform().SetPosition(0, 0, -5)
	cam.UpdateViewMatrix()

	ray := ScreenToRay(cam, 640, 360, 1280, 720)

	assertVec3(t, mgl32.Vec3{0, 0, 1}, ray.Direction)
	assert.InDelta(t, -5+cam.GetNearClip(), ray.Origin.Z(), 1e-3)
}

func TestScreenToRayCorners(t *testing.T) {
	cam := NewCamera("main", 1, WithFov(mgl32.DegToRad(90)))
	cam.UpdateViewMatrix()

	right := ScreenToRay(cam, 100, 50, 100, 100)
	assert.InDelta(t, 1, right.Direction.X()/right.Direction.Z(), 1e-3, "right edge of a 90 degree view is at 45 degrees")

	top := ScreenToRay(cam, 50, 0, 100, 100)
	assert.InDelta(t, 1, top.Direction.Y()/top.Direction.Z(), 1e-3)
}

func TestScreenToRayOrthographic(t *testing.T) {
	cam := NewCamera("ortho", 2, WithOrthographic(10))
	cam.UpdateViewMatrix()

	ray := ScreenToRay(cam, 200, 100, 200, 200)

	assertVec3(t, mgl32.Vec3{0, 0, 1}, ray.Direction)
	assert.InDelta(t, 5, ray.Origin.X(), epsilon)
	assert.InDelta(t, 0, ray.Origin.Y(), epsilon)
}

func TestPickEntity(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	near := NewEntity("near", &fakeMesh{}, m)
	near.BoundingRadius = 1
	near.GetTransform().SetPosition(0, 0, 5)

	far := NewEntity("far", &fakeMesh{}, m)
	far.BoundingRadius = 1
	far.GetTransform().SetPosition(0, 0, 10)
	far.GetTransform().SetScale(4, 4, 4)

	unbounded := NewEntity("unbounded", &fakeMesh{}, m)

	ray := Ray{Origin: mgl32.Vec3{}, Direction: mgl32.Vec3{0, 0, 1}}
	e, dist, ok := PickEntity(ray, []*Entity{far, unbounded, near})
	require.True(t, ok)
	assert.Same(t, near, e)
	assert.InDelta(t, 4, dist, epsilon)

	// The scaled sphere reaches y = 3.5 at z = 10.
	up := Ray{Origin: mgl32.Vec3{0, 3.5, 0}, Direction: mgl32.Vec3{0, 0, 1}}
	e, _, ok = PickEntity(up, []*Entity{near, far})
	require.True(t, ok)
	assert.Same(t, far, e)

	_, _, ok = PickEntity(Ray{Direction: mgl32.Vec3{1, 0, 0}}, []*Entity{near, far})
	assert.False(t, ok)
}
