package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBuildShadowMatricesDirectional(t *testing.T) {
	light := NewDirectionalLight(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	cfg := ShadowConfig{AreaWidth: 20, AreaCenter: mgl32.Vec3{0, 0, 0}, LightDistance: 10}

	view, proj := BuildShadowMatrices(light, cfg)

	eye := view.Inv().Col(3).Vec3()
	assertVec3(t, mgl32.Vec3{0, 10, 0}, eye)

	// The view axis points down the light direction.
	assertVec3(t, mgl32.Vec3{0, -1, 0}, view.Row(2).Vec3())

	assert.InDelta(t, 2.0/20.0, proj.At(0, 0), epsilon)
	assert.InDelta(t, 2.0/20.0, proj.At(1, 1), epsilon)
	assert.Equal(t, float32(1), proj.At(3, 3), "projection should be orthographic")

	// The area center lies on the far plane: depth 1.
	center := proj.Mul4(view).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 1.0, center.Z()/center.W(), epsilon)

	// A point just past the near plane maps to depth ~0.
	near := proj.Mul4(view).Mul4x1(mgl32.Vec4{0, 10 - ShadowNearClip, 0, 1})
	assert.InDelta(t, 0.0, near.Z()/near.W(), epsilon)
}

func TestBuildShadowMatricesDirectionalOffCenter(t *testing.T) {
	light := NewDirectionalLight(mgl32.Vec3{1, -1, 0}, mgl32.Vec3{1, 1, 1}, 1)
	cfg := ShadowConfig{AreaWidth: 30, AreaCenter: mgl32.Vec3{5, 0, 5}, LightDistance: 20}

	view, _ := BuildShadowMatrices(light, cfg)

	expected := cfg.AreaCenter.Sub(light.Direction.Mul(20))
	assertVec3(t, expected, view.Inv().Col(3).Vec3())
}

func TestBuildShadowMatricesSpot(t *testing.T) {
	light := NewSpotLight(mgl32.Vec3{1, 5, 1}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 1, 1}, 1, 25,
		mgl32.DegToRad(20), mgl32.DegToRad(30))

	view, proj := BuildShadowMatrices(light, DefaultShadowConfig())

	assertVec3(t, light.Position, view.Inv().Col(3).Vec3())
	expected := PerspectiveFovLH(mgl32.DegToRad(60), 1, ShadowNearClip, 25)
	assert.True(t, expected.ApproxEqualThreshold(proj, epsilon))
	assert.Equal(t, float32(0), proj.At(3, 3), "projection should be perspective")
}

func TestBuildShadowMatricesFarFloor(t *testing.T) {
	light := NewPointLight(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1, 0)

	_, proj := BuildShadowMatrices(light, DefaultShadowConfig())

	expected := PerspectiveFovLH(2*light.SpotOuterAngle, 1, ShadowNearClip, MinShadowFarClip)
	assert.True(t, expected.ApproxEqualThreshold(proj, epsilon))
}

func assertShadowConsistent(t *testing.T, l *Lighting, what string) {
	t.Helper()
	view, proj := BuildShadowMatrices(l.Light(0), l.ShadowConfig())
	if !view.ApproxEqualThreshold(l.ShadowView(), epsilon) || !proj.ApproxEqualThreshold(l.ShadowProjection(), epsilon) {
		t.Errorf("%s should re-derive the shadow matrices", what)
	}
}

func TestLightingRederivesOnEveryEdit(t *testing.T) {
	l := NewLighting(DefaultShadowConfig(),
		NewSpotLight(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0.1}, mgl32.Vec3{1, 1, 1}, 1, 30, 0.3, 0.5),
		NewPointLight(mgl32.Vec3{3, 3, 3}, mgl32.Vec3{1, 0, 0}, 1, 10),
	)
	assertShadowConsistent(t, l, "NewLighting")

	edits := []struct {
		name string
		fn   func()
	}{
		{"SetLightPosition", func() { l.SetLightPosition(0, mgl32.Vec3{2, 8, -1}) }},
		{"SetLightDirection", func() { l.SetLightDirection(0, mgl32.Vec3{0.2, -1, 0}) }},
		{"SetLightRange", func() { l.SetLightRange(0, 4) }},
		{"SetSpotOuterAngle", func() { l.SetSpotOuterAngle(0, 0.8) }},
		{"SetSpotInnerAngle", func() { l.SetSpotInnerAngle(0, 0.9) }},
		{"SetLightType", func() { l.SetLightType(0, DirectionalLight) }},
		{"SetShadowAreaWidth", func() { l.SetShadowAreaWidth(50) }},
		{"SetShadowAreaCenter", func() { l.SetShadowAreaCenter(mgl32.Vec3{1, 0, 1}) }},
		{"SetShadowLightDistance", func() { l.SetShadowLightDistance(35) }},
		{"SetShadowResolution", func() { l.SetShadowResolution(1024) }},
		{"SetShadowConfig", func() { l.SetShadowConfig(ShadowConfig{AreaWidth: 12, LightDistance: 6}) }},
		{"SetLight", func() { l.SetLight(0, NewDirectionalLight(mgl32.Vec3{1, -1, 1}, mgl32.Vec3{1, 1, 1}, 2)) }},
		{"RemoveLight", func() { l.RemoveLight(0) }},
	}

	for _, e := range edits {
		e.fn()
		assertShadowConsistent(t, l, e.name)
	}

	// The last edit promoted the point light to shadow caster.
	assertVec3(t, mgl32.Vec3{3, 3, 3}, l.ShadowView().Inv().Col(3).Vec3())
}

func TestLightingSpotEditKeepsInvariant(t *testing.T) {
	l := NewLighting(DefaultShadowConfig(),
		NewSpotLight(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 1, 1}, 1, 10, 0.2, 0.3))

	l.SetSpotInnerAngle(0, 0.6)
	assert.True(t, l.lights[0].SpotAnglesValid())
	assertShadowConsistent(t, l, "SetSpotInnerAngle")
}

func TestLightingWithoutLightsKeepsMatrices(t *testing.T) {
	l := NewLighting(DefaultShadowConfig())
	if l.ShadowView() != mgl32.Ident4() || l.ShadowProjection() != mgl32.Ident4() {
		t.Error("With no lights the shadow matrices should stay at identity")
	}

	l.SetShadowAreaWidth(99)
	if l.ShadowView() != mgl32.Ident4() {
		t.Error("Re-deriving without lights should keep the previous matrices")
	}

	l.AddLight(NewDirectionalLight(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, 1))
	assertShadowConsistent(t, l, "AddLight")

	view := l.ShadowView()
	l.RemoveLight(0)
	if l.ShadowView() != view {
		t.Error("Removing the last light should keep the last derived matrices")
	}
}

func TestLightingNonShadowEditsLeaveMatrices(t *testing.T) {
	l := NewLighting(DefaultShadowConfig(), NewDirectionalLight(mgl32.Vec3{0, -1, 1}, mgl32.Vec3{1, 1, 1}, 1))
	view, proj := l.ShadowView(), l.ShadowProjection()

	l.SetLightColor(0, mgl32.Vec3{1, 0, 0})
	l.SetLightIntensity(0, 3)
	l.SetLightActive(0, false)
	l.SetShadowsEnabled(false)

	assert.Equal(t, view, l.ShadowView())
	assert.Equal(t, proj, l.ShadowProjection())
	assert.False(t, l.ShadowConfig().Enabled)
}
