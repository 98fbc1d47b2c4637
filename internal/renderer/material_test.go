package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaterial(log *callLog, opts ...MaterialOption) (*Material, *recordingShader) {
	vs := newRecordingShader("vs", log)
	ps := newRecordingShader("ps", log)
	return NewMaterial("test", vs, ps, mgl32.Vec4{1, 1, 1, 1}, opts...), ps
}

func TestNewMaterialDefaults(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})

	assert.Equal(t, "test", m.GetName())
	assert.Equal(t, mgl32.Vec2{0, 0}, m.GetUVPosition())
	assert.Equal(t, mgl32.Vec2{1, 1}, m.GetUVScale())
	assert.False(t, m.UsesGlobalEnvironmentMap())
	assert.False(t, m.IsPBR())
	assert.False(t, m.IsSamplerStateLocked())
	_, hasMetalness := m.GetMetalness()
	assert.False(t, hasMetalness)
	assert.NotEqual(t, m.ID, NewMaterial("other", nil, nil, mgl32.Vec4{}).ID)
}

func TestMaterialOptions(t *testing.T) {
	m, _ := newTestMaterial(&callLog{}, WithRoughness(0.4), WithMetalness(1), WithGlobalEnvironmentMap(), WithPBR())

	assert.Equal(t, float32(0.4), m.GetRoughness())
	metalness, ok := m.GetMetalness()
	assert.True(t, ok)
	assert.Equal(t, float32(1), metalness)
	assert.True(t, m.UsesGlobalEnvironmentMap())
	assert.True(t, m.IsPBR())
}

func TestMaterialRoughnessClamped(t *testing.T) {
	m, _ := newTestMaterial(&callLog{}, WithRoughness(3))
	assert.Equal(t, float32(1), m.GetRoughness())

	m.SetRoughness(-0.5)
	assert.Equal(t, float32(0), m.GetRoughness())

	m.SetRoughness(0.25)
	assert.Equal(t, float32(0.25), m.GetRoughness())
}

func TestMaterialTintIsNotClamped(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	m.SetColorTint(mgl32.Vec4{2, -1, 0.5, 4})
	assert.Equal(t, mgl32.Vec4{2, -1, 0.5, 4}, m.GetColorTint())
}

func TestMaterialTextureReplacement(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	first := &fakeHandle{name: "bricks"}
	second := &fakeHandle{name: "stone"}
	normal := &fakeHandle{name: "bricks_normal"}

	m.AddTextureSRV("Albedo", first)
	m.AddTextureSRV("NormalMap", normal)
	m.AddTextureSRV("Albedo", second)

	srv, ok := m.GetTexture("Albedo")
	require.True(t, ok)
	assert.Same(t, second, srv)
	assert.Equal(t, 1, first.released, "superseded texture should be released")
	assert.Equal(t, 0, second.released)

	textures := m.GetTextures()
	require.Len(t, textures, 2)
	assert.Same(t, second, textures[0])
	assert.Same(t, normal, textures[1])
	assert.Equal(t, []string{"Albedo", "NormalMap"}, m.TextureNames())
}

func TestMaterialReaddingSameHandleKeepsIt(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	h := &fakeHandle{}

	m.AddTextureSRV("Albedo", h)
	m.AddTextureSRV("Albedo", h)

	assert.Equal(t, 0, h.released)
	assert.Len(t, m.GetTextures(), 1)
}

func TestMaterialRemoveTexture(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	h := &fakeHandle{}
	m.AddTextureSRV("Albedo", h)

	m.RemoveTexture("Albedo")
	m.RemoveTexture("Missing")

	assert.Equal(t, 1, h.released)
	assert.Empty(t, m.GetTextures())
}

func TestMaterialSamplerReplacement(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	a, b := &fakeHandle{}, &fakeHandle{}

	m.AddSampler("BasicSampler", a)
	m.AddSampler("BasicSampler", b)

	s, ok := m.GetSampler("BasicSampler")
	require.True(t, ok)
	assert.Same(t, b, s)
	assert.Equal(t, 1, a.released)
	assert.Equal(t, []string{"BasicSampler"}, m.SamplerNames())
}

func TestPrepareMaterialBindsByName(t *testing.T) {
	log := &callLog{}
	m, ps := newTestMaterial(log)
	albedo, rough, sampler := &fakeHandle{}, &fakeHandle{}, &fakeHandle{}
	m.AddTextureSRV("Albedo", albedo)
	m.AddTextureSRV("RoughnessMap", rough)
	m.AddSampler("BasicSampler", sampler)

	m.PrepareMaterial()

	assert.Equal(t, []string{"ps.Bind Albedo", "ps.Bind RoughnessMap", "ps.Bind BasicSampler"}, log.calls)
	assert.Same(t, albedo, ps.values["Albedo"])
	assert.Same(t, sampler, ps.values["BasicSampler"])
}

func TestMaterialRelease(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	tex, sampler := &fakeHandle{}, &fakeHandle{}
	m.AddTextureSRV("Albedo", tex)
	m.AddSampler("BasicSampler", sampler)

	m.Release()

	assert.Equal(t, 1, tex.released)
	assert.Equal(t, 1, sampler.released)
	assert.Empty(t, m.GetTextures())
	assert.Empty(t, m.SamplerNames())
}

func TestSharedMaterialEditsReachEveryEntity(t *testing.T) {
	m, _ := newTestMaterial(&callLog{})
	a := NewEntity("a", &fakeMesh{}, m)
	b := NewEntity("b", &fakeMesh{}, m)

	m.SetColorTint(mgl32.Vec4{1, 0, 0, 1})

	assert.Equal(t, a.GetMaterial().GetColorTint(), b.GetMaterial().GetColorTint())
}
