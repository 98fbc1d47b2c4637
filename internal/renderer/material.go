package renderer

import (
	"Forward3D/internal/logger"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Material pairs a vertex and pixel shader with the surface parameters and
// texture bindings they read. One Material may be shared by many entities;
// edits show up on all of them.
type Material struct {
	ID   uuid.UUID
	name string

	vertexShader VertexShader
	pixelShader  PixelShader

	colorTint    mgl32.Vec4
	roughness    float32 // always within [0, 1]
	metalness    float32
	hasMetalness bool
	uvPosition   mgl32.Vec2
	uvScale      mgl32.Vec2

	// Textures keep the order their names were first added in.
	textures     map[string]ShaderResourceView
	textureNames []string
	samplers     map[string]SamplerState
	samplerNames []string

	useGlobalEnvironmentMap bool
	isPBR                   bool
	samplerLocked           bool
}

// MaterialOption customises a Material at construction.
type MaterialOption func(*Material)

func WithRoughness(roughness float32) MaterialOption {
	return func(m *Material) { m.SetRoughness(roughness) }
}

func WithMetalness(metalness float32) MaterialOption {
	return func(m *Material) { m.SetMetalness(metalness) }
}

func WithGlobalEnvironmentMap() MaterialOption {
	return func(m *Material) { m.useGlobalEnvironmentMap = true }
}

func WithPBR() MaterialOption {
	return func(m *Material) { m.isPBR = true }
}

func NewMaterial(name string, vs VertexShader, ps PixelShader, tint mgl32.Vec4, opts ...MaterialOption) *Material {
	m := &Material{
		ID:           uuid.New(),
		name:         name,
		vertexShader: vs,
		pixelShader:  ps,
		colorTint:    tint,
		uvScale:      mgl32.Vec2{1, 1},
		textures:     make(map[string]ShaderResourceView),
		samplers:     make(map[string]SamplerState),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Material) GetName() string                   { return m.name }
func (m *Material) GetVertexShader() VertexShader     { return m.vertexShader }
func (m *Material) GetPixelShader() PixelShader       { return m.pixelShader }
func (m *Material) GetColorTint() mgl32.Vec4          { return m.colorTint }
func (m *Material) GetRoughness() float32             { return m.roughness }
func (m *Material) GetUVPosition() mgl32.Vec2         { return m.uvPosition }
func (m *Material) GetUVScale() mgl32.Vec2            { return m.uvScale }
func (m *Material) UsesGlobalEnvironmentMap() bool    { return m.useGlobalEnvironmentMap }
func (m *Material) IsPBR() bool                       { return m.isPBR }
func (m *Material) IsSamplerStateLocked() bool        { return m.samplerLocked }
func (m *Material) SetVertexShader(vs VertexShader)   { m.vertexShader = vs }
func (m *Material) SetPixelShader(ps PixelShader)     { m.pixelShader = ps }
func (m *Material) SetColorTint(tint mgl32.Vec4)      { m.colorTint = tint }
func (m *Material) SetUVPosition(offset mgl32.Vec2)   { m.uvPosition = offset }
func (m *Material) SetUVScale(scale mgl32.Vec2)       { m.uvScale = scale }
func (m *Material) SetUseGlobalEnvironmentMap(b bool) { m.useGlobalEnvironmentMap = b }
func (m *Material) SetPBR(b bool)                     { m.isPBR = b }

// GetMetalness returns the metalness and whether one was ever set.
func (m *Material) GetMetalness() (float32, bool) {
	return m.metalness, m.hasMetalness
}

func (m *Material) SetRoughness(roughness float32) {
	m.roughness = mgl32.Clamp(roughness, 0, 1)
}

func (m *Material) SetMetalness(metalness float32) {
	m.metalness = math32.Max(0, math32.Min(1, metalness))
	m.hasMetalness = true
}

// LockSamplerState keeps global sampler changes away from this Material.
func (m *Material) LockSamplerState()   { m.samplerLocked = true }
func (m *Material) UnlockSamplerState() { m.samplerLocked = false }

// AddTextureSRV binds srv under name, releasing any texture previously bound
// under the same name. The Material takes ownership of the reference.
func (m *Material) AddTextureSRV(name string, srv ShaderResourceView) {
	if old, exists := m.textures[name]; exists {
		if old != srv {
			old.Release()
		}
		logger.Log.Debug("Texture binding replaced",
			zap.String("material", m.name),
			zap.String("name", name))
	} else {
		m.textureNames = append(m.textureNames, name)
	}
	m.textures[name] = srv
}

// RemoveTexture releases and unbinds the texture under name, if any.
func (m *Material) RemoveTexture(name string) {
	srv, exists := m.textures[name]
	if !exists {
		return
	}
	srv.Release()
	delete(m.textures, name)
	for i, n := range m.textureNames {
		if n == name {
			m.textureNames = append(m.textureNames[:i], m.textureNames[i+1:]...)
			break
		}
	}
}

// AddSampler binds sampler under name, releasing any sampler previously bound
// under the same name.
func (m *Material) AddSampler(name string, sampler SamplerState) {
	if old, exists := m.samplers[name]; exists {
		if old != sampler {
			old.Release()
		}
	} else {
		m.samplerNames = append(m.samplerNames, name)
	}
	m.samplers[name] = sampler
}

func (m *Material) GetTexture(name string) (ShaderResourceView, bool) {
	srv, ok := m.textures[name]
	return srv, ok
}

func (m *Material) GetSampler(name string) (SamplerState, bool) {
	s, ok := m.samplers[name]
	return s, ok
}

// GetTextures lists the bound textures, one entry per name.
func (m *Material) GetTextures() []ShaderResourceView {
	list := make([]ShaderResourceView, 0, len(m.textureNames))
	for _, name := range m.textureNames {
		list = append(list, m.textures[name])
	}
	return list
}

func (m *Material) TextureNames() []string {
	return append([]string(nil), m.textureNames...)
}

func (m *Material) SamplerNames() []string {
	return append([]string(nil), m.samplerNames...)
}

// PrepareMaterial binds every texture and sampler to the pixel shader by
// name. It does not check the names against what the shader declares.
func (m *Material) PrepareMaterial() {
	for _, name := range m.textureNames {
		m.pixelShader.SetShaderResourceView(name, m.textures[name])
	}
	for _, name := range m.samplerNames {
		m.pixelShader.SetSamplerState(name, m.samplers[name])
	}
}

// Release drops every texture and sampler reference held by the Material.
func (m *Material) Release() {
	for _, name := range m.textureNames {
		m.textures[name].Release()
	}
	for _, name := range m.samplerNames {
		m.samplers[name].Release()
	}
	m.textures = make(map[string]ShaderResourceView)
	m.samplers = make(map[string]SamplerState)
	m.textureNames = nil
	m.samplerNames = nil
}
