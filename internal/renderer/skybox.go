package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Skybox binding names.
const (
	SkyboxTextureName = "MapCube"
	SkyboxSamplerName = DefaultSamplerName
)

// RenderState is fixed-function state applied around a single draw.
type RenderState interface {
	Bind()
	Unbind()
}

// Skybox draws a cube map behind everything else. The cube map doubles as
// the global environment map for materials that ask for it.
type Skybox struct {
	Name string

	mesh         Mesh
	vertexShader VertexShader
	pixelShader  PixelShader
	cubemap      ShaderResourceView
	sampler      SamplerState
	state        RenderState
}

// NewSkybox takes ownership of the cubemap and sampler references.
func NewSkybox(name string, mesh Mesh, vs VertexShader, ps PixelShader, cubemap ShaderResourceView, sampler SamplerState, state RenderState) *Skybox {
	return &Skybox{
		Name:         name,
		mesh:         mesh,
		vertexShader: vs,
		pixelShader:  ps,
		cubemap:      cubemap,
		sampler:      sampler,
		state:        state,
	}
}

func (s *Skybox) GetSRV() ShaderResourceView { return s.cubemap }

// Draw renders the sky with the camera's view and projection. It should run
// after opaque geometry so depth testing rejects covered pixels.
func (s *Skybox) Draw(camera *Camera) {
	s.state.Bind()

	s.vertexShader.SetShader()
	s.vertexShader.SetMatrix4x4(UniformView, camera.GetViewMatrix())
	s.vertexShader.SetMatrix4x4(UniformProjection, camera.GetProjectionMatrix())

	s.pixelShader.SetShader()
	s.pixelShader.SetSamplerState(SkyboxSamplerName, s.sampler)
	s.pixelShader.SetShaderResourceView(SkyboxTextureName, s.cubemap)

	s.vertexShader.CopyAllBufferData()
	s.pixelShader.CopyAllBufferData()

	s.mesh.Draw()

	s.state.Unbind()
}

func (s *Skybox) Release() {
	if s.cubemap != nil {
		s.cubemap.Release()
		s.cubemap = nil
	}
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
}

// SkyboxState culls front faces so the inside of the cube is visible, and
// passes depth-equal fragments so the sky can sit at the far plane.
type SkyboxState struct{}

func (SkyboxState) Bind() {
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
	gl.DepthFunc(gl.LEQUAL)
}

func (SkyboxState) Unbind() {
	gl.CullFace(gl.BACK)
	if !FaceCullingEnabled {
		gl.Disable(gl.CULL_FACE)
	}
	gl.DepthFunc(gl.LESS)
}
