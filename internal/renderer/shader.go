package renderer

import "github.com/go-gl/mathgl/mgl32"

// ShaderResourceView is a counted reference to a GPU texture. Release drops
// the reference; the texture is freed when the last one goes.
type ShaderResourceView interface {
	Release()
}

// SamplerState is a counted reference to a GPU sampler object.
type SamplerState interface {
	Release()
}

// Shader is one programmable stage with string-keyed uniforms. Set* calls are
// staged locally and reach the GPU on CopyAllBufferData. Names the stage does
// not declare are ignored.
type Shader interface {
	// SetShader binds the stage for the next draw.
	SetShader()

	SetMatrix4x4(name string, value mgl32.Mat4)
	SetFloat(name string, value float32)
	SetFloat2(name string, value mgl32.Vec2)
	SetFloat3(name string, value mgl32.Vec3)
	SetFloat4(name string, value mgl32.Vec4)
	SetInt(name string, value int32)
	// SetData stages a raw block, such as the packed light array.
	SetData(name string, data []byte)

	SetShaderResourceView(name string, srv ShaderResourceView)
	SetSamplerState(name string, sampler SamplerState)

	// CopyAllBufferData commits every staged value.
	CopyAllBufferData()
}

// VertexShader and PixelShader name the two stages a Material pairs. On the
// GL backend both are served by the same linked program.
type VertexShader = Shader
type PixelShader = Shader

// Mesh is an uploaded, indexed triangle list.
type Mesh interface {
	Name() string
	VertexCount() int
	IndexCount() int
	// Draw issues exactly one indexed draw with whatever is bound.
	Draw()
}
