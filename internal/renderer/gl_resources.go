package renderer

import (
	"fmt"

	"Forward3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// GL_TEXTURE_MAX_ANISOTROPY, core in 4.6 and available as an extension
// before that.
const textureMaxAnisotropy = 0x84FE

// GLMesh is an indexed triangle list uploaded to a VAO.
type GLMesh struct {
	name        string
	vao         uint32
	vbo         uint32
	ebo         uint32
	vertexCount int
	indexCount  int
}

// NewGLMesh uploads g with the Vertex layout at attribute locations 0-3.
func NewGLMesh(g *Geometry) *GLMesh {
	m := &GLMesh{name: g.Name, vertexCount: len(g.Vertices), indexCount: len(g.Indices)}
	data := g.Interleave()

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(FloatsPerVertex * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(3, 2, gl.FLOAT, false, stride, gl.PtrOffset(9*4))
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)

	logger.Log.Debug("Mesh uploaded",
		zap.String("name", m.name),
		zap.Int("vertices", m.vertexCount),
		zap.Int("indices", m.indexCount))
	return m
}

func (m *GLMesh) Name() string     { return m.name }
func (m *GLMesh) VertexCount() int { return m.vertexCount }
func (m *GLMesh) IndexCount() int  { return m.indexCount }

func (m *GLMesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, int32(m.indexCount), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *GLMesh) Release() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// GLSampler owns one GL sampler object.
type GLSampler struct {
	id       uint32
	released bool
}

func (s *GLSampler) GLID() uint32 { return s.id }

func (s *GLSampler) Release() {
	if s.released {
		return
	}
	s.released = true
	gl.DeleteSamplers(1, &s.id)
}

// GLSamplerFactory creates wrap-addressed samplers.
type GLSamplerFactory struct{}

func (GLSamplerFactory) CreateSampler(desc SamplerDesc) (SamplerState, error) {
	s := &GLSampler{}
	gl.GenSamplers(1, &s.id)
	if s.id == 0 {
		return nil, fmt.Errorf("glGenSamplers returned no sampler")
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, gl.REPEAT)

	switch desc.Filter {
	case FilterPoint:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_NEAREST)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	case FilterLinear:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	case FilterAnisotropic:
		gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.SamplerParameterf(s.id, textureMaxAnisotropy, float32(desc.MaxAnisotropy))
	}
	return s, nil
}

// CreateShadowSampler returns a point sampler that reads outside the map as
// fully lit.
func (GLSamplerFactory) CreateShadowSampler() *GLSampler {
	s := &GLSampler{}
	gl.GenSamplers(1, &s.id)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	border := [4]float32{1, 1, 1, 1}
	gl.SamplerParameterfv(s.id, gl.TEXTURE_BORDER_COLOR, &border[0])
	return s
}

// ShadowMap is a square depth-only render target. It is read back as a
// ShaderResourceView by the lit shader.
type ShadowMap struct {
	fbo        uint32
	texture    uint32
	resolution int32
}

func NewShadowMap(resolution int32) (*ShadowMap, error) {
	sm := &ShadowMap{}
	if err := sm.allocate(resolution); err != nil {
		return nil, err
	}
	return sm, nil
}

func (sm *ShadowMap) allocate(resolution int32) error {
	var cleanup Unwind
	defer cleanup.Unwind()

	gl.GenTextures(1, &sm.texture)
	cleanup.Add(func() { gl.DeleteTextures(1, &sm.texture) })
	gl.BindTexture(gl.TEXTURE_2D, sm.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, resolution, resolution, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.GenFramebuffers(1, &sm.fbo)
	cleanup.Add(func() { gl.DeleteFramebuffers(1, &sm.fbo) })
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("shadow map framebuffer incomplete: 0x%x", status)
	}

	sm.resolution = resolution
	cleanup.Discard()
	logger.Log.Info("Shadow map allocated", zap.Int32("resolution", resolution))
	return nil
}

func (sm *ShadowMap) GLID() uint32      { return sm.texture }
func (sm *ShadowMap) GLTarget() uint32  { return gl.TEXTURE_2D }
func (sm *ShadowMap) Resolution() int32 { return sm.resolution }

// Resize reallocates the target when resolution changed.
func (sm *ShadowMap) Resize(resolution int32) error {
	if resolution == sm.resolution {
		return nil
	}
	sm.Release()
	return sm.allocate(resolution)
}

// Begin binds the target and clears its depth.
func (sm *ShadowMap) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.fbo)
	gl.Viewport(0, 0, sm.resolution, sm.resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// End restores the default framebuffer at the given viewport size.
func (sm *ShadowMap) End(width, height int32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, width, height)
}

// Release frees the target. The renderer owns the shadow map, so a lit
// shader's reference to it is not counted.
func (sm *ShadowMap) Release() {
	gl.DeleteFramebuffers(1, &sm.fbo)
	gl.DeleteTextures(1, &sm.texture)
	sm.fbo, sm.texture = 0, 0
}
