package renderer

import (
	"fmt"
	"strings"

	"Forward3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// currentProgram tracks the bound program to avoid redundant switches.
var currentProgram uint32

// glTextureHandle is a ShaderResourceView backed by a GL texture.
type glTextureHandle interface {
	GLID() uint32
	GLTarget() uint32
}

// glSamplerHandle is a SamplerState backed by a GL sampler object.
type glSamplerHandle interface {
	GLID() uint32
}

type uniformBlock struct {
	binding uint32
	buffer  uint32
}

// GLShader is a linked GL program serving as both the vertex and the pixel
// stage. Values are staged by name and uploaded by CopyAllBufferData.
type GLShader struct {
	Name string

	program  uint32
	uniforms *UniformCache

	staged      map[string]interface{}
	stagedOrder []string

	// textureUnits is fixed at link time. textures and samplers hold only
	// what the current draw bound and are cleared by CopyAllBufferData.
	textureUnits map[string]samplerUniform
	textures     map[string]glTextureHandle
	samplers     map[string]glSamplerHandle
	blocks       map[string]*uniformBlock

	// SamplerTargets dedicates a sampler to one texture. Samplers not listed
	// apply to every texture unit no dedicated sampler claims.
	SamplerTargets map[string]string
}

// NewGLShader compiles and links a program from GLSL sources.
func NewGLShader(name, vertexSource, fragmentSource string) (*GLShader, error) {
	var cleanup Unwind
	defer cleanup.Unwind()

	vs, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	cleanup.Add(func() { gl.DeleteShader(vs) })

	fs, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	cleanup.Add(func() { gl.DeleteShader(fs) })

	program, err := linkProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}

	shader := &GLShader{
		Name:           name,
		program:        program,
		uniforms:       NewUniformCache(program),
		staged:         make(map[string]interface{}),
		textureUnits:   assignSamplerUnits(activeUniforms(program)),
		textures:       make(map[string]glTextureHandle),
		samplers:       make(map[string]glSamplerHandle),
		blocks:         make(map[string]*uniformBlock),
		SamplerTargets: map[string]string{SamplerShadow: TextureShadowMap},
	}

	shader.SetShader()
	for uniform, su := range shader.textureUnits {
		shader.uniforms.SetInt(uniform, su.unit)
	}

	logger.Log.Info("Shader program linked",
		zap.String("name", name),
		zap.Uint32("program", program),
		zap.Int("samplers", len(shader.textureUnits)))
	return shader, nil
}

func activeUniforms(program uint32) []activeUniform {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)

	uniforms := make([]activeUniform, 0, count)
	buf := make([]uint8, maxLength+1)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, uint32(i), int32(len(buf)), &length, &size, &xtype, &buf[0])
		uniforms = append(uniforms, activeUniform{name: string(buf[:length]), xtype: xtype})
	}
	return uniforms
}

func (s *GLShader) SetShader() {
	if currentProgram != s.program {
		gl.UseProgram(s.program)
		currentProgram = s.program
	}
}

func (s *GLShader) stage(name string, value interface{}) {
	if _, exists := s.staged[name]; !exists {
		s.stagedOrder = append(s.stagedOrder, name)
	}
	s.staged[name] = value
}

func (s *GLShader) SetMatrix4x4(name string, value mgl32.Mat4) { s.stage(name, value) }
func (s *GLShader) SetFloat(name string, value float32)        { s.stage(name, value) }
func (s *GLShader) SetFloat2(name string, value mgl32.Vec2)    { s.stage(name, value) }
func (s *GLShader) SetFloat3(name string, value mgl32.Vec3)    { s.stage(name, value) }
func (s *GLShader) SetFloat4(name string, value mgl32.Vec4)    { s.stage(name, value) }
func (s *GLShader) SetInt(name string, value int32)            { s.stage(name, value) }

func (s *GLShader) SetData(name string, data []byte) {
	s.stage(name, append([]byte(nil), data...))
}

// SetShaderResourceView binds a texture to the sampler uniform name for the
// next draw. Names the program does not declare and views from another
// backend are ignored.
func (s *GLShader) SetShaderResourceView(name string, srv ShaderResourceView) {
	tex, ok := srv.(glTextureHandle)
	if !ok {
		return
	}
	if _, declared := s.textureUnits[name]; declared {
		s.textures[name] = tex
	}
}

func (s *GLShader) SetSamplerState(name string, sampler SamplerState) {
	if smp, ok := sampler.(glSamplerHandle); ok {
		s.samplers[name] = smp
	}
}

// CopyAllBufferData uploads everything staged since the last call, then
// binds this draw's textures and samplers. Units the draw left empty are
// unbound.
func (s *GLShader) CopyAllBufferData() {
	s.SetShader()

	for _, name := range s.stagedOrder {
		switch v := s.staged[name].(type) {
		case mgl32.Mat4:
			s.uniforms.SetMat4(name, v)
		case float32:
			s.uniforms.SetFloat(name, v)
		case mgl32.Vec2:
			s.uniforms.SetVec2(name, v)
		case mgl32.Vec3:
			s.uniforms.SetVec3(name, v)
		case mgl32.Vec4:
			s.uniforms.SetVec4(name, v)
		case int32:
			s.uniforms.SetInt(name, v)
		case []byte:
			s.uploadBlock(name, v)
		}
	}
	s.staged = make(map[string]interface{}, len(s.staged))
	s.stagedOrder = s.stagedOrder[:0]

	for _, b := range planTextureBindings(s.textureUnits, s.textures) {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(b.unit))
		gl.BindTexture(b.target, b.id)
	}
	for unit, sampler := range planSamplerBindings(s.textureUnits, s.samplers, s.SamplerTargets) {
		gl.BindSampler(uint32(unit), sampler)
	}
	clear(s.textures)
	clear(s.samplers)
}

func (s *GLShader) uploadBlock(name string, data []byte) {
	if len(data) == 0 {
		return
	}
	block, exists := s.blocks[name]
	if !exists {
		idx := s.uniforms.GetBlockIndex(name)
		if idx == gl.INVALID_INDEX {
			return
		}
		block = &uniformBlock{binding: uint32(len(s.blocks))}
		gl.GenBuffers(1, &block.buffer)
		gl.UniformBlockBinding(s.program, idx, block.binding)
		s.blocks[name] = block
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, block.buffer)
	gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, block.binding, block.buffer)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Release deletes the program and its uniform buffers.
func (s *GLShader) Release() {
	for _, block := range s.blocks {
		gl.DeleteBuffers(1, &block.buffer)
	}
	if currentProgram == s.program {
		currentProgram = 0
	}
	gl.DeleteProgram(s.program)
	s.uniforms.Clear()
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.Uint32("shaderType", shaderType), zap.String("log", log))
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

// NewLitShader builds the forward-lit program used by materials.
func NewLitShader() (*GLShader, error) {
	return NewGLShader("lit", litVertexSource, litFragmentSource)
}

// NewDepthShader builds the depth-only program for the shadow pass.
func NewDepthShader() (*GLShader, error) {
	return NewGLShader("depth", depthVertexSource, depthFragmentSource)
}

func NewSkyboxShader() (*GLShader, error) {
	return NewGLShader("skybox", skyboxVertexSource, skyboxFragmentSource)
}
