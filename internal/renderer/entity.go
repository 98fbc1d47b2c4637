package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Uniform and binding names shared by the built-in shaders.
const (
	UniformWorld                 = "world"
	UniformWorldInverseTranspose = "worldInverseTranspose"
	UniformView                  = "view"
	UniformProjection            = "projection"
	UniformLightView             = "lightView"
	UniformLightProjection       = "lightProjection"
	UniformColorTint             = "colorTint"
	UniformRoughness             = "roughness"
	UniformMetalness             = "metalness"
	UniformHasMetalness          = "hasMetalness"
	UniformCameraPosition        = "cameraPosition"
	UniformUVPosition            = "uvPosition"
	UniformUVScale               = "uvScale"
	UniformLights                = "Lights"
	UniformLightCount            = "lightCount"
	UniformShadowsEnabled        = "shadowsEnabled"
	UniformUseEnvironmentMap     = "useEnvironmentMap"

	TextureShadowMap      = "ShadowMap"
	TextureEnvironmentMap = "EnvironmentMap"
	SamplerShadow         = "ShadowSampler"
)

// FrameData is everything an entity draw reads that is the same for the
// whole frame.
type FrameData struct {
	View            mgl32.Mat4
	Projection      mgl32.Mat4
	CameraPosition  mgl32.Vec3
	LightView       mgl32.Mat4
	LightProjection mgl32.Mat4
	ShadowsEnabled  bool
	Lights          []byte
	LightCount      int32

	ShadowMap      ShaderResourceView
	ShadowSampler  SamplerState
	EnvironmentMap ShaderResourceView
}

// Entity is one mesh drawn with one material at one transform.
type Entity struct {
	ID   uuid.UUID
	Name string

	mesh      Mesh
	material  *Material
	transform *Transform

	// BoundingRadius is the local-space radius around the origin that
	// contains the mesh. Zero disables culling and picking.
	BoundingRadius float32
}

func NewEntity(name string, mesh Mesh, material *Material) *Entity {
	return NewEntityWithTransform(name, mesh, material, NewTransform())
}

// NewEntityWithTransform shares t with whoever else holds it.
func NewEntityWithTransform(name string, mesh Mesh, material *Material, t *Transform) *Entity {
	return &Entity{
		ID:        uuid.New(),
		Name:      name,
		mesh:      mesh,
		material:  material,
		transform: t,
	}
}

func (e *Entity) GetMesh() Mesh                  { return e.mesh }
func (e *Entity) GetMaterial() *Material         { return e.material }
func (e *Entity) GetTransform() *Transform       { return e.transform }
func (e *Entity) SetMesh(mesh Mesh)              { e.mesh = mesh }
func (e *Entity) SetMaterial(material *Material) { e.material = material }

// BoundingSphere returns the world-space sphere around the entity.
func (e *Entity) BoundingSphere() (mgl32.Vec3, float32) {
	s := e.transform.GetScale()
	maxScale := mgl32.Abs(s.X())
	if v := mgl32.Abs(s.Y()); v > maxScale {
		maxScale = v
	}
	if v := mgl32.Abs(s.Z()); v > maxScale {
		maxScale = v
	}
	return e.transform.GetPosition(), e.BoundingRadius * maxScale
}

// Draw binds the material, fills and commits both stages' uniforms for this
// entity alone, then issues exactly one draw.
func (e *Entity) Draw(frame *FrameData) {
	mat := e.material
	vs := mat.GetVertexShader()
	ps := mat.GetPixelShader()

	mat.PrepareMaterial()
	if frame.ShadowMap != nil {
		ps.SetShaderResourceView(TextureShadowMap, frame.ShadowMap)
		ps.SetSamplerState(SamplerShadow, frame.ShadowSampler)
	}
	if mat.UsesGlobalEnvironmentMap() && frame.EnvironmentMap != nil {
		ps.SetShaderResourceView(TextureEnvironmentMap, frame.EnvironmentMap)
	}

	vs.SetShader()
	ps.SetShader()

	vs.SetMatrix4x4(UniformWorld, e.transform.GetWorld())
	vs.SetMatrix4x4(UniformWorldInverseTranspose, e.transform.GetWorldInverseTranspose())
	vs.SetMatrix4x4(UniformView, frame.View)
	vs.SetMatrix4x4(UniformProjection, frame.Projection)
	if frame.ShadowsEnabled {
		vs.SetMatrix4x4(UniformLightView, frame.LightView)
		vs.SetMatrix4x4(UniformLightProjection, frame.LightProjection)
	}

	ps.SetFloat4(UniformColorTint, mat.GetColorTint())
	ps.SetFloat(UniformRoughness, mat.GetRoughness())
	if metalness, ok := mat.GetMetalness(); ok {
		ps.SetFloat(UniformMetalness, metalness)
		ps.SetInt(UniformHasMetalness, 1)
	} else {
		ps.SetInt(UniformHasMetalness, 0)
	}
	ps.SetFloat3(UniformCameraPosition, frame.CameraPosition)
	ps.SetFloat2(UniformUVPosition, mat.GetUVPosition())
	ps.SetFloat2(UniformUVScale, mat.GetUVScale())
	ps.SetData(UniformLights, frame.Lights)
	ps.SetInt(UniformLightCount, frame.LightCount)
	ps.SetInt(UniformShadowsEnabled, boolToInt(frame.ShadowsEnabled))
	ps.SetInt(UniformUseEnvironmentMap, boolToInt(mat.UsesGlobalEnvironmentMap() && frame.EnvironmentMap != nil))

	vs.CopyAllBufferData()
	ps.CopyAllBufferData()

	e.mesh.Draw()
}

// DrawDepth renders the entity's geometry into the bound shadow map.
func (e *Entity) DrawDepth(shader VertexShader, lightView, lightProjection mgl32.Mat4) {
	shader.SetShader()
	shader.SetMatrix4x4(UniformWorld, e.transform.GetWorld())
	shader.SetMatrix4x4(UniformView, lightView)
	shader.SetMatrix4x4(UniformProjection, lightProjection)
	shader.CopyAllBufferData()
	e.mesh.Draw()
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
