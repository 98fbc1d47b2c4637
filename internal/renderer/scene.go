package renderer

import (
	"fmt"

	"Forward3D/internal/logger"

	"go.uber.org/zap"
)

// Scene is everything drawn in a frame. It is owned by the render thread.
type Scene struct {
	Camera    *Camera
	Lighting  *Lighting
	Entities  []*Entity
	Materials []*Material
	Skybox    *Skybox

	// FrustumCulling skips entities whose bounding sphere is outside the
	// camera frustum.
	FrustumCulling bool
}

func NewScene(camera *Camera, lighting *Lighting) *Scene {
	return &Scene{Camera: camera, Lighting: lighting}
}

func (s *Scene) AddMaterial(m *Material) {
	s.Materials = append(s.Materials, m)
}

func (s *Scene) AddEntity(e *Entity) {
	s.Entities = append(s.Entities, e)
	logger.Log.Debug("Entity added",
		zap.String("name", e.Name),
		zap.String("id", e.ID.String()),
		zap.String("mesh", e.GetMesh().Name()),
		zap.String("material", e.GetMaterial().GetName()))
}

func (s *Scene) RemoveEntity(e *Entity) {
	for i, other := range s.Entities {
		if other == e {
			s.Entities = append(s.Entities[:i], s.Entities[i+1:]...)
			return
		}
	}
}

func (s *Scene) FindEntity(name string) *Entity {
	for _, e := range s.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (s *Scene) FindMaterial(name string) *Material {
	for _, m := range s.Materials {
		if m.GetName() == name {
			return m
		}
	}
	return nil
}

// BuildFrame gathers the per-frame values every entity draw shares.
func (s *Scene) BuildFrame(shadowMap ShaderResourceView, shadowSampler SamplerState) (*FrameData, error) {
	lights, err := s.Lighting.Pack()
	if err != nil {
		return nil, fmt.Errorf("packing lights: %w", err)
	}
	count := s.Lighting.Count()
	if count > MaxLights {
		count = MaxLights
	}

	frame := &FrameData{
		View:            s.Camera.GetViewMatrix(),
		Projection:      s.Camera.GetProjectionMatrix(),
		CameraPosition:  s.Camera.GetTransform().GetPosition(),
		LightView:       s.Lighting.ShadowView(),
		LightProjection: s.Lighting.ShadowProjection(),
		ShadowsEnabled:  s.shadowsActive(),
		Lights:          lights,
		LightCount:      int32(count),
	}
	if frame.ShadowsEnabled {
		frame.ShadowMap = shadowMap
		frame.ShadowSampler = shadowSampler
	}
	if s.Skybox != nil {
		frame.EnvironmentMap = s.Skybox.GetSRV()
	}
	return frame, nil
}

func (s *Scene) shadowsActive() bool {
	return s.Lighting.ShadowConfig().Enabled && s.Lighting.Count() > 0
}

// DrawShadowCasters renders every entity's depth from the first light. It
// does nothing when shadows are off or there is no light.
func (s *Scene) DrawShadowCasters(depthShader VertexShader) int {
	if !s.shadowsActive() {
		return 0
	}
	view, projection := s.Lighting.ShadowView(), s.Lighting.ShadowProjection()
	for _, e := range s.Entities {
		e.DrawDepth(depthShader, view, projection)
	}
	return len(s.Entities)
}

// DrawEntities draws every visible entity once and returns how many were
// drawn.
func (s *Scene) DrawEntities(frame *FrameData) int {
	var frustum Frustum
	if s.FrustumCulling {
		frustum = s.Camera.CalculateFrustum()
	}

	drawn := 0
	for _, e := range s.Entities {
		if s.FrustumCulling && e.BoundingRadius > 0 {
			center, radius := e.BoundingSphere()
			if !frustum.IntersectsSphere(center, radius) {
				continue
			}
		}
		e.Draw(frame)
		drawn++
	}
	return drawn
}

func (s *Scene) DrawSkybox() {
	if s.Skybox != nil {
		s.Skybox.Draw(s.Camera)
	}
}

// Release drops the GPU references held by materials and the skybox.
func (s *Scene) Release() {
	for _, m := range s.Materials {
		m.Release()
	}
	if s.Skybox != nil {
		s.Skybox.Release()
	}
}
