package config

import (
	"Forward3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func radians(degrees [3]float32) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.DegToRad(degrees[0]), mgl32.DegToRad(degrees[1]), mgl32.DegToRad(degrees[2])}
}

// NewCamera builds the configured camera for a viewport aspect ratio.
func (c CameraConfig) NewCamera(aspect float32) *renderer.Camera {
	opts := []renderer.CameraOption{
		renderer.WithClipPlanes(c.Near, c.Far),
		renderer.WithSpeeds(c.MoveSpeed, c.LookSpeed),
	}
	if c.Orthographic {
		opts = append(opts, renderer.WithOrthographic(c.OrthoWidth))
	} else {
		opts = append(opts, renderer.WithFov(mgl32.DegToRad(c.Fov)))
	}
	cam := renderer.NewCamera(c.Name, aspect, opts...)
	cam.GetTransform().SetPositionV(c.Position)
	cam.GetTransform().SetRotationV(radians(c.Rotation))
	cam.UpdateViewMatrix()
	return cam
}

func (s ShadowConfig) ShadowConfig() renderer.ShadowConfig {
	return renderer.ShadowConfig{
		Enabled:       s.Enabled,
		Resolution:    s.Resolution,
		AreaWidth:     s.AreaWidth,
		AreaCenter:    s.AreaCenter,
		LightDistance: s.LightDistance,
	}
}

// Light converts to a renderer light. Spot angles are half-angles in
// degrees.
func (l LightConfig) Light() (renderer.Light, error) {
	t, err := ParseLightType(l.Type)
	if err != nil {
		return renderer.Light{}, err
	}
	var light renderer.Light
	switch t {
	case renderer.DirectionalLight:
		light = renderer.NewDirectionalLight(l.Direction, l.Color, l.Intensity)
	case renderer.PointLight:
		light = renderer.NewPointLight(l.Position, l.Color, l.Intensity, l.Range)
		// Point lights cast shadows along Direction when it is set.
		if l.Direction != ([3]float32{}) {
			light.Direction = mgl32.Vec3(l.Direction).Normalize()
		}
	case renderer.SpotLight:
		light = renderer.NewSpotLight(l.Position, l.Direction, l.Color, l.Intensity, l.Range,
			mgl32.DegToRad(l.SpotInner), mgl32.DegToRad(l.SpotOuter))
	}
	if l.Active != nil {
		light.Active = *l.Active
	}
	return light, nil
}

// Lighting builds the scene lights with their shadow matrices derived.
func (c *Config) Lighting() (*renderer.Lighting, error) {
	lights := make([]renderer.Light, 0, len(c.Lights))
	for _, lc := range c.Lights {
		l, err := lc.Light()
		if err != nil {
			return nil, err
		}
		lights = append(lights, l)
	}
	return renderer.NewLighting(c.Shadow.ShadowConfig(), lights...), nil
}

// ApplySampler pushes the sampler section into the global sampler settings.
func (s SamplerConfig) ApplySampler() error {
	filter, err := renderer.ParseFilterMode(s.Filter)
	if err != nil {
		return err
	}
	renderer.SetGlobalSamplerFilter(filter)
	renderer.SetGlobalSamplerAnisotropy(s.Anisotropy)
	return nil
}

// ApplyRender sets the global raster settings.
func (r RenderConfig) ApplyRender() {
	renderer.FaceCullingEnabled = r.FaceCulling
	renderer.ClearColor = r.ClearColor
}

// NewMaterial builds a material from its scalar settings. Textures are bound
// by the caller, which owns loading.
func (m MaterialConfig) NewMaterial(vs renderer.VertexShader, ps renderer.PixelShader) *renderer.Material {
	opts := []renderer.MaterialOption{renderer.WithRoughness(m.Roughness)}
	if m.Metalness != nil {
		opts = append(opts, renderer.WithMetalness(*m.Metalness))
	}
	if m.Environment {
		opts = append(opts, renderer.WithGlobalEnvironmentMap())
	}
	if m.PBR {
		opts = append(opts, renderer.WithPBR())
	}
	mat := renderer.NewMaterial(m.Name, vs, ps, m.Tint, opts...)
	mat.SetUVPosition(m.UVOffset)
	mat.SetUVScale(m.UVScale)
	if m.LockSampler {
		mat.LockSamplerState()
	}
	return mat
}

// ApplyTransform places t where the entity is configured.
func (e EntityConfig) ApplyTransform(t *renderer.Transform) {
	t.SetPositionV(e.Position)
	t.SetRotationV(radians(e.Rotation))
	t.SetScaleV(e.Scale)
}
