package renderer

import (
	"Forward3D/internal/logger"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	// ShadowNearClip is the near plane of every light-space projection.
	ShadowNearClip float32 = 0.1
	// MinShadowFarClip keeps the perspective shadow frustum from inverting
	// when a light's range is tiny or zero.
	MinShadowFarClip float32 = 0.2
)

// ShadowConfig is the volume captured by the shadow map.
type ShadowConfig struct {
	Enabled       bool
	Resolution    int32
	AreaWidth     float32
	AreaCenter    mgl32.Vec3
	LightDistance float32
}

func DefaultShadowConfig() ShadowConfig {
	return ShadowConfig{
		Enabled:       true,
		Resolution:    2048,
		AreaWidth:     20,
		LightDistance: 20,
	}
}

// BuildShadowMatrices derives the light-space view and projection used to
// render the shadow map. Directional lights get an orthographic box of
// AreaWidth x AreaWidth pulled back LightDistance from AreaCenter; point and
// spot lights get a square perspective frustum from their position with a
// field of view of twice the outer spot angle.
func BuildShadowMatrices(light Light, cfg ShadowConfig) (view, projection mgl32.Mat4) {
	if light.Type == DirectionalLight {
		eye := cfg.AreaCenter.Sub(light.Direction.Mul(cfg.LightDistance))
		view = LookToLH(eye, light.Direction, WorldUp)
		projection = OrthographicLH(cfg.AreaWidth, cfg.AreaWidth, ShadowNearClip, cfg.LightDistance)
		return view, projection
	}

	view = LookToLH(light.Position, light.Direction, WorldUp)
	projection = PerspectiveFovLH(2*light.SpotOuterAngle, 1, ShadowNearClip, math32.Max(light.Range, MinShadowFarClip))
	return view, projection
}

// Lighting owns the scene's lights and the shadow matrices derived from the
// first one. Every edit that can change the light-space matrices re-derives
// them before returning; edits made directly to a Light value do not.
type Lighting struct {
	lights          []Light
	shadow          ShadowConfig
	lightView       mgl32.Mat4
	lightProjection mgl32.Mat4
}

func NewLighting(cfg ShadowConfig, lights ...Light) *Lighting {
	l := &Lighting{
		lights:          append([]Light(nil), lights...),
		shadow:          cfg,
		lightView:       mgl32.Ident4(),
		lightProjection: mgl32.Ident4(),
	}
	l.DeriveShadowMatrices()
	return l
}

func (l *Lighting) Lights() []Light            { return l.lights }
func (l *Lighting) Count() int                 { return len(l.lights) }
func (l *Lighting) Light(i int) Light          { return l.lights[i] }
func (l *Lighting) ShadowConfig() ShadowConfig { return l.shadow }
func (l *Lighting) ShadowView() mgl32.Mat4     { return l.lightView }
func (l *Lighting) ShadowProjection() mgl32.Mat4 {
	return l.lightProjection
}

// DeriveShadowMatrices rebuilds the light-space matrices from the first
// light. With no lights the previous matrices are kept.
func (l *Lighting) DeriveShadowMatrices() {
	if len(l.lights) == 0 {
		return
	}
	l.lightView, l.lightProjection = BuildShadowMatrices(l.lights[0], l.shadow)
	logger.Log.Debug("Shadow matrices derived",
		zap.Stringer("type", l.lights[0].Type),
		zap.Float32("areaWidth", l.shadow.AreaWidth),
		zap.Float32("lightDistance", l.shadow.LightDistance))
}

func (l *Lighting) AddLight(light Light) {
	l.lights = append(l.lights, light)
	if len(l.lights) == 1 {
		l.DeriveShadowMatrices()
	}
}

// RemoveLight drops light i. Removing the first light promotes the next one
// to shadow caster.
func (l *Lighting) RemoveLight(i int) {
	l.lights = append(l.lights[:i], l.lights[i+1:]...)
	if i == 0 {
		l.DeriveShadowMatrices()
	}
}

// edit applies fn to light i and re-derives when the shadow caster changed.
func (l *Lighting) edit(i int, fn func(*Light)) {
	fn(&l.lights[i])
	if i == 0 {
		l.DeriveShadowMatrices()
	}
}

func (l *Lighting) SetLight(i int, light Light) {
	l.edit(i, func(dst *Light) { *dst = light })
}

func (l *Lighting) SetLightType(i int, t LightType) {
	l.edit(i, func(dst *Light) { dst.Type = t })
}

func (l *Lighting) SetLightDirection(i int, direction mgl32.Vec3) {
	l.edit(i, func(dst *Light) { dst.Direction = direction.Normalize() })
}

func (l *Lighting) SetLightPosition(i int, position mgl32.Vec3) {
	l.edit(i, func(dst *Light) { dst.Position = position })
}

func (l *Lighting) SetLightRange(i int, lightRange float32) {
	l.edit(i, func(dst *Light) { dst.Range = lightRange })
}

func (l *Lighting) SetSpotInnerAngle(i int, angle float32) {
	l.edit(i, func(dst *Light) { dst.EditSpotInnerAngle(angle) })
}

func (l *Lighting) SetSpotOuterAngle(i int, angle float32) {
	l.edit(i, func(dst *Light) { dst.EditSpotOuterAngle(angle) })
}

// Color, intensity and the active flag do not affect the shadow matrices.

func (l *Lighting) SetLightColor(i int, color mgl32.Vec3) {
	l.lights[i].Color = color
}

func (l *Lighting) SetLightIntensity(i int, intensity float32) {
	l.lights[i].Intensity = intensity
}

func (l *Lighting) SetLightActive(i int, active bool) {
	l.lights[i].Active = active
}

func (l *Lighting) SetShadowConfig(cfg ShadowConfig) {
	l.shadow = cfg
	l.DeriveShadowMatrices()
}

func (l *Lighting) SetShadowAreaWidth(width float32) {
	l.shadow.AreaWidth = width
	l.DeriveShadowMatrices()
}

func (l *Lighting) SetShadowAreaCenter(center mgl32.Vec3) {
	l.shadow.AreaCenter = center
	l.DeriveShadowMatrices()
}

func (l *Lighting) SetShadowLightDistance(distance float32) {
	l.shadow.LightDistance = distance
	l.DeriveShadowMatrices()
}

// SetShadowResolution changes the depth target size; the matrices do not
// depend on it but are re-derived with every shadow volume edit.
func (l *Lighting) SetShadowResolution(resolution int32) {
	l.shadow.Resolution = resolution
	l.DeriveShadowMatrices()
}

func (l *Lighting) SetShadowsEnabled(enabled bool) {
	l.shadow.Enabled = enabled
}

// Pack encodes the light array for the pixel shader.
func (l *Lighting) Pack() ([]byte, error) {
	return PackLights(l.lights)
}
