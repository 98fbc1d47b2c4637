package engine

import (
	"Forward3D/internal/config"
	"Forward3D/internal/logger"
	"Forward3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// applyReload pushes the live-editable parts of cfg into a running scene:
// render settings, material scalars, the global sampler, the shadow volume,
// lights and camera tuning. Entity, texture and skybox changes need a
// restart.
func applyReload(scene *renderer.Scene, samplers renderer.SamplerFactory, cfg *config.Config) error {
	var errs error

	cfg.Render.ApplyRender()
	scene.FrustumCulling = cfg.Render.FrustumCulling

	for _, mc := range cfg.Materials {
		m := scene.FindMaterial(mc.Name)
		if m == nil {
			logger.Log.Warn("New materials need a restart", zap.String("material", mc.Name))
			continue
		}
		reloadMaterial(m, mc)
	}

	if err := cfg.Sampler.ApplySampler(); err != nil {
		errs = multierr.Append(errs, err)
	} else if _, err := renderer.ApplyGlobalSamplerState(samplers, scene.Materials); err != nil {
		errs = multierr.Append(errs, err)
	}

	scene.Lighting.SetShadowConfig(cfg.Shadow.ShadowConfig())
	errs = multierr.Append(errs, reloadLights(scene.Lighting, cfg.Lights))

	cam := scene.Camera
	cam.SetMoveSpeed(cfg.Camera.MoveSpeed)
	cam.SetLookSpeed(cfg.Camera.LookSpeed)
	cam.SetNearClip(cfg.Camera.Near)
	cam.SetFarClip(cfg.Camera.Far)
	if cfg.Camera.Orthographic {
		cam.SetProjectionMode(renderer.Orthographic)
		cam.SetOrthographicWidth(cfg.Camera.OrthoWidth)
	} else {
		cam.SetProjectionMode(renderer.Perspective)
		cam.SetFov(mgl32.DegToRad(cfg.Camera.Fov))
	}

	if len(cfg.Entities) != len(scene.Entities) {
		logger.Log.Warn("Entity changes need a restart",
			zap.Int("configured", len(cfg.Entities)),
			zap.Int("loaded", len(scene.Entities)))
	}
	return errs
}

// reloadLights edits the lights in place so every change goes through the
// paths that keep the shadow matrices current.
func reloadLights(lighting *renderer.Lighting, configured []config.LightConfig) error {
	for i, lc := range configured {
		l, err := lc.Light()
		if err != nil {
			return err
		}
		if i < lighting.Count() {
			lighting.SetLight(i, l)
		} else {
			lighting.AddLight(l)
		}
	}
	for lighting.Count() > len(configured) {
		lighting.RemoveLight(lighting.Count() - 1)
	}
	return nil
}

func reloadMaterial(m *renderer.Material, mc config.MaterialConfig) {
	m.SetColorTint(mc.Tint)
	m.SetRoughness(mc.Roughness)
	if mc.Metalness != nil {
		m.SetMetalness(*mc.Metalness)
	}
	m.SetUVPosition(mc.UVOffset)
	m.SetUVScale(mc.UVScale)
	m.SetUseGlobalEnvironmentMap(mc.Environment)
	m.SetPBR(mc.PBR)
	if mc.LockSampler {
		m.LockSamplerState()
	} else {
		m.UnlockSamplerState()
	}
}
