package engine

import (
	"fmt"
	"image/color"
	"sort"

	"Forward3D/internal/config"
	"Forward3D/internal/logger"
	"Forward3D/internal/renderer"

	"go.uber.org/zap"
)

// AlbedoTexture is the texture every lit material samples for its base color.
const AlbedoTexture = "Albedo"

// SceneAssets holds the GPU resources a built scene draws with.
type SceneAssets struct {
	Textures *renderer.TextureManager
	Samplers renderer.SamplerFactory

	lit    *renderer.GLShader
	sky    *renderer.GLShader
	meshes map[string]*renderer.GLMesh
	radius map[string]float32
}

func (a *SceneAssets) Release() {
	for _, m := range a.meshes {
		m.Release()
	}
	if a.lit != nil {
		a.lit.Release()
	}
	if a.sky != nil {
		a.sky.Release()
	}
	a.Textures.LogStats()
	a.Textures.Clear()
}

func (a *SceneAssets) addMesh(name string, g *renderer.Geometry) {
	a.meshes[name] = renderer.NewGLMesh(g)
	a.radius[name] = g.BoundingRadius()
}

// BuildScene creates every GPU resource cfg names and returns the scene. A
// GL context must be current.
func BuildScene(cfg *config.Config, aspect float32) (*renderer.Scene, *SceneAssets, error) {
	var cleanup renderer.Unwind
	defer cleanup.Unwind()

	assets := &SceneAssets{
		Textures: renderer.NewTextureManager(),
		Samplers: renderer.GLSamplerFactory{},
		meshes:   make(map[string]*renderer.GLMesh),
		radius:   make(map[string]float32),
	}
	cleanup.Add(assets.Release)

	lit, err := renderer.NewLitShader()
	if err != nil {
		return nil, nil, err
	}
	assets.lit = lit

	assets.addMesh(config.MeshCube, renderer.NewCube(1))
	assets.addMesh(config.MeshPlane, renderer.NewPlane(20, 20))
	assets.addMesh(config.MeshSphere, renderer.NewSphere(0.5, 32, 16))

	lighting, err := cfg.Lighting()
	if err != nil {
		return nil, nil, err
	}
	scene := renderer.NewScene(cfg.Camera.NewCamera(aspect), lighting)
	scene.FrustumCulling = cfg.Render.FrustumCulling
	cleanup.Add(scene.Release)

	cfg.Render.ApplyRender()
	if err := cfg.Sampler.ApplySampler(); err != nil {
		return nil, nil, err
	}

	white, err := assets.Textures.SolidTexture(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		return nil, nil, err
	}
	defer white.Release()

	for _, mc := range cfg.Materials {
		m, err := buildMaterial(mc, lit, assets, white)
		if err != nil {
			return nil, nil, err
		}
		scene.AddMaterial(m)
	}
	if _, err := renderer.ApplyGlobalSamplerState(assets.Samplers, scene.Materials); err != nil {
		return nil, nil, err
	}

	for _, ec := range cfg.Entities {
		e := renderer.NewEntity(ec.Name, assets.meshes[ec.Mesh], scene.FindMaterial(ec.Material))
		ec.ApplyTransform(e.GetTransform())
		e.BoundingRadius = assets.radius[ec.Mesh]
		scene.AddEntity(e)
	}

	if len(cfg.Skybox.Faces) == 6 {
		sky, err := buildSkybox(cfg.Skybox, assets)
		if err != nil {
			return nil, nil, err
		}
		scene.Skybox = sky
	}

	cleanup.Discard()
	logger.Log.Info("Scene built",
		zap.Int("entities", len(scene.Entities)),
		zap.Int("materials", len(scene.Materials)),
		zap.Int("lights", scene.Lighting.Count()),
		zap.Bool("skybox", scene.Skybox != nil))
	return scene, assets, nil
}

func buildMaterial(mc config.MaterialConfig, shader *renderer.GLShader, assets *SceneAssets, white *renderer.Texture) (*renderer.Material, error) {
	m := mc.NewMaterial(shader, shader)

	names := make([]string, 0, len(mc.Textures))
	for name := range mc.Textures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tex, err := assets.Textures.LoadTexture(mc.Textures[name])
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("material %s: %w", mc.Name, err)
		}
		m.AddTextureSRV(name, tex)
	}
	if _, ok := m.GetTexture(AlbedoTexture); !ok {
		m.AddTextureSRV(AlbedoTexture, assets.Textures.Retain(white))
	}

	// The global pass skips locked materials, so they get their sampler now.
	if m.IsSamplerStateLocked() {
		sampler, err := assets.Samplers.CreateSampler(renderer.GlobalSamplerDesc())
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("material %s: %w", mc.Name, err)
		}
		m.AddSampler(renderer.DefaultSamplerName, sampler)
	}
	return m, nil
}

func buildSkybox(sc config.SkyboxConfig, assets *SceneAssets) (*renderer.Skybox, error) {
	shader, err := renderer.NewSkyboxShader()
	if err != nil {
		return nil, err
	}
	assets.sky = shader

	var faces [6]string
	copy(faces[:], sc.Faces)
	cubemap, err := assets.Textures.LoadCubemap("skybox", faces)
	if err != nil {
		return nil, err
	}
	sampler, err := assets.Samplers.CreateSampler(renderer.SamplerDesc{Filter: renderer.FilterLinear, MaxAnisotropy: 1})
	if err != nil {
		cubemap.Release()
		return nil, err
	}
	return renderer.NewSkybox("skybox", assets.meshes[config.MeshCube], shader, shader, cubemap, sampler, renderer.SkyboxState{}), nil
}
