package renderer

import (
	"fmt"

	"Forward3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// OpenGLRenderer draws a Scene in three passes: shadow depth from the first
// light, lit entities, then the skybox.
type OpenGLRenderer struct {
	width, height int32

	depthShader   *GLShader
	shadowMap     *ShadowMap
	shadowSampler *GLSampler

	// LastDrawn is how many entities the main pass drew last frame.
	LastDrawn int
}

func NewOpenGLRenderer() *OpenGLRenderer {
	return &OpenGLRenderer{}
}

func (rend *OpenGLRenderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("OpenGL initialization failed: %w", err)
	}
	logger.Log.Info("OpenGL context",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var cleanup Unwind
	defer cleanup.Unwind()

	depth, err := NewDepthShader()
	if err != nil {
		return err
	}
	cleanup.Add(depth.Release)

	shadowMap, err := NewShadowMap(DefaultShadowConfig().Resolution)
	if err != nil {
		return err
	}
	cleanup.Add(shadowMap.Release)

	rend.depthShader = depth
	rend.shadowMap = shadowMap
	rend.shadowSampler = GLSamplerFactory{}.CreateShadowSampler()
	cleanup.Discard()

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	// Geometry winds clockwise, as in a left-handed scene.
	gl.FrontFace(gl.CW)
	rend.UpdateViewport(width, height)

	logger.Log.Info("OpenGL render initialized")
	return nil
}

func (rend *OpenGLRenderer) applyState() {
	if DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthMask(true)
		gl.DepthFunc(gl.LESS)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	if FaceCullingEnabled {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

func (rend *OpenGLRenderer) Render(scene *Scene) error {
	rend.applyState()

	cfg := scene.Lighting.ShadowConfig()
	if cfg.Enabled && scene.Lighting.Count() > 0 {
		if err := rend.shadowMap.Resize(cfg.Resolution); err != nil {
			return err
		}
		rend.shadowMap.Begin()
		scene.DrawShadowCasters(rend.depthShader)
		rend.shadowMap.End(rend.width, rend.height)
	}

	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	frame, err := scene.BuildFrame(rend.shadowMap, rend.shadowSampler)
	if err != nil {
		return err
	}
	rend.LastDrawn = scene.DrawEntities(frame)
	scene.DrawSkybox()
	return nil
}

// UpdateViewport updates the OpenGL viewport to match the current window size
func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	rend.width, rend.height = width, height
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) Cleanup() {
	if rend.depthShader != nil {
		rend.depthShader.Release()
	}
	if rend.shadowMap != nil {
		rend.shadowMap.Release()
	}
	if rend.shadowSampler != nil {
		rend.shadowSampler.Release()
	}
}

var _ Renderer = (*OpenGLRenderer)(nil)
