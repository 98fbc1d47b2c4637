package engine

import (
	"context"
	"fmt"
	"runtime"

	"Forward3D/internal/config"
	"Forward3D/internal/logger"
	"Forward3D/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Engine owns the window, the renderer and the scene, and runs the frame
// loop on the thread that created the GL context.
type Engine struct {
	Width  int32
	Height int32

	cfg        *config.Config
	configPath string

	window   *glfw.Window
	input    *WindowInput
	renderer *renderer.OpenGLRenderer
	scene    *renderer.Scene
	assets   *SceneAssets

	reloads chan *config.Config
}

// New prepares an engine for cfg. A non-empty configPath is watched and
// valid edits are applied while running.
func New(cfg *config.Config, configPath string) *Engine {
	return &Engine{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		cfg:        cfg,
		configPath: configPath,
		renderer:   renderer.NewOpenGLRenderer(),
		reloads:    make(chan *config.Config, 1),
	}
}

func (eng *Engine) Scene() *renderer.Scene { return eng.scene }

// Run opens the window and renders until it is closed or ctx is done.
func (eng *Engine) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(eng.Width), int(eng.Height), eng.cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	eng.window = window
	eng.input = NewWindowInput(window)

	// The framebuffer can differ from the window size on high-DPI screens.
	fbWidth, fbHeight := window.GetFramebufferSize()
	eng.Width, eng.Height = int32(fbWidth), int32(fbHeight)

	if err := eng.renderer.Init(eng.Width, eng.Height); err != nil {
		return err
	}
	defer eng.renderer.Cleanup()

	scene, assets, err := BuildScene(eng.cfg, eng.aspect())
	if err != nil {
		return err
	}
	eng.scene, eng.assets = scene, assets
	defer func() {
		eng.scene.Release()
		eng.assets.Release()
	}()

	if eng.configPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := config.Watch(watchCtx, eng.configPath, eng.queueReload); err != nil {
				logger.Log.Error("Config watch stopped", zap.Error(err))
			}
		}()
	}

	eng.RenderLoop(ctx)
	return nil
}

// queueReload keeps only the newest pending configuration.
func (eng *Engine) queueReload(cfg *config.Config) {
	select {
	case <-eng.reloads:
	default:
	}
	eng.reloads <- cfg
}

func (eng *Engine) aspect() float32 {
	if eng.Height == 0 {
		return 1
	}
	return float32(eng.Width) / float32(eng.Height)
}

func (eng *Engine) RenderLoop(ctx context.Context) {
	lastTime := glfw.GetTime()
	togglePressed := false

	for !eng.window.ShouldClose() && ctx.Err() == nil {
		currentTime := glfw.GetTime()
		deltaTime := float32(currentTime - lastTime)
		lastTime = currentTime

		eng.handleResize()

		select {
		case cfg := <-eng.reloads:
			if err := applyReload(eng.scene, eng.assets.Samplers, cfg); err != nil {
				logger.Log.Error("Config reload incomplete", zap.Error(err))
			}
		default:
		}

		eng.input.Poll()
		if eng.input.KeyDown(glfw.KeyEscape) {
			eng.window.SetShouldClose(true)
		}
		// P flips between perspective and orthographic once per press.
		p := eng.input.KeyDown(glfw.KeyP)
		if p && !togglePressed {
			eng.scene.Camera.ToggleProjectionMode()
		}
		togglePressed = p
		if eng.input.RightClicked() {
			eng.pick()
		}

		eng.scene.Camera.Update(eng.input, deltaTime)

		if err := eng.renderer.Render(eng.scene); err != nil {
			logger.Log.Error("Frame failed", zap.Error(err))
		}

		eng.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (eng *Engine) handleResize() {
	w, h := eng.window.GetFramebufferSize()
	if int32(w) == eng.Width && int32(h) == eng.Height || w == 0 || h == 0 {
		return
	}
	eng.Width, eng.Height = int32(w), int32(h)
	eng.renderer.UpdateViewport(eng.Width, eng.Height)
	eng.scene.Camera.SetAspect(eng.aspect())
	logger.Log.Debug("Viewport resized", zap.Int32("width", eng.Width), zap.Int32("height", eng.Height))
}

// pick logs the entity under the cursor.
func (eng *Engine) pick() {
	x, y := eng.input.CursorPos()
	// Cursor coordinates are in window units, not framebuffer pixels.
	winW, winH := eng.window.GetSize()
	ray := renderer.ScreenToRay(eng.scene.Camera, x, y, winW, winH)
	if e, dist, ok := renderer.PickEntity(ray, eng.scene.Entities); ok {
		logger.Log.Info("Picked entity",
			zap.String("name", e.Name),
			zap.String("material", e.GetMaterial().GetName()),
			zap.Float32("distance", dist))
	}
}
