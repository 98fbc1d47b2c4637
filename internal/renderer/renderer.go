package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

var FaceCullingEnabled bool = true
var DepthTestEnabled bool = true
var Debug bool = false // draw wireframe

// ClearColor is the background behind the skybox.
var ClearColor = mgl32.Vec4{0.4, 0.6, 0.75, 1.0}

type Renderer interface {
	Init(width, height int32) error
	Render(scene *Scene) error
	UpdateViewport(width, height int32)
	Cleanup()
}
