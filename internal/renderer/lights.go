package renderer

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType int32

const (
	DirectionalLight LightType = iota
	PointLight
	SpotLight
)

func (t LightType) String() string {
	switch t {
	case DirectionalLight:
		return "directional"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	return "unknown"
}

// MaxLights is the size of the light array declared by the lit pixel shader.
const MaxLights = 16

// MinSpotAngleGap keeps the outer cone strictly wider than the inner cone
// when either angle is edited.
const MinSpotAngleGap float32 = 0.01

// LightStride is the packed size of one Light in the shader's light array.
const LightStride = 64

type Light struct {
	Type           LightType
	Direction      mgl32.Vec3
	Range          float32
	Position       mgl32.Vec3
	Intensity      float32
	Color          mgl32.Vec3
	SpotInnerAngle float32 // radians
	SpotOuterAngle float32 // radians
	Active         bool
}

// NewDirectionalLight creates a directional light (like the sun)
func NewDirectionalLight(direction, color mgl32.Vec3, intensity float32) Light {
	return Light{
		Type:      DirectionalLight,
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
		Active:    true,
	}
}

// NewPointLight creates a point light that falls off to nothing at lightRange.
func NewPointLight(position, color mgl32.Vec3, intensity, lightRange float32) Light {
	return Light{
		Type:      PointLight,
		Position:  position,
		Direction: mgl32.Vec3{0, -1, 0},
		Color:     color,
		Intensity: intensity,
		Range:     lightRange,
		// Point lights cast shadows through the same cone as spot lights.
		SpotOuterAngle: mgl32.DegToRad(45),
		Active:         true,
	}
}

// NewSpotLight creates a cone light. Angles are half-angles in radians.
func NewSpotLight(position, direction, color mgl32.Vec3, intensity, lightRange, inner, outer float32) Light {
	return Light{
		Type:           SpotLight,
		Position:       position,
		Direction:      direction.Normalize(),
		Color:          color,
		Intensity:      intensity,
		Range:          lightRange,
		SpotInnerAngle: inner,
		SpotOuterAngle: outer,
		Active:         true,
	}
}

// EditSpotInnerAngle sets the inner angle and widens the outer angle if it
// would no longer be strictly larger.
func (l *Light) EditSpotInnerAngle(angle float32) {
	l.SpotInnerAngle = angle
	if l.SpotOuterAngle <= l.SpotInnerAngle {
		l.SpotOuterAngle = l.SpotInnerAngle + MinSpotAngleGap
	}
}

// EditSpotOuterAngle sets the outer angle and narrows the inner angle if it
// would no longer be strictly smaller.
func (l *Light) EditSpotOuterAngle(angle float32) {
	l.SpotOuterAngle = angle
	if l.SpotInnerAngle >= l.SpotOuterAngle {
		l.SpotInnerAngle = l.SpotOuterAngle - MinSpotAngleGap
	}
}

// SpotAnglesValid reports whether the outer cone is strictly wider.
func (l *Light) SpotAnglesValid() bool {
	return l.SpotOuterAngle > l.SpotInnerAngle
}

// gpuLight mirrors the HLSL/GLSL light struct, 16-byte aligned.
type gpuLight struct {
	Type           int32
	Direction      [3]float32
	Range          float32
	Position       [3]float32
	Intensity      float32
	Color          [3]float32
	SpotInnerAngle float32
	SpotOuterAngle float32
	Active         int32
	Padding        float32
}

// PackLights encodes up to MaxLights lights into the raw layout the pixel
// shader reads, followed by zeroed slots up to MaxLights.
func PackLights(lights []Light) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(MaxLights * LightStride)

	for i := 0; i < MaxLights; i++ {
		var g gpuLight
		if i < len(lights) {
			l := lights[i]
			g = gpuLight{
				Type:           int32(l.Type),
				Direction:      l.Direction,
				Range:          l.Range,
				Position:       l.Position,
				Intensity:      l.Intensity,
				Color:          l.Color,
				SpotInnerAngle: l.SpotInnerAngle,
				SpotOuterAngle: l.SpotOuterAngle,
			}
			if l.Active {
				g.Active = 1
			}
		}
		if err := binary.Write(&buf, binary.LittleEndian, g); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
