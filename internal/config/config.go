// Package config loads the TOML description of a scene and its render
// settings.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Window    WindowConfig     `toml:"window"`
	Camera    CameraConfig     `toml:"camera"`
	Shadow    ShadowConfig     `toml:"shadow"`
	Sampler   SamplerConfig    `toml:"sampler"`
	Render    RenderConfig     `toml:"render"`
	Skybox    SkyboxConfig     `toml:"skybox"`
	Lights    []LightConfig    `toml:"lights"`
	Materials []MaterialConfig `toml:"materials"`
	Entities  []EntityConfig   `toml:"entities"`
}

type WindowConfig struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Title  string `toml:"title"`
}

type CameraConfig struct {
	Name         string     `toml:"name"`
	Position     [3]float32 `toml:"position"`
	Rotation     [3]float32 `toml:"rotation"` // degrees
	Fov          float32    `toml:"fov"`      // degrees
	Orthographic bool       `toml:"orthographic"`
	OrthoWidth   float32    `toml:"ortho_width"`
	Near         float32    `toml:"near"`
	Far          float32    `toml:"far"`
	MoveSpeed    float32    `toml:"move_speed"`
	LookSpeed    float32    `toml:"look_speed"`
}

type ShadowConfig struct {
	Enabled       bool       `toml:"enabled"`
	Resolution    int32      `toml:"resolution"`
	AreaWidth     float32    `toml:"area_width"`
	AreaCenter    [3]float32 `toml:"area_center"`
	LightDistance float32    `toml:"light_distance"`
}

type SamplerConfig struct {
	Filter     string `toml:"filter"`
	Anisotropy int32  `toml:"anisotropy"`
}

type RenderConfig struct {
	FaceCulling    bool       `toml:"face_culling"`
	FrustumCulling bool       `toml:"frustum_culling"`
	ClearColor     [4]float32 `toml:"clear_color"`
}

// SkyboxConfig lists cube faces in +X, -X, +Y, -Y, +Z, -Z order. An empty
// list disables the sky.
type SkyboxConfig struct {
	Faces []string `toml:"faces"`
}

type LightConfig struct {
	Type      string     `toml:"type"`
	Direction [3]float32 `toml:"direction"`
	Position  [3]float32 `toml:"position"`
	Color     [3]float32 `toml:"color"`
	Intensity float32    `toml:"intensity"`
	Range     float32    `toml:"range"`
	SpotInner float32    `toml:"spot_inner"` // degrees
	SpotOuter float32    `toml:"spot_outer"` // degrees
	Active    *bool      `toml:"active"`
}

type MaterialConfig struct {
	Name        string            `toml:"name"`
	Tint        [4]float32        `toml:"tint"`
	Roughness   float32           `toml:"roughness"`
	Metalness   *float32          `toml:"metalness"`
	PBR         bool              `toml:"pbr"`
	UVOffset    [2]float32        `toml:"uv_offset"`
	UVScale     [2]float32        `toml:"uv_scale"`
	Environment bool              `toml:"environment"`
	LockSampler bool              `toml:"lock_sampler"`
	Textures    map[string]string `toml:"textures"`
}

type EntityConfig struct {
	Name     string     `toml:"name"`
	Mesh     string     `toml:"mesh"`
	Material string     `toml:"material"`
	Position [3]float32 `toml:"position"`
	Rotation [3]float32 `toml:"rotation"` // degrees
	Scale    [3]float32 `toml:"scale"`
}

// Mesh names understood by the scene builder.
const (
	MeshCube   = "cube"
	MeshPlane  = "plane"
	MeshSphere = "sphere"
)

// base holds every section default with no scene content.
func base() *Config {
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Forward3D"},
		Camera: CameraConfig{
			Name:       "Main",
			Position:   [3]float32{0, 2, -8},
			Fov:        60,
			OrthoWidth: 10,
			Near:       0.01,
			Far:        1000,
			MoveSpeed:  5,
			LookSpeed:  10,
		},
		Shadow: ShadowConfig{
			Enabled:       true,
			Resolution:    2048,
			AreaWidth:     20,
			LightDistance: 20,
		},
		Sampler: SamplerConfig{Filter: "anisotropic", Anisotropy: 16},
		Render: RenderConfig{
			FaceCulling: true,
			ClearColor:  [4]float32{0.4, 0.6, 0.75, 1},
		},
	}
}

// Default returns a small lit scene: a floor, a cube and a sphere under a
// sun and a spot light.
func Default() *Config {
	cfg := base()
	cfg.Lights = []LightConfig{
		{Type: "directional", Direction: [3]float32{1, -1, 1}, Color: [3]float32{1, 1, 1}, Intensity: 1},
		{Type: "spot", Position: [3]float32{0, 4, -2}, Direction: [3]float32{0, -1, 0.5}, Color: [3]float32{1, 0.9, 0.7},
			Intensity: 2, Range: 15, SpotInner: 20, SpotOuter: 30},
	}
	cfg.Materials = []MaterialConfig{
		{Name: "floor", Tint: [4]float32{0.8, 0.8, 0.8, 1}, Roughness: 0.9, UVScale: [2]float32{8, 8}},
		{Name: "metal", Tint: [4]float32{0.9, 0.6, 0.3, 1}, Roughness: 0.3, Metalness: float32Ptr(1), PBR: true, UVScale: [2]float32{1, 1}, Environment: true},
	}
	cfg.Entities = []EntityConfig{
		{Name: "floor", Mesh: MeshPlane, Material: "floor", Scale: [3]float32{1, 1, 1}},
		{Name: "cube", Mesh: MeshCube, Material: "metal", Position: [3]float32{-1.5, 0.5, 0}, Rotation: [3]float32{0, 30, 0}, Scale: [3]float32{1, 1, 1}},
		{Name: "sphere", Mesh: MeshSphere, Material: "metal", Position: [3]float32{1.5, 0.75, 0}, Scale: [3]float32{1.5, 1.5, 1.5}},
	}
	return cfg
}

func float32Ptr(v float32) *float32 { return &v }

// Load reads and validates the configuration at path. Sections missing from
// the file keep their defaults; scene content comes only from the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the section defaults and validates the
// result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := base()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.applyEntityDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEntityDefaults fills values a zero TOML field cannot mean.
func (c *Config) applyEntityDefaults() {
	for i := range c.Entities {
		if c.Entities[i].Scale == ([3]float32{}) {
			c.Entities[i].Scale = [3]float32{1, 1, 1}
		}
	}
	for i := range c.Materials {
		if c.Materials[i].UVScale == ([2]float32{}) {
			c.Materials[i].UVScale = [2]float32{1, 1}
		}
	}
	for i := range c.Lights {
		if c.Lights[i].Color == ([3]float32{}) {
			c.Lights[i].Color = [3]float32{1, 1, 1}
		}
	}
}

// Marshal encodes the configuration back to TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
