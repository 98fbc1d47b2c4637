package config

import (
	"fmt"
	"strings"

	"Forward3D/internal/renderer"

	"go.uber.org/multierr"
)

func invalid(field string, value float32, reason string) error {
	return &renderer.ConfigurationError{Field: field, Value: value, Reason: reason}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs error
	add := func(err error) { errs = multierr.Append(errs, err) }

	if c.Window.Width <= 0 {
		add(invalid("window.width", float32(c.Window.Width), "must be positive"))
	}
	if c.Window.Height <= 0 {
		add(invalid("window.height", float32(c.Window.Height), "must be positive"))
	}

	cam := c.Camera
	if !cam.Orthographic && (cam.Fov <= 0 || cam.Fov >= 180) {
		add(invalid("camera.fov", cam.Fov, "must be in (0, 180) degrees"))
	}
	if cam.Orthographic && cam.OrthoWidth <= 0 {
		add(invalid("camera.ortho_width", cam.OrthoWidth, "must be positive"))
	}
	if cam.Near <= 0 {
		add(invalid("camera.near", cam.Near, "must be positive"))
	}
	if cam.Far <= cam.Near {
		add(invalid("camera.far", cam.Far, "must be greater than near"))
	}

	sh := c.Shadow
	if sh.Resolution <= 0 {
		add(invalid("shadow.resolution", float32(sh.Resolution), "must be positive"))
	}
	if sh.AreaWidth <= 0 {
		add(invalid("shadow.area_width", sh.AreaWidth, "must be positive"))
	}
	if sh.LightDistance <= renderer.ShadowNearClip {
		add(invalid("shadow.light_distance", sh.LightDistance, fmt.Sprintf("must be greater than %g", renderer.ShadowNearClip)))
	}

	if _, err := renderer.ParseFilterMode(c.Sampler.Filter); err != nil {
		add(fmt.Errorf("sampler.filter: %w", err))
	}
	if c.Sampler.Anisotropy < renderer.MinAnisotropy || c.Sampler.Anisotropy > renderer.MaxAnisotropy {
		add(invalid("sampler.anisotropy", float32(c.Sampler.Anisotropy),
			fmt.Sprintf("must be in [%d, %d]", renderer.MinAnisotropy, renderer.MaxAnisotropy)))
	}

	if len(c.Skybox.Faces) != 0 && len(c.Skybox.Faces) != 6 {
		add(invalid("skybox.faces", float32(len(c.Skybox.Faces)), "needs exactly 6 faces"))
	}

	if len(c.Lights) > renderer.MaxLights {
		add(invalid("lights", float32(len(c.Lights)), fmt.Sprintf("at most %d are drawn", renderer.MaxLights)))
	}
	for i, l := range c.Lights {
		add(l.validate(fmt.Sprintf("lights[%d]", i)))
	}

	materials := make(map[string]bool, len(c.Materials))
	for i, m := range c.Materials {
		field := fmt.Sprintf("materials[%d]", i)
		if m.Name == "" {
			add(fmt.Errorf("%s.name: must not be empty", field))
		} else if materials[m.Name] {
			add(fmt.Errorf("%s.name: duplicate material %q", field, m.Name))
		}
		materials[m.Name] = true
		if m.Roughness < 0 || m.Roughness > 1 {
			add(invalid(field+".roughness", m.Roughness, "must be in [0, 1]"))
		}
		if m.Metalness != nil && (*m.Metalness < 0 || *m.Metalness > 1) {
			add(invalid(field+".metalness", *m.Metalness, "must be in [0, 1]"))
		}
	}

	for i, e := range c.Entities {
		field := fmt.Sprintf("entities[%d]", i)
		switch e.Mesh {
		case MeshCube, MeshPlane, MeshSphere:
		default:
			add(fmt.Errorf("%s.mesh: unknown mesh %q", field, e.Mesh))
		}
		if !materials[e.Material] {
			add(fmt.Errorf("%s.material: unknown material %q", field, e.Material))
		}
	}
	return errs
}

func (l LightConfig) validate(field string) error {
	t, err := ParseLightType(l.Type)
	if err != nil {
		return fmt.Errorf("%s.type: %w", field, err)
	}
	var errs error
	if t != renderer.DirectionalLight && l.Range < 0 {
		errs = multierr.Append(errs, invalid(field+".range", l.Range, "must not be negative"))
	}
	if t != renderer.PointLight && l.Direction == ([3]float32{}) {
		errs = multierr.Append(errs, fmt.Errorf("%s.direction: must not be zero", field))
	}
	if t == renderer.SpotLight {
		if l.SpotOuter <= l.SpotInner {
			errs = multierr.Append(errs, invalid(field+".spot_outer", l.SpotOuter, "must be greater than spot_inner"))
		}
		if l.SpotOuter >= 90 {
			errs = multierr.Append(errs, invalid(field+".spot_outer", l.SpotOuter, "must be below 90 degrees"))
		}
	}
	return errs
}

func ParseLightType(s string) (renderer.LightType, error) {
	switch strings.ToLower(s) {
	case "directional", "sun":
		return renderer.DirectionalLight, nil
	case "point":
		return renderer.PointLight, nil
	case "spot":
		return renderer.SpotLight, nil
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}
