package renderer

import (
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// samplerUniform is a sampler declared by a linked program and the texture
// unit it is pinned to for the program's lifetime.
type samplerUniform struct {
	unit   int32
	target uint32
}

// activeUniform is one entry of a program's GL_ACTIVE_UNIFORMS list.
type activeUniform struct {
	name  string
	xtype uint32
}

func samplerTarget(xtype uint32) (uint32, bool) {
	switch xtype {
	case gl.SAMPLER_2D, gl.SAMPLER_2D_SHADOW, gl.INT_SAMPLER_2D, gl.UNSIGNED_INT_SAMPLER_2D:
		return gl.TEXTURE_2D, true
	case gl.SAMPLER_CUBE, gl.SAMPLER_CUBE_SHADOW:
		return gl.TEXTURE_CUBE_MAP, true
	case gl.SAMPLER_3D:
		return gl.TEXTURE_3D, true
	case gl.SAMPLER_2D_ARRAY, gl.SAMPLER_2D_ARRAY_SHADOW:
		return gl.TEXTURE_2D_ARRAY, true
	}
	return 0, false
}

// assignSamplerUnits gives every sampler uniform its own unit, in name
// order. Two sampler types never share a unit, whatever a draw binds.
func assignSamplerUnits(uniforms []activeUniform) map[string]samplerUniform {
	var names []string
	targets := make(map[string]uint32)
	for _, u := range uniforms {
		if target, ok := samplerTarget(u.xtype); ok {
			names = append(names, u.name)
			targets[u.name] = target
		}
	}
	sort.Strings(names)

	units := make(map[string]samplerUniform, len(names))
	for i, name := range names {
		units[name] = samplerUniform{unit: int32(i), target: targets[name]}
	}
	return units
}

// unitBinding is the texture one unit holds for a draw. A zero id unbinds.
type unitBinding struct {
	unit   int32
	target uint32
	id     uint32
}

// planTextureBindings covers every declared unit so a unit the current draw
// leaves empty does not keep the previous draw's texture.
func planTextureBindings(units map[string]samplerUniform, textures map[string]glTextureHandle) []unitBinding {
	plan := make([]unitBinding, 0, len(units))
	for name, su := range units {
		b := unitBinding{unit: su.unit, target: su.target}
		if tex, ok := textures[name]; ok {
			b.target, b.id = tex.GLTarget(), tex.GLID()
		}
		plan = append(plan, b)
	}
	sort.Slice(plan, func(i, j int) bool { return plan[i].unit < plan[j].unit })
	return plan
}

// planSamplerBindings returns the sampler object per unit, 0 for none.
// Samplers named in targets serve only their texture; any other sampler
// serves every unit no dedicated sampler claimed.
func planSamplerBindings(units map[string]samplerUniform, samplers map[string]glSamplerHandle, targets map[string]string) map[int32]uint32 {
	plan := make(map[int32]uint32, len(units))
	for _, su := range units {
		plan[su.unit] = 0
	}

	claimed := make(map[int32]bool)
	for samplerName, textureName := range targets {
		smp, ok := samplers[samplerName]
		su, declared := units[textureName]
		if ok && declared {
			plan[su.unit] = smp.GLID()
			claimed[su.unit] = true
		}
	}

	var shared []string
	for name := range samplers {
		if _, dedicated := targets[name]; !dedicated {
			shared = append(shared, name)
		}
	}
	if len(shared) == 0 {
		return plan
	}
	sort.Strings(shared)
	smp := samplers[shared[0]]
	for unit := range plan {
		if !claimed[unit] {
			plan[unit] = smp.GLID()
		}
	}
	return plan
}
