package renderer

import (
	"fmt"
	"strings"

	"Forward3D/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// FilterMode is the texture filtering a sampler applies.
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterLinear
	FilterAnisotropic
)

func (f FilterMode) String() string {
	switch f {
	case FilterPoint:
		return "point"
	case FilterLinear:
		return "linear"
	case FilterAnisotropic:
		return "anisotropic"
	}
	return "unknown"
}

func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(s) {
	case "point", "nearest":
		return FilterPoint, nil
	case "linear", "bilinear", "trilinear":
		return FilterLinear, nil
	case "anisotropic":
		return FilterAnisotropic, nil
	}
	return FilterPoint, fmt.Errorf("unknown filter mode %q", s)
}

const (
	MinAnisotropy int32 = 1
	MaxAnisotropy int32 = 16
)

// DefaultSamplerName is the binding every material's main sampler uses.
const DefaultSamplerName = "BasicSampler"

// SamplerDesc describes a wrap-addressed texture sampler.
type SamplerDesc struct {
	Filter        FilterMode
	MaxAnisotropy int32
}

// SamplerFactory creates GPU sampler objects. Each call returns a new
// reference owned by the caller.
type SamplerFactory interface {
	CreateSampler(desc SamplerDesc) (SamplerState, error)
}

// Process-wide sampler settings. The render loop owns them.
var globalSampler = SamplerDesc{Filter: FilterAnisotropic, MaxAnisotropy: MaxAnisotropy}

func GlobalSamplerDesc() SamplerDesc {
	return globalSampler
}

func SetGlobalSamplerFilter(filter FilterMode) {
	globalSampler.Filter = filter
}

// SetGlobalSamplerAnisotropy clamps level to [MinAnisotropy, MaxAnisotropy].
func SetGlobalSamplerAnisotropy(level int32) {
	if level < MinAnisotropy {
		level = MinAnisotropy
	}
	if level > MaxAnisotropy {
		level = MaxAnisotropy
	}
	globalSampler.MaxAnisotropy = level
}

// ApplyGlobalSamplerState builds a sampler from the global settings for every
// material that has not locked its sampler state and binds it under
// DefaultSamplerName. It returns how many materials were updated; failures
// are collected and do not stop the pass.
func ApplyGlobalSamplerState(factory SamplerFactory, materials []*Material) (int, error) {
	var (
		updated int
		errs    error
	)
	desc := GlobalSamplerDesc()
	for _, m := range materials {
		if m.IsSamplerStateLocked() {
			continue
		}
		sampler, err := factory.CreateSampler(desc)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("material %s: %w", m.GetName(), err))
			continue
		}
		m.AddSampler(DefaultSamplerName, sampler)
		updated++
	}

	logger.Log.Info("Global sampler state applied",
		zap.Stringer("filter", desc.Filter),
		zap.Int32("anisotropy", desc.MaxAnisotropy),
		zap.Int("materials", updated))
	return updated, errs
}
