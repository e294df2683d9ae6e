package behavior

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/particlefx/internal/particle"
	"github.com/decker502/particlefx/pkg/ecs"
	"github.com/decker502/particlefx/pkg/utils"
)

const (
	AlphaType       = "alpha"
	AlphaStaticType = "alphaStatic"
	ScaleType       = "scale"
	ScaleStaticType = "scaleStatic"
	ColorType       = "color"
	ColorStaticType = "colorStatic"
)

// AlphaConfig configures AlphaBehavior. An empty list keeps alpha at 1.
type AlphaConfig struct {
	Alpha ValueListConfig `yaml:"alpha"`
}

// AlphaBehavior drives alpha from a value list over the particle's lifetime.
type AlphaBehavior struct {
	list *particle.List[float64]
}

// NewAlphaBehavior builds the alpha list.
func NewAlphaBehavior(cfg AlphaConfig) (*AlphaBehavior, error) {
	list, err := cfg.Alpha.build(1)
	if err != nil {
		return nil, err
	}
	return &AlphaBehavior{list: list}, nil
}

// Order implements Behavior.
func (b *AlphaBehavior) Order() Order { return Normal }

// InitParticles sets the starting alpha.
func (b *AlphaBehavior) InitParticles(list ecs.List) {
	first := b.list.First()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Alpha = first
	}
}

// UpdateParticles evaluates alpha at each particle's age percent.
func (b *AlphaBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Alpha = b.list.Evaluate(p.AgePercent)
	}
}

// AlphaStaticConfig configures AlphaStaticBehavior.
type AlphaStaticConfig struct {
	Alpha float64 `yaml:"alpha"`
}

// AlphaStaticBehavior sets a fixed alpha at spawn.
type AlphaStaticBehavior struct {
	value float64
}

// NewAlphaStaticBehavior creates an AlphaStaticBehavior.
func NewAlphaStaticBehavior(cfg AlphaStaticConfig) *AlphaStaticBehavior {
	return &AlphaStaticBehavior{value: cfg.Alpha}
}

// Order implements Behavior.
func (b *AlphaStaticBehavior) Order() Order { return Normal }

// InitParticles sets alpha.
func (b *AlphaStaticBehavior) InitParticles(list ecs.List) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Alpha = b.value
	}
}

// ScaleConfig configures ScaleBehavior.
type ScaleConfig struct {
	Scale ValueListConfig `yaml:"scale"`
	// MinMult is the lower bound of a per-particle multiplier in [MinMult, 1).
	// Omitted means 1, no variation; an explicit 0 is honoured.
	MinMult *float64 `yaml:"minMult,omitempty"`
}

// ScaleBehavior drives scale from a value list times a per-particle multiplier.
type ScaleBehavior struct {
	list    *particle.List[float64]
	minMult float64
}

// NewScaleBehavior builds the scale list.
func NewScaleBehavior(cfg ScaleConfig) (*ScaleBehavior, error) {
	list, err := cfg.Scale.build(1)
	if err != nil {
		return nil, err
	}
	minMult := multOrOne(cfg.MinMult)
	return &ScaleBehavior{list: list, minMult: minMult}, nil
}

// Order implements Behavior.
func (b *ScaleBehavior) Order() Order { return Normal }

// InitParticles picks the multiplier and the starting scale.
func (b *ScaleBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	first := b.list.First()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Ext.ScaleMult = particle.RandomInRange(rng, b.minMult, 1)
		p.Scale = first * p.Ext.ScaleMult
	}
}

// UpdateParticles evaluates scale at each particle's age percent.
func (b *ScaleBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Scale = b.list.Evaluate(p.AgePercent) * p.Ext.ScaleMult
	}
}

// ScaleStaticConfig configures ScaleStaticBehavior.
type ScaleStaticConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// ScaleStaticBehavior sets a random fixed scale at spawn.
type ScaleStaticBehavior struct {
	min float64
	max float64
}

// NewScaleStaticBehavior creates a ScaleStaticBehavior.
func NewScaleStaticBehavior(cfg ScaleStaticConfig) *ScaleStaticBehavior {
	return &ScaleStaticBehavior{min: cfg.Min, max: cfg.Max}
}

// Order implements Behavior.
func (b *ScaleStaticBehavior) Order() Order { return Normal }

// InitParticles sets the scale.
func (b *ScaleStaticBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Scale = particle.RandomInRange(rng, b.min, b.max)
	}
}

// ColorConfig configures ColorBehavior. An empty list keeps particles white.
type ColorConfig struct {
	Color ColorListConfig `yaml:"color"`
}

// ColorBehavior drives the tint from a color list over the particle's lifetime.
type ColorBehavior struct {
	list *particle.List[colorful.Color]
}

// NewColorBehavior parses the color list.
func NewColorBehavior(cfg ColorConfig) (*ColorBehavior, error) {
	list, err := cfg.Color.build()
	if err != nil {
		return nil, err
	}
	return &ColorBehavior{list: list}, nil
}

// Order implements Behavior.
func (b *ColorBehavior) Order() Order { return Normal }

// InitParticles sets the starting tint.
func (b *ColorBehavior) InitParticles(list ecs.List) {
	first := b.list.First()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Tint = first
	}
}

// UpdateParticles evaluates the tint at each particle's age percent.
func (b *ColorBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Tint = b.list.Evaluate(p.AgePercent)
	}
}

// ColorStaticConfig configures ColorStaticBehavior.
type ColorStaticConfig struct {
	Color string `yaml:"color"`
}

// ColorStaticBehavior sets a fixed tint at spawn.
type ColorStaticBehavior struct {
	value colorful.Color
}

// NewColorStaticBehavior parses the color; empty means white.
func NewColorStaticBehavior(cfg ColorStaticConfig) (*ColorStaticBehavior, error) {
	if cfg.Color == "" {
		return &ColorStaticBehavior{value: utils.White}, nil
	}
	c, err := utils.HexToRGB(cfg.Color)
	if err != nil {
		return nil, err
	}
	return &ColorStaticBehavior{value: c}, nil
}

// Order implements Behavior.
func (b *ColorStaticBehavior) Order() Order { return Normal }

// InitParticles sets the tint.
func (b *ColorStaticBehavior) InitParticles(list ecs.List) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Tint = b.value
	}
}
