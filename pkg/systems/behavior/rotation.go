package behavior

import (
	"github.com/decker502/particlefx/internal/particle"
	"github.com/decker502/particlefx/pkg/ecs"
	"github.com/decker502/particlefx/pkg/utils"
)

// Behavior type ids for rotation kinds.
const (
	RotationType       = "rotation"
	StaticRotationType = "rotationStatic"
	NoRotationType     = "noRotation"
)

// RotationConfig configures RotationBehavior. All fields default to 0.
type RotationConfig struct {
	MinStart float64 `yaml:"minStart"` // degrees
	MaxStart float64 `yaml:"maxStart"` // degrees
	MinSpeed float64 `yaml:"minSpeed"` // degrees/second
	MaxSpeed float64 `yaml:"maxSpeed"` // degrees/second
	Accel    float64 `yaml:"accel"`    // degrees/second²
}

// RotationBehavior gives each particle a starting rotation and a rotational
// speed, with optional constant angular acceleration.
type RotationBehavior struct {
	minStart float64
	maxStart float64
	minSpeed float64
	maxSpeed float64
	accel    float64
}

// NewRotationBehavior converts the config to radians once.
func NewRotationBehavior(cfg RotationConfig) *RotationBehavior {
	return &RotationBehavior{
		minStart: utils.DegreesToRadians(cfg.MinStart),
		maxStart: utils.DegreesToRadians(cfg.MaxStart),
		minSpeed: utils.DegreesToRadians(cfg.MinSpeed),
		maxSpeed: utils.DegreesToRadians(cfg.MaxSpeed),
		accel:    utils.DegreesToRadians(cfg.Accel),
	}
}

// Order implements Behavior.
func (b *RotationBehavior) Order() Order { return Normal }

// InitParticles adds the starting rotation and stores the rotational speed.
func (b *RotationBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Rotation += particle.RandomInRange(rng, b.minStart, b.maxStart)
		p.Ext.RotSpeed = particle.RandomInRange(rng, b.minSpeed, b.maxSpeed)
	}
}

// UpdateParticles integrates rotation. With acceleration the trapezoidal rule
// is used, which is exact for constant acceleration.
func (b *RotationBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	if b.accel != 0 {
		for id := list.First(); id != ecs.Nil; id = list.Next(id) {
			p := list.Get(id)
			oldSpeed := p.Ext.RotSpeed
			p.Ext.RotSpeed += b.accel * deltaSec
			p.Rotation += (p.Ext.RotSpeed + oldSpeed) / 2 * deltaSec
		}
		return
	}

	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		p.Rotation += p.Ext.RotSpeed * deltaSec
	}
}

// StaticRotationConfig configures StaticRotationBehavior. Defaults are 0.
type StaticRotationConfig struct {
	Min float64 `yaml:"min"` // degrees
	Max float64 `yaml:"max"` // degrees
}

// StaticRotationBehavior adds a fixed random rotation at spawn and never
// touches the particle again.
type StaticRotationBehavior struct {
	min float64
	max float64
}

// NewStaticRotationBehavior converts the config to radians once.
func NewStaticRotationBehavior(cfg StaticRotationConfig) *StaticRotationBehavior {
	return &StaticRotationBehavior{
		min: utils.DegreesToRadians(cfg.Min),
		max: utils.DegreesToRadians(cfg.Max),
	}
}

// Order implements Behavior.
func (b *StaticRotationBehavior) Order() Order { return Normal }

// InitParticles adds the rotation to whatever earlier behaviors set.
func (b *StaticRotationBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Rotation += particle.RandomInRange(rng, b.min, b.max)
	}
}

// NoRotationBehavior forces spawned particles to rotation 0. It runs after
// every other behavior so the override always wins.
type NoRotationBehavior struct{}

// NewNoRotationBehavior creates a NoRotationBehavior.
func NewNoRotationBehavior() *NoRotationBehavior {
	return &NoRotationBehavior{}
}

// Order implements Behavior.
func (b *NoRotationBehavior) Order() Order { return Late + 1 }

// InitParticles overwrites rotation with 0.
func (b *NoRotationBehavior) InitParticles(list ecs.List) {
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Rotation = 0
	}
}
