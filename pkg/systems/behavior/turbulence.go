package behavior

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/decker502/particlefx/pkg/ecs"
)

const TurbulenceType = "turbulence"

// TurbulenceConfig configures TurbulenceBehavior.
type TurbulenceConfig struct {
	Strength  float64 `yaml:"strength"`  // pixels/second at full noise
	Frequency float64 `yaml:"frequency"` // spatial frequency, per pixel
	Speed     float64 `yaml:"speed"`     // how fast the field evolves, per second
	Seed      int64   `yaml:"seed"`
}

// TurbulenceBehavior drifts particles through a 2D simplex noise field.
// Each particle samples the field at its own offset so neighbours do not move
// in lockstep.
type TurbulenceBehavior struct {
	noise     opensimplex.Noise
	strength  float64
	frequency float64
	speed     float64
}

// NewTurbulenceBehavior creates a TurbulenceBehavior.
func NewTurbulenceBehavior(cfg TurbulenceConfig) *TurbulenceBehavior {
	return &TurbulenceBehavior{
		noise:     opensimplex.New(cfg.Seed),
		strength:  cfg.Strength,
		frequency: cfg.Frequency,
		speed:     cfg.Speed,
	}
}

// Order implements Behavior.
func (b *TurbulenceBehavior) Order() Order { return Late }

// InitParticles picks a sampling offset per particle.
func (b *TurbulenceBehavior) InitParticles(list ecs.List) {
	rng := list.Rand()
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		list.Get(id).Ext.NoiseOffset = rng.Float64() * 1000
	}
}

// UpdateParticles displaces each particle by the local noise value.
func (b *TurbulenceBehavior) UpdateParticles(list ecs.List, deltaSec float64) {
	if b.strength == 0 {
		return
	}
	for id := list.First(); id != ecs.Nil; id = list.Next(id) {
		p := list.Get(id)
		t := p.Ext.NoiseOffset + p.Age*b.speed
		dx := b.noise.Eval2(p.X*b.frequency, t)
		dy := b.noise.Eval2(t, p.Y*b.frequency)
		p.X += dx * b.strength * deltaSec
		p.Y += dy * b.strength * deltaSec
	}
}
